// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// WGSL translation via naga.

package shader

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/gogpu/naga"

	"github.com/embergfx/ember/asset/codec"
)

// wgslTranslator compiles WGSL source to SPIR-V through naga.
// naga emits one module containing both entry points, so the vertex
// and fragment streams reference the same words.
//
// The parameter sheet is reflected from the source text: the
// sentinel globals GCamera, GModel and GTexturePool/GSamplerPool set
// the Needs* flags, and the members of the push-constant block
// become the push-constant items.
type wgslTranslator struct{}

func (wgslTranslator) Translate(path string, src []byte) (*TranslateResult, error) {
	spv, err := naga.Compile(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", prefix, path, err)
	}
	words, err := wordsFromBytes(path, spv)
	if err != nil {
		return nil, err
	}
	return &TranslateResult{
		Sheet: reflectWGSL(string(src)),
		VS:    words,
		FS:    append([]uint32(nil), words...),
	}, nil
}

var (
	identRE = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	// var<push_constant> name: Type;
	pushVarRE = regexp.MustCompile(`var\s*<\s*push_constant\s*>\s*[A-Za-z_][A-Za-z0-9_]*\s*:\s*([A-Za-z_][A-Za-z0-9_]*)`)
	// name: scalar, inside a struct body.
	memberRE = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(u32|i32|f32)\s*[,}\n]`)
)

// reflectWGSL derives the parameter sheet from WGSL source.
func reflectWGSL(src string) codec.ParameterSheet {
	var sheet codec.ParameterSheet
	for _, id := range identRE.FindAllString(src, -1) {
		switch id {
		case "GCamera":
			sheet.NeedsCamera = true
		case "GModel":
			sheet.NeedsModel = true
		case "GTexturePool", "GSamplerPool":
			sheet.NeedsResourcePool = true
		}
	}
	sheet.PushConstants = reflectPushConstants(src)
	return sheet
}

// reflectPushConstants locates the push-constant block's struct type
// and assigns sequential 4-byte offsets to its scalar members.
func reflectPushConstants(src string) []codec.PushConstant {
	m := pushVarRE.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	structRE := regexp.MustCompile(`struct\s+` + regexp.QuoteMeta(m[1]) + `\s*{([^}]*)}`)
	body := structRE.FindStringSubmatch(src)
	if body == nil {
		return nil
	}
	var items []codec.PushConstant
	var off uint32
	for _, mm := range memberRE.FindAllStringSubmatch(body[1]+"\n", -1) {
		items = append(items, codec.PushConstant{Name: mm[1], Offset: off, Size: 4})
		off += 4
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Offset < items[j].Offset })
	return items
}
