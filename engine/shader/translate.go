// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package shader

import (
	"encoding/binary"
	"fmt"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
)

// TranslateResult is the output of a shader translator: the
// reflected parameter sheet plus vertex and fragment SPIR-V.
type TranslateResult struct {
	Sheet codec.ParameterSheet
	VS    []uint32
	FS    []uint32
}

// Translator turns shader source of one file type into SPIR-V plus a
// parameter sheet. Translators for toolchains the engine does not
// embed (HLSL, GLSL, Slang) are registered by host code.
type Translator interface {
	Translate(path string, src []byte) (*TranslateResult, error)
}

var translators = map[asset.FileType]Translator{}

// RegisterTranslator registers t as the translator for file type ft,
// replacing any previous registration.
func RegisterTranslator(ft asset.FileType, t Translator) {
	translators[ft] = t
}

// TranslatorFor returns the translator registered for ft.
func TranslatorFor(ft asset.FileType) (Translator, bool) {
	t, ok := translators[ft]
	return t, ok
}

func init() {
	RegisterTranslator(asset.WGSL, wgslTranslator{})
	RegisterTranslator(asset.SPIRV, spirvTranslator{})
}

// spirvMagic is the first word of a SPIR-V binary.
const spirvMagic = 0x07230203

// spirvTranslator passes pre-compiled SPIR-V binaries through.
// The module is expected to contain both the vertex and the fragment
// entry points; both streams reference the same words. No reflection
// is performed, so the sheet is empty.
type spirvTranslator struct{}

func (spirvTranslator) Translate(path string, src []byte) (*TranslateResult, error) {
	words, err := wordsFromBytes(path, src)
	if err != nil {
		return nil, err
	}
	return &TranslateResult{
		VS: words,
		FS: append([]uint32(nil), words...),
	}, nil
}

func wordsFromBytes(path string, b []byte) ([]uint32, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, fmt.Errorf("%s%s: %d bytes is not a SPIR-V stream: %w",
			prefix, path, len(b), asset.ErrCorrupt)
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%s%s: bad SPIR-V magic %#x: %w",
			prefix, path, words[0], asset.ErrCorrupt)
	}
	return words, nil
}
