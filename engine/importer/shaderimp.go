// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Shader import: source to SPIR-V plus parameter sheet.

package importer

import (
	"fmt"
	"os"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/engine/shader"
)

type shaderImporter struct {
	base
}

func (si *shaderImporter) Begin(md *asset.Metadata) {
	if _, ok := md.Setting.(*asset.ShaderSetting); !ok {
		md.Setting = &asset.ShaderSetting{}
	}
}

func (si *shaderImporter) ProcessIntermediate(reg *asset.Registry, md *asset.Metadata) (uint64, error) {
	tr, ok := shader.TranslatorFor(md.FileType)
	if !ok {
		return 0, fmt.Errorf("%sno translator for %q: %w", prefix, md.FileType, asset.ErrUnsupportedFileType)
	}
	src, err := os.ReadFile(reg.AbsSourcePath(md.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, asset.ErrNotFound)
		}
		return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, err)
	}
	res, err := tr.Translate(md.Path, src)
	if err != nil {
		return 0, err
	}
	if len(res.VS) == 0 || len(res.FS) == 0 {
		return 0, fmt.Errorf("%s%s: translator produced empty stage: %w", prefix, md.Path, asset.ErrCorrupt)
	}

	body := codec.ShaderBody{Sheet: res.Sheet, VS: res.VS, FS: res.FS}
	abs := reg.AbsIntermediatePath(md.UUID, asset.Shader)
	hash, err := codec.WriteFile(abs, &body)
	if err != nil {
		return 0, err
	}
	si.wrote, si.abs = true, abs
	return hash, nil
}
