// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Metadata file serialization.

package asset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/embergfx/ember/driver"
)

// metaFile is the YAML form of a Metadata record.
// Unknown fields are captured by the inline map and written back
// verbatim on save.
type metaFile struct {
	UUID             string       `yaml:"uuid"`
	Path             string       `yaml:"path"`
	AssetType        string       `yaml:"assetType"`
	FileType         string       `yaml:"fileType"`
	Setting          *settingFile `yaml:"setting,omitempty"`
	IntermediateHash uint64       `yaml:"intermediateHash"`

	Extra map[string]any `yaml:",inline"`
}

type settingFile struct {
	Kind   string `yaml:"kind"`
	Format int    `yaml:"format,omitempty"`
	Flags  uint32 `yaml:"flags,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

func marshalMetadata(md *Metadata) ([]byte, error) {
	mf := metaFile{
		UUID:             md.UUID.String(),
		Path:             md.Path,
		AssetType:        md.Type.String(),
		FileType:         md.FileType.String(),
		IntermediateHash: md.IntermediateHash,
		Extra:            md.extra,
	}
	switch s := md.Setting.(type) {
	case *TextureSetting:
		mf.Setting = &settingFile{Kind: "texture", Format: int(s.Format), Extra: md.settingExtra}
	case *MeshSetting:
		mf.Setting = &settingFile{Kind: "mesh", Flags: uint32(s.Flags), Extra: md.settingExtra}
	case *ShaderSetting:
		mf.Setting = &settingFile{Kind: "shader", Extra: md.settingExtra}
	case nil:
	default:
		return nil, fmt.Errorf("%sunknown import setting variant %T", prefix, s)
	}
	return yaml.Marshal(&mf)
}

func unmarshalMetadata(data []byte) (*Metadata, error) {
	var mf metaFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%s%s: %w", prefix, err, ErrCorrupt)
	}
	id, err := ParseID(mf.UUID)
	if err != nil || id == (ID{}) {
		return nil, fmt.Errorf("%sbad uuid %q: %w", prefix, mf.UUID, ErrCorrupt)
	}
	typ, ok := parseType(mf.AssetType)
	if !ok {
		return nil, fmt.Errorf("%sbad asset type %q: %w", prefix, mf.AssetType, ErrCorrupt)
	}
	ft := parseFileType(mf.FileType)
	if ftt, ok := ft.AssetType(); !ok || ftt != typ {
		return nil, fmt.Errorf("%sfile type %q inconsistent with asset type %q: %w",
			prefix, mf.FileType, mf.AssetType, ErrCorrupt)
	}
	md := &Metadata{
		UUID:             id,
		Path:             mf.Path,
		Type:             typ,
		FileType:         ft,
		IntermediateHash: mf.IntermediateHash,
		extra:            mf.Extra,
	}
	if mf.Setting != nil {
		md.settingExtra = mf.Setting.Extra
		switch mf.Setting.Kind {
		case "texture":
			md.Setting = &TextureSetting{Format: driver.PixelFmt(mf.Setting.Format)}
		case "mesh":
			md.Setting = &MeshSetting{Flags: MeshImportFlag(mf.Setting.Flags)}
		case "shader":
			md.Setting = &ShaderSetting{}
		default:
			return nil, fmt.Errorf("%sunknown setting kind %q: %w", prefix, mf.Setting.Kind, ErrCorrupt)
		}
	}
	return md, nil
}
