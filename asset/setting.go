// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package asset

import "github.com/embergfx/ember/driver"

// ImportSetting is the per-family import configuration attached to
// metadata. It is a closed sum over TextureSetting, MeshSetting and
// ShaderSetting; serialization tags the variant explicitly.
type ImportSetting interface {
	settingKind() string
}

// TextureSetting configures texture import.
type TextureSetting struct {
	// Format is the GPU pixel format the intermediate stores.
	Format driver.PixelFmt
}

func (*TextureSetting) settingKind() string { return "texture" }

// DefaultTextureSetting returns the default texture import setting.
func DefaultTextureSetting() *TextureSetting {
	return &TextureSetting{Format: driver.BGRA8sRGB}
}

// MeshImportFlag is a bitset of mesh importer transforms.
type MeshImportFlag uint32

// Mesh import flags.
const (
	MTriangulate MeshImportFlag = 1 << iota
	MGenNormals
	MGenSmoothNormals
	MSplitLargeMeshes
	MPreTransformVertices
	MCalcTangentSpace
	MJoinIdenticalVertices
	MOptimizeMeshes
	MFlipUVs
	MFlipWindingOrder
)

// MeshSetting configures mesh import.
type MeshSetting struct {
	Flags MeshImportFlag
}

func (*MeshSetting) settingKind() string { return "mesh" }

// DefaultMeshSetting returns the default mesh import setting.
func DefaultMeshSetting() *MeshSetting {
	return &MeshSetting{
		Flags: MTriangulate | MGenNormals | MFlipUVs | MCalcTangentSpace | MJoinIdenticalVertices,
	}
}

// ShaderSetting configures shader import. It has no options today.
type ShaderSetting struct{}

func (*ShaderSetting) settingKind() string { return "shader" }

// DefaultSetting returns the default ImportSetting for the family of
// the given asset type.
func DefaultSetting(t Type) ImportSetting {
	switch t {
	case Texture:
		return DefaultTextureSetting()
	case Mesh:
		return DefaultMeshSetting()
	case Shader:
		return &ShaderSetting{}
	}
	return nil
}
