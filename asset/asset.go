// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package asset defines asset identity, metadata and the on-disk
// metadata store.
//
// An asset is identified primarily by a UUID generated at first
// import and secondarily by its project-relative path. The registry
// maintains both mappings and a bounded cache of metadata records.
package asset

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ID is the stable 128-bit identity of an asset.
type ID = uuid.UUID

// NewID generates a fresh random ID.
func NewID() ID { return uuid.New() }

// ParseID parses the canonical string form of an ID.
func ParseID(s string) (ID, error) { return uuid.Parse(s) }

// Type is the runtime kind an asset produces.
type Type int

// Asset types.
const (
	Texture Type = iota
	Mesh
	Shader
)

// String returns the name of t.
func (t Type) String() string {
	switch t {
	case Texture:
		return "texture"
	case Mesh:
		return "mesh"
	case Shader:
		return "shader"
	}
	return "invalid"
}

func parseType(s string) (Type, bool) {
	switch s {
	case "texture":
		return Texture, true
	case "mesh":
		return Mesh, true
	case "shader":
		return Shader, true
	}
	return 0, false
}

// FileType identifies the format of a source file.
// It is inferred from the file extension.
type FileType int

// File types.
const (
	Unknown FileType = iota
	// Image formats.
	PNG
	JPG
	JPEG
	BMP
	TGA
	HDR
	EXR
	DDS
	KTX
	KTX2
	// Mesh formats.
	FBX
	OBJ
	GLTF
	GLB
	DAE
	BLEND
	X3D
	// Shader formats.
	HLSL
	GLSL
	SLANG
	WGSL
	SPIRV
)

var fileTypeNames = map[FileType]string{
	PNG: "png", JPG: "jpg", JPEG: "jpeg", BMP: "bmp", TGA: "tga",
	HDR: "hdr", EXR: "exr", DDS: "dds", KTX: "ktx", KTX2: "ktx2",
	FBX: "fbx", OBJ: "obj", GLTF: "gltf", GLB: "glb", DAE: "dae",
	BLEND: "blend", X3D: "x3d",
	HLSL: "hlsl", GLSL: "glsl", SLANG: "slang", WGSL: "wgsl", SPIRV: "spirv",
}

// String returns the canonical extension of f, without the dot.
func (f FileType) String() string {
	if s, ok := fileTypeNames[f]; ok {
		return s
	}
	return "unknown"
}

func parseFileType(s string) FileType {
	for f, name := range fileTypeNames {
		if name == s {
			return f
		}
	}
	return Unknown
}

// InferFileType infers the FileType from the extension of p.
// The match is case-insensitive. Unrecognized or missing extensions
// yield Unknown.
func InferFileType(p string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ext == "spv" {
		return SPIRV
	}
	return parseFileType(ext)
}

// AssetType returns the runtime kind produced from files of type f.
// ok is false for Unknown and other types outside the three families.
func (f FileType) AssetType() (t Type, ok bool) {
	switch f {
	case PNG, JPG, JPEG, BMP, TGA, HDR, EXR, DDS, KTX, KTX2:
		return Texture, true
	case FBX, OBJ, GLTF, GLB, DAE, BLEND, X3D:
		return Mesh, true
	case HLSL, GLSL, SLANG, WGSL, SPIRV:
		return Shader, true
	}
	return 0, false
}

// Metadata is the persistent record of an asset.
//
// Invariants: exactly one record per UUID; at most one record per
// path; UUID is non-nil; Type is consistent with FileType's family;
// IntermediateHash is either 0 (no intermediate yet) or equal to the
// hash stored in the leading bytes of the intermediate file.
type Metadata struct {
	UUID             ID
	Path             string
	Type             Type
	FileType         FileType
	Setting          ImportSetting
	IntermediateHash uint64

	// Unknown fields read from the metadata file, preserved
	// across save for forward compatibility.
	extra        map[string]any
	settingExtra map[string]any
}
