// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package gltf implements the subset of glTF 2.0 serialization that
// the mesh importer consumes: buffers, buffer views, accessors and
// mesh primitives.
package gltf

import (
	"encoding/json"
	"io"
)

// Root glTF object.
type GLTF struct {
	Accessors []Accessor `json:"accessors,omitempty"`
	Asset     struct {
		Version    string `json:"version"`
		MinVersion string `json:"minVersion,omitempty"`
		Generator  string `json:"generator,omitempty"`
	} `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
}

// glTF.accessors' element.
type Accessor struct {
	BufferView    *int64 `json:"bufferView,omitempty"`
	ByteOffset    int64  `json:"byteOffset,omitempty"` // Default is 0.
	ComponentType int64  `json:"componentType"`
	Normalized    bool   `json:"normalized,omitempty"`
	Count         int64  `json:"count"`
	Type          string `json:"type"`
	Name          string `json:"name,omitempty"`
}

// accessor.componentType values.
const (
	BYTE           = 5120
	UNSIGNED_BYTE  = 5121
	SHORT          = 5122
	UNSIGNED_SHORT = 5123
	UNSIGNED_INT   = 5125
	FLOAT          = 5126
)

// accessor.type values.
const (
	SCALAR = "SCALAR"
	VEC2   = "VEC2"
	VEC3   = "VEC3"
	VEC4   = "VEC4"
)

// glTF.buffers' element.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// glTF.bufferViews' element.
type BufferView struct {
	Buffer     int64  `json:"buffer"`
	ByteOffset int64  `json:"byteOffset,omitempty"` // Default is 0.
	ByteLength int64  `json:"byteLength"`
	ByteStride *int64 `json:"byteStride,omitempty"`
	Target     int64  `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

// glTF.meshes' element.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Name       string      `json:"name,omitempty"`
}

// mesh.primitives' element.
type Primitive struct {
	Attributes map[string]int64 `json:"attributes"`
	Indices    *int64           `json:"indices,omitempty"`
	Material   *int64           `json:"material,omitempty"`
	Mode       *int64           `json:"mode,omitempty"` // Default is Striangles.
}

// primitive.mode values.
const (
	Spoints = iota
	Slines
	Sline_loop
	Sline_strip
	Striangles
	Striangle_strip
	Striangle_fan
)

// primitive.attributes' keys.
const (
	POSITION   = "POSITION"
	NORMAL     = "NORMAL"
	TEXCOORD_0 = "TEXCOORD_0"
)

// Encode writes gltf to w as a JSON object.
func Encode(w io.Writer, gltf *GLTF) error {
	enc := json.NewEncoder(w)
	return enc.Encode(gltf)
}

// Decode reads a JSON object from r into a new GLTF.
func Decode(r io.Reader) (*GLTF, error) {
	dec := json.NewDecoder(r)
	gltf := new(GLTF)
	if err := dec.Decode(gltf); err != nil {
		return nil, err
	}
	return gltf, nil
}
