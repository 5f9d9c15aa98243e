// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// Unpack reads a whole GLB blob from r, returning the decoded JSON
// chunk and the BIN chunk's payload. The BIN chunk is optional; its
// absence yields a nil slice.
func Unpack(r io.Reader) (gltf *GLTF, bin []byte, err error) {
	if !IsGLB(r) {
		return nil, nil, errors.New("gltf: not a GLB blob")
	}
	var c glbChunk
	if err = binary.Read(r, binary.LittleEndian, c[:]); err != nil {
		return
	}
	if c[chunkLength] == 0 || c[chunkType] != typeJSON {
		return nil, nil, errors.New("gltf: invalid GLB chunk")
	}
	jdata := make([]byte, c[chunkLength])
	if _, err = io.ReadFull(r, jdata); err != nil {
		return
	}
	if gltf, err = Decode(bytes.NewReader(jdata)); err != nil {
		return
	}
	switch err = binary.Read(r, binary.LittleEndian, c[:]); err {
	case nil:
	case io.EOF:
		return gltf, nil, nil
	default:
		return
	}
	if c[chunkType] != typeBIN {
		return nil, nil, errors.New("gltf: invalid GLB chunk")
	}
	bin = make([]byte, c[chunkLength])
	if _, err = io.ReadFull(r, bin); err != nil {
		return
	}
	return gltf, bin, nil
}
