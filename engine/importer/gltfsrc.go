// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// glTF 2.0 mesh source.

package importer

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/gltf"
)

// gltfSource reads glTF 2.0 documents, either as JSON (.gltf with
// embedded data URIs) or as a GLB blob. Each triangle primitive
// becomes one sub-mesh; POSITION is required, NORMAL and TEXCOORD_0
// are optional.
type gltfSource struct {
	glb bool
}

func (g gltfSource) Read(r io.Reader, setting *asset.MeshSetting) ([]codec.SubMesh, error) {
	var doc *gltf.GLTF
	var bin []byte
	var err error
	if g.glb {
		doc, bin, err = gltf.Unpack(r)
	} else {
		doc, err = gltf.Decode(r)
	}
	if err != nil {
		return nil, err
	}

	bufs := make([][]byte, len(doc.Buffers))
	for i := range doc.Buffers {
		if bufs[i], err = bufferData(&doc.Buffers[i], bin); err != nil {
			return nil, err
		}
	}

	var subs []codec.SubMesh
	for mi := range doc.Meshes {
		for pi := range doc.Meshes[mi].Primitives {
			sub, err := primitive(doc, bufs, &doc.Meshes[mi].Primitives[pi], setting)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// bufferData resolves a buffer's payload: the GLB BIN chunk for
// URI-less buffers, or an embedded data URI.
// External buffer files are not supported.
func bufferData(b *gltf.Buffer, bin []byte) ([]byte, error) {
	switch {
	case b.URI == "":
		if int64(len(bin)) < b.ByteLength {
			return nil, errors.New("BIN chunk shorter than buffer")
		}
		return bin[:b.ByteLength], nil
	case strings.HasPrefix(b.URI, "data:"):
		i := strings.IndexByte(b.URI, ',')
		if i < 0 {
			return nil, errors.New("malformed data URI")
		}
		return base64.StdEncoding.DecodeString(b.URI[i+1:])
	}
	return nil, fmt.Errorf("external buffer %q not supported", b.URI)
}

// accessorData returns the raw bytes, element stride and count of an
// accessor whose element size is elemSize bytes.
func accessorData(doc *gltf.GLTF, bufs [][]byte, ai int64, elemSize int) (data []byte, stride, count int, err error) {
	if ai < 0 || int(ai) >= len(doc.Accessors) {
		return nil, 0, 0, errors.New("accessor index out of range")
	}
	a := &doc.Accessors[ai]
	if a.BufferView == nil {
		return nil, 0, 0, errors.New("accessor without buffer view")
	}
	if int(*a.BufferView) >= len(doc.BufferViews) {
		return nil, 0, 0, errors.New("buffer view index out of range")
	}
	v := &doc.BufferViews[*a.BufferView]
	if int(v.Buffer) >= len(bufs) {
		return nil, 0, 0, errors.New("buffer index out of range")
	}
	buf := bufs[v.Buffer]
	off := v.ByteOffset + a.ByteOffset
	stride = elemSize
	if v.ByteStride != nil {
		stride = int(*v.ByteStride)
	}
	count = int(a.Count)
	end := off + int64(stride)*int64(count-1) + int64(elemSize)
	if count < 1 || off < 0 || end > int64(len(buf)) {
		return nil, 0, 0, errors.New("accessor range out of bounds")
	}
	return buf[off:end], stride, count, nil
}

func f32at(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func primitive(doc *gltf.GLTF, bufs [][]byte, p *gltf.Primitive, setting *asset.MeshSetting) (codec.SubMesh, error) {
	var sub codec.SubMesh
	if p.Mode != nil && *p.Mode != gltf.Striangles {
		return sub, errors.New("non-triangle primitive")
	}

	pi, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return sub, errors.New("primitive without POSITION")
	}
	pos, pstride, count, err := accessorData(doc, bufs, pi, 12)
	if err != nil {
		return sub, err
	}

	var norm []byte
	var nstride int
	if ni, ok := p.Attributes[gltf.NORMAL]; ok {
		var n int
		if norm, nstride, n, err = accessorData(doc, bufs, ni, 12); err != nil {
			return sub, err
		}
		if n != count {
			return sub, errors.New("NORMAL count mismatch")
		}
	}

	var uv []byte
	var tstride int
	if ti, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		var n int
		if uv, tstride, n, err = accessorData(doc, bufs, ti, 8); err != nil {
			return sub, err
		}
		if n != count {
			return sub, errors.New("TEXCOORD_0 count mismatch")
		}
	}

	sub.Vertices = make([]codec.VertexPNU, count)
	for i := range sub.Vertices {
		v := &sub.Vertices[i]
		o := i * pstride
		v.Pos = [3]float32{f32at(pos, o), f32at(pos, o+4), f32at(pos, o+8)}
		if norm != nil {
			o = i * nstride
			v.Normal = [3]float32{f32at(norm, o), f32at(norm, o+4), f32at(norm, o+8)}
		}
		if uv != nil {
			o = i * tstride
			v.UV = [2]float32{f32at(uv, o), f32at(uv, o+4)}
			if setting.Flags&asset.MFlipUVs != 0 {
				v.UV[1] = 1 - v.UV[1]
			}
		}
	}

	if p.Indices != nil {
		a := &doc.Accessors[*p.Indices]
		var esz int
		switch a.ComponentType {
		case gltf.UNSIGNED_SHORT:
			esz = 2
		case gltf.UNSIGNED_INT:
			esz = 4
		default:
			return sub, fmt.Errorf("index component type %d", a.ComponentType)
		}
		data, stride, n, err := accessorData(doc, bufs, *p.Indices, esz)
		if err != nil {
			return sub, err
		}
		sub.Indices = make([]uint32, n)
		for i := range sub.Indices {
			o := i * stride
			if esz == 2 {
				sub.Indices[i] = uint32(binary.LittleEndian.Uint16(data[o:]))
			} else {
				sub.Indices[i] = binary.LittleEndian.Uint32(data[o:])
			}
			if int(sub.Indices[i]) >= count {
				return sub, errors.New("index out of range")
			}
		}
	} else {
		sub.Indices = make([]uint32, count)
		for i := range sub.Indices {
			sub.Indices[i] = uint32(i)
		}
	}

	if norm == nil && setting.Flags&asset.MGenNormals != 0 {
		genNormals(sub.Vertices, sub.Indices)
	}
	return sub, nil
}
