// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package mesh provides the GPU-resident mesh representation and its
// materialization from mesh intermediates.
package mesh

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/internal/stage"
)

const prefix = "mesh: "

// SubMesh is one draw range of a mesh: a vertex buffer of VertexPNU
// data (stride 32) and a 32-bit index buffer.
type SubMesh struct {
	VertexBuf   driver.Buffer
	IndexBuf    driver.Buffer
	VertexCount int
	IndexCount  int
}

// Mesh owns the driver buffers of its sub-meshes.
type Mesh struct {
	subs []SubMesh
	name string
}

// FromIntermediate materializes a mesh from its intermediate body,
// creating one vertex and one index buffer per sub-mesh and
// uploading through the staging path with one-shot command buffers
// from pool.
// The mesh's stable name is set to name (the asset path).
func FromIntermediate(body *codec.MeshBody, name string, pool driver.CmdPool) (*Mesh, error) {
	if len(body.Subs) == 0 {
		return nil, errors.New(prefix + name + ": no sub-meshes")
	}
	m := &Mesh{name: name}
	for i := range body.Subs {
		sub, err := newSubMesh(&body.Subs[i], pool)
		if err != nil {
			m.Free()
			return nil, err
		}
		m.subs = append(m.subs, sub)
	}
	return m, nil
}

func newSubMesh(s *codec.SubMesh, pool driver.CmdPool) (sub SubMesh, err error) {
	if len(s.Vertices) == 0 || len(s.Indices) == 0 {
		return sub, errors.New(prefix + "empty sub-mesh")
	}
	gpu := ctxt.GPU()

	vdata := vertexBytes(s.Vertices)
	vbuf, err := gpu.NewBuffer(int64(len(vdata)), false, driver.UVertexData)
	if err != nil {
		return
	}
	if err = stage.ToBuffer(pool, vbuf, 0, vdata); err != nil {
		vbuf.Destroy()
		return
	}

	idata := make([]byte, 4*len(s.Indices))
	for i, x := range s.Indices {
		binary.LittleEndian.PutUint32(idata[4*i:], x)
	}
	ibuf, err := gpu.NewBuffer(int64(len(idata)), false, driver.UIndexData)
	if err != nil {
		vbuf.Destroy()
		return
	}
	if err = stage.ToBuffer(pool, ibuf, 0, idata); err != nil {
		vbuf.Destroy()
		ibuf.Destroy()
		return
	}
	return SubMesh{
		VertexBuf:   vbuf,
		IndexBuf:    ibuf,
		VertexCount: len(s.Vertices),
		IndexCount:  len(s.Indices),
	}, nil
}

// vertexBytes packs vertices into the interleaved GPU layout.
func vertexBytes(vs []codec.VertexPNU) []byte {
	data := make([]byte, 0, codec.VertexStride*len(vs))
	put := func(f float32) {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
	}
	for i := range vs {
		v := &vs[i]
		put(v.Pos[0])
		put(v.Pos[1])
		put(v.Pos[2])
		put(v.Normal[0])
		put(v.Normal[1])
		put(v.Normal[2])
		put(v.UV[0])
		put(v.UV[1])
	}
	return data
}

// SubMeshes returns the sub-mesh array by value.
// The mesh retains ownership of the driver handles.
func (m *Mesh) SubMeshes() []SubMesh {
	return append([]SubMesh(nil), m.subs...)
}

// Name returns the mesh's stable name (its asset path).
func (m *Mesh) Name() string { return m.name }

// SetName sets the mesh's stable name.
func (m *Mesh) SetName(name string) { m.name = name }

// Free invalidates m and destroys the driver buffers.
func (m *Mesh) Free() {
	for i := range m.subs {
		if m.subs[i].VertexBuf != nil {
			m.subs[i].VertexBuf.Destroy()
		}
		if m.subs[i].IndexBuf != nil {
			m.subs[i].IndexBuf.Destroy()
		}
	}
	*m = Mesh{}
}
