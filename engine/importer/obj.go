// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Wavefront OBJ mesh source.

package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
)

// objSource reads Wavefront OBJ files.
// It supports the triangle-mesh subset of the specification:
// v/vt/vn data and f faces, with one sub-mesh per o/g group.
// Faces with more than three corners are fan-triangulated when
// MTriangulate is set and rejected otherwise.
type objSource struct{}

type objData struct {
	v  [][3]float32
	vn [][3]float32
	vt [][2]float32
}

func (objSource) Read(r io.Reader, setting *asset.MeshSetting) ([]codec.SubMesh, error) {
	var data objData
	var subs []codec.SubMesh
	cur := newObjBuilder(setting)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, "v "):
			var p [3]float32
			if _, err := fmt.Sscanf(line, "v %f %f %f", &p[0], &p[1], &p[2]); err != nil {
				return nil, fmt.Errorf("bad vertex %q", line)
			}
			data.v = append(data.v, p)
		case strings.HasPrefix(line, "vn "):
			var n [3]float32
			if _, err := fmt.Sscanf(line, "vn %f %f %f", &n[0], &n[1], &n[2]); err != nil {
				return nil, fmt.Errorf("bad normal %q", line)
			}
			data.vn = append(data.vn, n)
		case strings.HasPrefix(line, "vt "):
			var t [2]float32
			if _, err := fmt.Sscanf(line, "vt %f %f", &t[0], &t[1]); err != nil {
				return nil, fmt.Errorf("bad texture coordinate %q", line)
			}
			data.vt = append(data.vt, t)
		case strings.HasPrefix(line, "f "):
			if err := cur.face(&data, strings.Fields(line)[1:]); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "o ") || strings.HasPrefix(line, "g "):
			if sub, ok := cur.finish(); ok {
				subs = append(subs, sub)
			}
			cur = newObjBuilder(setting)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if sub, ok := cur.finish(); ok {
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return nil, errors.New("no faces")
	}
	return subs, nil
}

// objBuilder accumulates one sub-mesh.
type objBuilder struct {
	setting *asset.MeshSetting
	verts   []codec.VertexPNU
	indices []uint32
	joined  map[codec.VertexPNU]uint32
	hasN    bool
}

func newObjBuilder(setting *asset.MeshSetting) *objBuilder {
	b := &objBuilder{setting: setting}
	if setting.Flags&asset.MJoinIdenticalVertices != 0 {
		b.joined = make(map[codec.VertexPNU]uint32)
	}
	return b
}

func (b *objBuilder) face(data *objData, corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("face with %d corners", len(corners))
	}
	if len(corners) > 3 && b.setting.Flags&asset.MTriangulate == 0 {
		return errors.New("non-triangular face without triangulation")
	}
	var idx []uint32
	for _, c := range corners {
		i, err := b.corner(data, c)
		if err != nil {
			return err
		}
		idx = append(idx, i)
	}
	// Fan triangulation; a triangle is its own fan.
	for i := 1; i+1 < len(idx); i++ {
		if b.setting.Flags&asset.MFlipWindingOrder != 0 {
			b.indices = append(b.indices, idx[0], idx[i+1], idx[i])
		} else {
			b.indices = append(b.indices, idx[0], idx[i], idx[i+1])
		}
	}
	return nil
}

// corner resolves one "v/vt/vn" reference into a vertex index,
// reusing identical vertices when joining is enabled.
func (b *objBuilder) corner(data *objData, s string) (uint32, error) {
	var v codec.VertexPNU
	parts := strings.Split(s, "/")
	vi, err := objIndex(parts[0], len(data.v))
	if err != nil {
		return 0, fmt.Errorf("bad face corner %q", s)
	}
	v.Pos = data.v[vi]
	if len(parts) > 1 && parts[1] != "" {
		ti, err := objIndex(parts[1], len(data.vt))
		if err != nil {
			return 0, fmt.Errorf("bad face corner %q", s)
		}
		v.UV = data.vt[ti]
		if b.setting.Flags&asset.MFlipUVs != 0 {
			v.UV[1] = 1 - v.UV[1]
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := objIndex(parts[2], len(data.vn))
		if err != nil {
			return 0, fmt.Errorf("bad face corner %q", s)
		}
		v.Normal = data.vn[ni]
		b.hasN = true
	}
	if b.joined != nil {
		if i, ok := b.joined[v]; ok {
			return i, nil
		}
	}
	i := uint32(len(b.verts))
	b.verts = append(b.verts, v)
	if b.joined != nil {
		b.joined[v] = i
	}
	return i, nil
}

func objIndex(s string, n int) (int, error) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		// Negative references count back from the end.
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range", i)
}

func (b *objBuilder) finish() (codec.SubMesh, bool) {
	if len(b.indices) == 0 {
		return codec.SubMesh{}, false
	}
	if !b.hasN && b.setting.Flags&asset.MGenNormals != 0 {
		genNormals(b.verts, b.indices)
	}
	return codec.SubMesh{Vertices: b.verts, Indices: b.indices}, true
}

// genNormals accumulates area-weighted face normals per vertex and
// normalizes the result.
func genNormals(verts []codec.VertexPNU, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a := &verts[indices[i]]
		b := &verts[indices[i+1]]
		c := &verts[indices[i+2]]
		var e0, e1, n [3]float32
		for k := 0; k < 3; k++ {
			e0[k] = b.Pos[k] - a.Pos[k]
			e1[k] = c.Pos[k] - a.Pos[k]
		}
		n[0] = e0[1]*e1[2] - e0[2]*e1[1]
		n[1] = e0[2]*e1[0] - e0[0]*e1[2]
		n[2] = e0[0]*e1[1] - e0[1]*e1[0]
		for k := 0; k < 3; k++ {
			a.Normal[k] += n[k]
			b.Normal[k] += n[k]
			c.Normal[k] += n[k]
		}
	}
	for i := range verts {
		n := &verts[i].Normal
		l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
		if l > 0 {
			n[0] /= l
			n[1] /= l
			n[2] /= l
		}
	}
}
