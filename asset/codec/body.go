// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Intermediate body variants.

package codec

// VertexPNU is the interleaved vertex layout stored in mesh
// intermediates: position, normal, UV. Stride is 32 bytes with
// attributes at offsets 0, 12 and 24.
type VertexPNU struct {
	Pos    [3]float32
	Normal [3]float32
	UV     [2]float32
}

// VertexStride is the byte stride of VertexPNU.
const VertexStride = 32

// TextureBody is the intermediate form of a texture: dimensions, the
// numeric GPU format, and tightly packed pixel bytes in GPU-ready
// layout.
type TextureBody struct {
	Width  uint32
	Height uint32
	Format uint32
	Data   []byte
}

func (t *TextureBody) encode(w *writer) {
	w.u32(t.Width)
	w.u32(t.Height)
	w.u32(t.Format)
	w.u32(uint32(len(t.Data)))
	w.bytes(t.Data)
}

func (t *TextureBody) decode(r *reader) (err error) {
	if t.Width, err = r.u32(); err != nil {
		return
	}
	if t.Height, err = r.u32(); err != nil {
		return
	}
	if t.Format, err = r.u32(); err != nil {
		return
	}
	n, err := r.count(1)
	if err != nil {
		return
	}
	t.Data, err = r.bytes(n)
	return
}

// SubMesh is one draw range of a mesh intermediate.
type SubMesh struct {
	Vertices []VertexPNU
	Indices  []uint32
}

// MeshBody is the intermediate form of a mesh.
type MeshBody struct {
	Subs []SubMesh
}

func (m *MeshBody) encode(w *writer) {
	w.u32(uint32(len(m.Subs)))
	for i := range m.Subs {
		s := &m.Subs[i]
		w.u32(uint32(len(s.Vertices)))
		for j := range s.Vertices {
			v := &s.Vertices[j]
			w.f32(v.Pos[0])
			w.f32(v.Pos[1])
			w.f32(v.Pos[2])
			w.f32(v.Normal[0])
			w.f32(v.Normal[1])
			w.f32(v.Normal[2])
			w.f32(v.UV[0])
			w.f32(v.UV[1])
		}
		w.u32(uint32(len(s.Indices)))
		for _, x := range s.Indices {
			w.u32(x)
		}
	}
}

func (m *MeshBody) decode(r *reader) error {
	nsub, err := r.count(8)
	if err != nil {
		return err
	}
	m.Subs = make([]SubMesh, nsub)
	for i := range m.Subs {
		s := &m.Subs[i]
		nv, err := r.count(VertexStride)
		if err != nil {
			return err
		}
		s.Vertices = make([]VertexPNU, nv)
		for j := range s.Vertices {
			v := &s.Vertices[j]
			for k := 0; k < 3; k++ {
				if v.Pos[k], err = r.f32(); err != nil {
					return err
				}
			}
			for k := 0; k < 3; k++ {
				if v.Normal[k], err = r.f32(); err != nil {
					return err
				}
			}
			for k := 0; k < 2; k++ {
				if v.UV[k], err = r.f32(); err != nil {
					return err
				}
			}
		}
		ni, err := r.count(4)
		if err != nil {
			return err
		}
		s.Indices = make([]uint32, ni)
		for j := range s.Indices {
			if s.Indices[j], err = r.u32(); err != nil {
				return err
			}
		}
	}
	return nil
}

// PushConstant is one reflected push-constant item of a shader.
type PushConstant struct {
	Name   string
	Offset uint32
	Size   uint32
}

// ParameterSheet is the reflected declarative summary of a shader's
// resource and push-constant needs. The Needs* booleans are set when
// the reflector sees the corresponding sentinel globals (GCamera,
// GModel, GTexturePool/GSamplerPool).
type ParameterSheet struct {
	NeedsCamera       bool
	NeedsModel        bool
	NeedsResourcePool bool
	PushConstants     []PushConstant
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ShaderBody is the intermediate form of a shader: the parameter
// sheet plus the vertex and fragment SPIR-V word streams.
type ShaderBody struct {
	Sheet ParameterSheet
	VS    []uint32
	FS    []uint32
}

func (s *ShaderBody) encode(w *writer) {
	w.buf = append(w.buf,
		boolByte(s.Sheet.NeedsCamera),
		boolByte(s.Sheet.NeedsModel),
		boolByte(s.Sheet.NeedsResourcePool))
	w.u32(uint32(len(s.Sheet.PushConstants)))
	for i := range s.Sheet.PushConstants {
		pc := &s.Sheet.PushConstants[i]
		w.u32(uint32(len(pc.Name)))
		w.bytes([]byte(pc.Name))
		w.u32(pc.Offset)
		w.u32(pc.Size)
	}
	w.u32(uint32(len(s.VS)))
	for _, x := range s.VS {
		w.u32(x)
	}
	w.u32(uint32(len(s.FS)))
	for _, x := range s.FS {
		w.u32(x)
	}
}

func (s *ShaderBody) decode(r *reader) error {
	b, err := r.bytes(3)
	if err != nil {
		return err
	}
	s.Sheet.NeedsCamera = b[0] != 0
	s.Sheet.NeedsModel = b[1] != 0
	s.Sheet.NeedsResourcePool = b[2] != 0
	npc, err := r.count(12)
	if err != nil {
		return err
	}
	s.Sheet.PushConstants = make([]PushConstant, npc)
	for i := range s.Sheet.PushConstants {
		pc := &s.Sheet.PushConstants[i]
		n, err := r.count(1)
		if err != nil {
			return err
		}
		name, err := r.bytes(n)
		if err != nil {
			return err
		}
		pc.Name = string(name)
		if pc.Offset, err = r.u32(); err != nil {
			return err
		}
		if pc.Size, err = r.u32(); err != nil {
			return err
		}
	}
	nvs, err := r.count(4)
	if err != nil {
		return err
	}
	s.VS = make([]uint32, nvs)
	for i := range s.VS {
		if s.VS[i], err = r.u32(); err != nil {
			return err
		}
	}
	nfs, err := r.count(4)
	if err != nil {
		return err
	}
	s.FS = make([]uint32, nfs)
	for i := range s.FS {
		if s.FS[i], err = r.u32(); err != nil {
			return err
		}
	}
	return nil
}
