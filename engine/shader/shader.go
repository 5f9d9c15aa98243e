// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package shader provides the shader asset object and the source
// translators that produce SPIR-V plus a reflected parameter sheet.
package shader

import (
	"errors"

	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine/internal/ctxt"
)

const prefix = "shader: "

// Shader carries a shader's SPIR-V word streams and its reflected
// parameter sheet. No GPU objects are created at load time; module
// creation is performed lazily by the material factory through
// Compile.
type Shader struct {
	name  string
	sheet codec.ParameterSheet
	vs    []uint32
	fs    []uint32
	hash  uint64
}

// New creates a shader from its intermediate body.
// The shader's structural hash covers the sheet and both word
// streams, so byte-identical shaders hash equal.
func New(name string, body *codec.ShaderBody) (*Shader, error) {
	if len(body.VS) == 0 || len(body.FS) == 0 {
		return nil, errors.New(prefix + name + ": empty code stream")
	}
	_, hash := codec.Marshal(body)
	return &Shader{
		name:  name,
		sheet: body.Sheet,
		vs:    body.VS,
		fs:    body.FS,
		hash:  hash,
	}, nil
}

// Name returns the shader's stable name (its asset path).
func (s *Shader) Name() string { return s.name }

// SetName sets the shader's stable name.
func (s *Shader) SetName(name string) { s.name = name }

// Sheet returns the reflected parameter sheet.
func (s *Shader) Sheet() *codec.ParameterSheet { return &s.sheet }

// VS returns the vertex stage SPIR-V words.
func (s *Shader) VS() []uint32 { return s.vs }

// FS returns the fragment stage SPIR-V words.
func (s *Shader) FS() []uint32 { return s.fs }

// Hash returns the structural hash of the shader.
func (s *Shader) Hash() uint64 { return s.hash }

// Compile creates the two driver shader modules of s.
// The caller owns the returned modules.
func (s *Shader) Compile() (vs, fs driver.ShaderCode, err error) {
	if vs, err = ctxt.GPU().NewShaderCode(s.vs, driver.SVertex); err != nil {
		return
	}
	if fs, err = ctxt.GPU().NewShaderCode(s.fs, driver.SFragment); err != nil {
		vs.Destroy()
		vs = nil
	}
	return
}
