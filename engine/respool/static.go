// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package respool implements the process-wide bindless resource
// pools: the static texture/sampler tables and the dynamic per-frame
// model matrix pool. Shaders address both by integer index carried
// in push constants.
//
// Pool mutation happens on the main thread between frames. The pool
// does not serialize against in-flight GPU reads; the frame
// dispatcher must not destroy a resource whose index a pending frame
// still observes.
package respool

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/embergfx/ember"
	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/material"
	"github.com/embergfx/ember/engine/texture"
	"github.com/embergfx/ember/internal/event"
)

const prefix = "respool: "

var static struct {
	textures [engine.MaxTextures]*texture.Texture
	texIndex map[*texture.Texture]int16
	texSub   map[*texture.Texture]event.Handle

	samplers [engine.MaxSamplers]driver.Sampler
	smpIndex map[uint64]int16
}

// StartUp initializes both pools. frames is the number of frames in
// flight for the dynamic pool.
// material.StartUp must have been called.
func StartUp(frames int) error {
	static.texIndex = make(map[*texture.Texture]int16)
	static.texSub = make(map[*texture.Texture]event.Handle)
	static.smpIndex = make(map[uint64]int16)
	if err := startUpDynamic(frames); err != nil {
		return err
	}
	return nil
}

// ShutDown releases both pools.
// Registered textures are not destroyed; their indices simply become
// meaningless.
func ShutDown() {
	for t, h := range static.texSub {
		t.PreDestroy().RemoveBind(h)
	}
	for i := range static.samplers {
		if static.samplers[i] != nil {
			static.samplers[i].Destroy()
		}
	}
	static.textures = [engine.MaxTextures]*texture.Texture{}
	static.samplers = [engine.MaxSamplers]driver.Sampler{}
	static.texIndex = nil
	static.texSub = nil
	static.smpIndex = nil
	shutDownDynamic()
}

func findEmptyTextureIndex() int16 {
	for i := range static.textures {
		if static.textures[i] == nil {
			return int16(i)
		}
	}
	return -1
}

func findEmptySamplerIndex() int16 {
	for i := range static.samplers {
		if static.samplers[i] == nil {
			return int16(i)
		}
	}
	return -1
}

// AddTexture assigns t a slot in the texture table and patches the
// static descriptor set so that binding 0, element slot refers to
// t's view. Adding a nil, invalid or already registered texture does
// nothing.
// A registered texture keeps its index for its whole lifetime; the
// pool subscribes to t's pre-destroy event to release the slot.
func AddTexture(t *texture.Texture) error {
	if t == nil {
		return nil
	}
	if _, ok := static.texIndex[t]; ok {
		return nil
	}
	if t.View() == nil {
		return nil
	}
	index := findEmptyTextureIndex()
	if index < 0 {
		ember.Logger().Error("texture pool full", "name", t.Name(), "cap", engine.MaxTextures)
		return fmt.Errorf("%stexture %q: %w", prefix, t.Name(), asset.ErrPoolFull)
	}
	set, err := material.RequestCommonSet(material.StaticResource)
	if err != nil {
		return err
	}
	static.textures[index] = t
	static.texIndex[t] = index
	set.Update([]driver.DescWrite{
		{
			Nr:     0,
			Elem:   int(index),
			Type:   driver.DTexture,
			IView:  t.View(),
			Layout: driver.LShaderRead,
		},
	})
	static.texSub[t] = t.PreDestroy().AddBind(func(t *texture.Texture) {
		RemoveTexture(t)
	})
	return nil
}

// RemoveTexture releases t's slot.
// The vacated descriptor array element is left as-is: shaders guard
// on the valid-index convention (-1), so it is never read through a
// stale index. It is called automatically from t's pre-destroy
// event.
func RemoveTexture(t *texture.Texture) {
	index, ok := static.texIndex[t]
	if !ok {
		return
	}
	static.textures[index] = nil
	delete(static.texIndex, t)
	delete(static.texSub, t)
}

// TextureIndex returns the slot of t, or -1 if t is not registered.
func TextureIndex(t *texture.Texture) int16 {
	if index, ok := static.texIndex[t]; ok {
		return index
	}
	return -1
}

// GetOrAddTexture returns the slot of t, registering it first if
// necessary.
func GetOrAddTexture(t *texture.Texture) (int16, error) {
	if index := TextureIndex(t); index >= 0 {
		return index, nil
	}
	if err := AddTexture(t); err != nil {
		return -1, err
	}
	return TextureIndex(t), nil
}

// hashSampling computes the structural hash of a normalized sampler
// description, so identical descriptions collapse onto one slot.
func hashSampling(spln *driver.Sampling) uint64 {
	d := xxhash.New()
	var b [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(b[:], v)
		d.Write(b[:])
	}
	put(uint64(spln.Min))
	put(uint64(spln.Mag))
	put(uint64(spln.Mipmap))
	put(uint64(spln.AddrU))
	put(uint64(spln.AddrV))
	put(uint64(spln.AddrW))
	put(uint64(spln.MaxAniso))
	put(uint64(math.Float32bits(spln.MinLOD)))
	put(uint64(math.Float32bits(spln.MaxLOD)))
	return d.Sum64()
}

// AddSampler creates a sampler for desc and assigns it a slot,
// patching binding 1 of the static descriptor set. Descriptions that
// hash equal to an existing slot do nothing.
func AddSampler(desc *driver.Sampling) error {
	hash := hashSampling(desc)
	if _, ok := static.smpIndex[hash]; ok {
		return nil
	}
	index := findEmptySamplerIndex()
	if index < 0 {
		ember.Logger().Error("sampler pool full", "cap", engine.MaxSamplers)
		return fmt.Errorf("%ssampler: %w", prefix, asset.ErrPoolFull)
	}
	set, err := material.RequestCommonSet(material.StaticResource)
	if err != nil {
		return err
	}
	splr, err := ctxt.GPU().NewSampler(desc)
	if err != nil {
		return fmt.Errorf("%ssampler: %w", prefix, err)
	}
	static.samplers[index] = splr
	static.smpIndex[hash] = index
	set.Update([]driver.DescWrite{
		{
			Nr:      1,
			Elem:    int(index),
			Type:    driver.DSampler,
			Sampler: splr,
		},
	})
	return nil
}

// SamplerIndex returns the slot of the sampler matching desc, or -1.
func SamplerIndex(desc *driver.Sampling) int16 {
	if index, ok := static.smpIndex[hashSampling(desc)]; ok {
		return index
	}
	return -1
}

// GetOrAddSampler returns the slot of the sampler matching desc,
// creating and registering it first if necessary.
func GetOrAddSampler(desc *driver.Sampling) (int16, error) {
	if index := SamplerIndex(desc); index >= 0 {
		return index, nil
	}
	if err := AddSampler(desc); err != nil {
		return -1, err
	}
	return SamplerIndex(desc), nil
}
