// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package material implements the pipeline resource pool and the
// shared-material factory.
//
// Descriptor set layouts and pipeline layouts are interned: both
// sub-caches are keyed by a structural hash and reference-counted,
// so identical layouts across shaders share one driver object.
package material

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine"
	"github.com/embergfx/ember/engine/internal/ctxt"
)

const prefix = "material: "

// CommonKind identifies one of the engine's common descriptor set
// layouts.
type CommonKind int

// Common descriptor set kinds, in set number order.
const (
	// Camera: binding 0, uniform buffer, stages VS|FS.
	Camera CommonKind = iota
	// Model: binding 0, storage buffer, stage VS.
	Model
	// StaticResource: binding 0, sampled-image array of
	// engine.MaxTextures; binding 1, sampler array of
	// engine.MaxSamplers; stages VS|FS.
	StaticResource

	commonCount
)

type layoutEntry struct {
	layout driver.DescLayout
	refs   int
}

type plEntry struct {
	layout driver.PipelineLayout
	refs   int
}

// Process-wide pipeline resource pool.
var pool struct {
	descLayouts map[uint64]*layoutEntry
	pipeLayouts map[uint64]*plEntry

	common [commonCount]struct {
		layout driver.DescLayout
		hash   uint64
		set    driver.DescSet
	}

	staticPool  driver.DescPool
	dynamicPool driver.DescPool

	materials map[uint64]*SharedMaterial
}

// StartUp creates the global descriptor pools.
// It must be called after the GPU device exists and before any pool
// or factory use.
func StartUp() error {
	gpu := ctxt.GPU()
	if gpu == nil {
		return errors.New(prefix + "no GPU device")
	}
	sp, err := gpu.NewDescPool(
		[]driver.DescPoolSize{
			{Type: driver.DTexture, Len: engine.MaxTextures},
			{Type: driver.DSampler, Len: engine.MaxSamplers},
		},
		1,
		driver.DPUpdateAfterBind|driver.DPFreeDescSet,
	)
	if err != nil {
		return fmt.Errorf("%sstatic descriptor pool: %w", prefix, err)
	}
	dp, err := gpu.NewDescPool(
		[]driver.DescPoolSize{
			{Type: driver.DConstant, Len: 16},
			{Type: driver.DBuffer, Len: 16},
		},
		1+engine.MaxFrame,
		driver.DPUpdateAfterBind|driver.DPFreeDescSet,
	)
	if err != nil {
		sp.Destroy()
		return fmt.Errorf("%sdynamic descriptor pool: %w", prefix, err)
	}
	pool.staticPool = sp
	pool.dynamicPool = dp
	pool.descLayouts = make(map[uint64]*layoutEntry)
	pool.pipeLayouts = make(map[uint64]*plEntry)
	pool.materials = make(map[uint64]*SharedMaterial)
	return nil
}

// ShutDown destroys every cached object and the descriptor pools.
func ShutDown() {
	for _, m := range pool.materials {
		if m.pipeline != nil {
			m.pipeline.Destroy()
		}
	}
	for _, e := range pool.pipeLayouts {
		e.layout.Destroy()
	}
	for _, e := range pool.descLayouts {
		e.layout.Destroy()
	}
	if pool.staticPool != nil {
		pool.staticPool.Destroy()
	}
	if pool.dynamicPool != nil {
		pool.dynamicPool.Destroy()
	}
	pool.descLayouts = nil
	pool.pipeLayouts = nil
	pool.materials = nil
	pool.staticPool = nil
	pool.dynamicPool = nil
	pool.common = [commonCount]struct {
		layout driver.DescLayout
		hash   uint64
		set    driver.DescSet
	}{}
}

func hashBindings(bindings []driver.DescBinding) uint64 {
	d := xxhash.New()
	var b [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		d.Write(b[:])
	}
	for i := range bindings {
		put(bindings[i].Nr)
		put(int(bindings[i].Type))
		put(bindings[i].Len)
		put(int(bindings[i].Stages))
	}
	return d.Sum64()
}

func hashPipelineLayout(setHashes []uint64, ranges []driver.PushRange) uint64 {
	d := xxhash.New()
	var b [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(b[:], v)
		d.Write(b[:])
	}
	for _, h := range setHashes {
		put(h)
	}
	put(0)
	for i := range ranges {
		put(uint64(ranges[i].Off))
		put(uint64(ranges[i].Size))
		put(uint64(ranges[i].Stages))
	}
	return d.Sum64()
}

// RequestDescLayout interns a descriptor set layout, creating it on
// first request and incrementing its reference count otherwise.
func RequestDescLayout(bindings []driver.DescBinding) (driver.DescLayout, uint64, error) {
	hash := hashBindings(bindings)
	if e, ok := pool.descLayouts[hash]; ok {
		e.refs++
		return e.layout, hash, nil
	}
	l, err := ctxt.GPU().NewDescLayout(bindings)
	if err != nil {
		return nil, 0, fmt.Errorf("%sdescriptor set layout: %w", prefix, err)
	}
	pool.descLayouts[hash] = &layoutEntry{layout: l, refs: 1}
	return l, hash, nil
}

// ReleaseDescLayout decrements the reference count of the layout
// identified by hash, destroying it when the count reaches zero.
func ReleaseDescLayout(hash uint64) {
	e, ok := pool.descLayouts[hash]
	if !ok {
		return
	}
	if e.refs--; e.refs < 1 {
		e.layout.Destroy()
		delete(pool.descLayouts, hash)
	}
}

// RequestPipelineLayout interns a pipeline layout built from the
// given interned set layouts and push constant ranges.
func RequestPipelineLayout(setHashes []uint64, sets []driver.DescLayout, ranges []driver.PushRange) (driver.PipelineLayout, uint64, error) {
	hash := hashPipelineLayout(setHashes, ranges)
	if e, ok := pool.pipeLayouts[hash]; ok {
		e.refs++
		return e.layout, hash, nil
	}
	l, err := ctxt.GPU().NewPipelineLayout(sets, ranges)
	if err != nil {
		return nil, 0, fmt.Errorf("%spipeline layout: %w", prefix, err)
	}
	pool.pipeLayouts[hash] = &plEntry{layout: l, refs: 1}
	return l, hash, nil
}

// ReleasePipelineLayout decrements the reference count of the layout
// identified by hash, destroying it when the count reaches zero.
func ReleasePipelineLayout(hash uint64) {
	e, ok := pool.pipeLayouts[hash]
	if !ok {
		return
	}
	if e.refs--; e.refs < 1 {
		e.layout.Destroy()
		delete(pool.pipeLayouts, hash)
	}
}

// PipelineLayoutRefs returns the reference count of the pipeline
// layout identified by hash.
func PipelineLayoutRefs(hash uint64) int {
	if e, ok := pool.pipeLayouts[hash]; ok {
		return e.refs
	}
	return 0
}

func commonBindings(kind CommonKind) []driver.DescBinding {
	switch kind {
	case Camera:
		return []driver.DescBinding{
			{Nr: 0, Type: driver.DConstant, Len: 1, Stages: driver.SVertex | driver.SFragment},
		}
	case Model:
		return []driver.DescBinding{
			{Nr: 0, Type: driver.DBuffer, Len: 1, Stages: driver.SVertex},
		}
	case StaticResource:
		return []driver.DescBinding{
			{Nr: 0, Type: driver.DTexture, Len: engine.MaxTextures, Stages: driver.SVertex | driver.SFragment},
			{Nr: 1, Type: driver.DSampler, Len: engine.MaxSamplers, Stages: driver.SVertex | driver.SFragment},
		}
	}
	panic("undefined common descriptor set kind")
}

// RequestCommonLayout returns the interned layout of the given
// common kind, creating it on first request. The first request per
// kind holds one permanent reference.
func RequestCommonLayout(kind CommonKind) (driver.DescLayout, uint64, error) {
	c := &pool.common[kind]
	if c.layout != nil {
		l, h, err := RequestDescLayout(commonBindings(kind))
		if err == nil && (l != c.layout || h != c.hash) {
			panic("common descriptor set layout not interned")
		}
		return l, h, err
	}
	l, h, err := RequestDescLayout(commonBindings(kind))
	if err != nil {
		return nil, 0, err
	}
	c.layout, c.hash = l, h
	return l, h, nil
}

// RequestCommonSet returns the descriptor set of the given common
// kind, allocating it on first request. Camera and StaticResource
// have exactly one set each; Model sets are per frame and come from
// AllocModelSet instead.
func RequestCommonSet(kind CommonKind) (driver.DescSet, error) {
	if kind == Model {
		return nil, errors.New(prefix + "model sets are per frame; use AllocModelSet")
	}
	c := &pool.common[kind]
	if c.set != nil {
		return c.set, nil
	}
	l, _, err := RequestCommonLayout(kind)
	if err != nil {
		return nil, err
	}
	// The common layout reference taken above is permanent.
	p := pool.dynamicPool
	if kind == StaticResource {
		p = pool.staticPool
	}
	set, err := p.Alloc(l)
	if err != nil {
		return nil, fmt.Errorf("%scommon descriptor set: %w", prefix, err)
	}
	c.set = set
	return set, nil
}

// AllocModelSet allocates one per-frame descriptor set with the
// Model layout from the dynamic descriptor pool.
func AllocModelSet() (driver.DescSet, error) {
	l, _, err := RequestCommonLayout(Model)
	if err != nil {
		return nil, err
	}
	set, err := pool.dynamicPool.Alloc(l)
	if err != nil {
		return nil, fmt.Errorf("%smodel descriptor set: %w", prefix, err)
	}
	return set, nil
}
