// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package driver

// DescType is the type of a descriptor.
type DescType int

// Descriptor types.
const (
	// Constant (uniform) buffer.
	DConstant DescType = iota
	// Read/write (storage) buffer.
	DBuffer
	// Sampled texture.
	DTexture
	// Texture sampler.
	DSampler
)

// DescBinding describes one binding of a descriptor set layout.
// Len is the number of descriptors in the binding; bindless bindings
// use Len > 1 with partially-bound semantics.
type DescBinding struct {
	Nr     int
	Type   DescType
	Len    int
	Stages Stage
}

// DescLayout is the interface that defines a descriptor set layout.
type DescLayout interface {
	Destroyer
}

// DescPoolSize describes the descriptor capacity of one type within
// a descriptor pool.
type DescPoolSize struct {
	Type DescType
	Len  int
}

// DescPoolFlag is a mask of descriptor pool creation flags.
type DescPoolFlag int

// Descriptor pool flags.
const (
	// Sets allocated from the pool may be updated after binding.
	DPUpdateAfterBind DescPoolFlag = 1 << iota
	// Individual sets may be freed back to the pool.
	DPFreeDescSet
)

// DescPool is the interface that defines a descriptor pool.
type DescPool interface {
	Destroyer

	// Alloc allocates a descriptor set with the given layout.
	Alloc(layout DescLayout) (DescSet, error)

	// Free returns a set to the pool.
	// The pool must have been created with DPFreeDescSet.
	Free(set DescSet) error
}

// DescWrite describes one update to a descriptor set.
// Exactly one of the resource fields is meaningful, selected by Type.
type DescWrite struct {
	Nr   int
	Elem int
	Type DescType

	// DTexture.
	IView  ImageView
	Layout Layout

	// DSampler.
	Sampler Sampler

	// DConstant/DBuffer.
	Buf  Buffer
	Off  int64
	Size int64
}

// DescSet is the interface that defines a descriptor set.
type DescSet interface {
	// Update applies the given writes to the set.
	Update(writes []DescWrite)
}

// PushRange describes a push constant range of a pipeline layout.
type PushRange struct {
	Off    int
	Size   int
	Stages Stage
}

// PipelineLayout is the interface that defines the resource layout
// of a pipeline.
type PipelineLayout interface {
	Destroyer
}
