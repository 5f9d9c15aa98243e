// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package driver

// GPU is the main interface to an underlying driver implementation.
// It is used to create other types and to execute commands.
// A GPU is obtained from a call to Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// Commit commits a work item to the GPU for execution.
	// It sends the item to ch when all commands complete execution,
	// with wk.Err describing the outcome. Command buffers in wk.Work
	// cannot be used for recording until then.
	Commit(wk *WorkItem, ch chan<- *WorkItem) error

	// NewCmdPool creates a new command pool.
	NewCmdPool() (CmdPool, error)

	// NewBuffer creates a new buffer.
	// Visible buffers can be mapped for CPU access through Bytes.
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewImage creates a new image.
	NewImage(pf PixelFmt, size Dim3D, layers, levels int, usg Usage) (Image, error)

	// NewSampler creates a new sampler.
	NewSampler(spln *Sampling) (Sampler, error)

	// NewShaderCode creates a new shader module from SPIR-V words.
	NewShaderCode(code []uint32, stage Stage) (ShaderCode, error)

	// NewDescLayout creates a new descriptor set layout.
	NewDescLayout(bindings []DescBinding) (DescLayout, error)

	// NewDescPool creates a new descriptor pool from which maxSets
	// sets can be allocated.
	NewDescPool(sizes []DescPoolSize, maxSets int, flags DescPoolFlag) (DescPool, error)

	// NewPipelineLayout creates a new pipeline layout.
	NewPipelineLayout(sets []DescLayout, ranges []PushRange) (PipelineLayout, error)

	// NewPipeline creates a new graphics pipeline.
	NewPipeline(state *GraphState) (Pipeline, error)

	// Limits returns the implementation limits.
	// They are immutable for the lifetime of the GPU.
	Limits() Limits
}

// WorkItem wraps a batch of command buffers for execution.
// Err is set by the driver when the item is sent back to the caller.
// Custom is for the caller's own use.
type WorkItem struct {
	Work   []CmdBuffer
	Err    error
	Custom any
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may hold memory that is not
// managed by GC, so Destroy must be called explicitly.
type Destroyer interface {
	Destroy()
}

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Image.
const (
	// The resource can be read in shaders.
	UShaderRead Usage = 1 << iota
	// The resource can be written in shaders.
	UShaderWrite
	// The resource can provide constant data for shaders.
	// Valid only for Buffer.
	UShaderConst
	// The resource can be sampled in shaders.
	// Valid only for Image.
	UShaderSample
	// The resource can provide vertex data for draw calls.
	// Valid only for Buffer.
	UVertexData
	// The resource can provide index data for draw calls.
	// Valid only for Buffer.
	UIndexData
	// The resource can be used as render target.
	// Valid only for Image.
	URenderTarget
	// The resource can be used for any purpose.
	UGeneric Usage = 1<<iota - 1
)

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed.
type Buffer interface {
	Destroyer

	// Visible returns whether the buffer is host visible.
	Visible() bool

	// Bytes returns a slice of length Cap referring to the
	// underlying data. If the buffer is not host visible, it
	// returns nil instead.
	// The slice is valid for the lifetime of the buffer.
	Bytes() []byte

	// Cap returns the capacity of the buffer in bytes, which may be
	// greater than the size requested during creation.
	Cap() int64
}

// PixelFmt describes the format of a pixel.
type PixelFmt int

// Pixel formats.
const (
	FmtInvalid PixelFmt = iota
	// Color, 8-bit channels.
	RGBA8un
	RGBA8sRGB
	BGRA8un
	BGRA8sRGB
	RG8un
	R8un
	// Color, 16-bit channels.
	RGBA16f
	RG16f
	R16f
	// Color, 32-bit channels.
	RGBA32f
	RG32f
	R32f
	// Depth/Stencil.
	D16un
	D32f
	D24unS8ui
)

// Size returns the number of bytes per pixel of f.
// It returns 0 for FmtInvalid.
func (f PixelFmt) Size() int {
	switch f {
	case RGBA8un, RGBA8sRGB, BGRA8un, BGRA8sRGB, RG16f, R32f, D32f, D24unS8ui:
		return 4
	case RG8un, R16f, D16un:
		return 2
	case R8un:
		return 1
	case RGBA16f, RG32f:
		return 8
	case RGBA32f:
		return 16
	}
	return 0
}

// IsColor returns whether f is a color format.
func (f PixelFmt) IsColor() bool {
	switch f {
	case D16un, D32f, D24unS8ui, FmtInvalid:
		return false
	}
	return true
}

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// Image is the interface that defines a GPU image.
// Direct access to image memory is not provided; copying data from
// the CPU to an image requires the use of a staging buffer.
type Image interface {
	Destroyer

	// NewView creates a new image view spanning the given layers
	// and levels.
	NewView(typ ViewType, layer, layers, level, levels int) (ImageView, error)
}

// ViewType is the type of an image view.
type ViewType int

// View types.
const (
	IView2D ViewType = iota
	IView2DArray
	IViewCube
	IView3D
)

// ImageView is the interface that defines a typed view of an Image.
type ImageView interface {
	Destroyer

	// Image returns the image from which the view was created.
	Image() Image
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
)

// AddrMode is the type of sampler address modes.
type AddrMode int

// Address modes.
const (
	AWrap AddrMode = iota
	AMirror
	AClamp
)

// Sampling describes image sampler state.
type Sampling struct {
	Min      Filter
	Mag      Filter
	Mipmap   Filter
	AddrU    AddrMode
	AddrV    AddrMode
	AddrW    AddrMode
	MaxAniso int
	MinLOD   float32
	MaxLOD   float32
}

// Sampler is the interface that defines an image sampler.
type Sampler interface {
	Destroyer
}

// Stage is a mask of programmable stages.
type Stage int

// Stages.
const (
	SVertex Stage = 1 << iota
	SFragment
)

// ShaderCode is the interface that defines a shader module for
// execution in a programmable pipeline stage.
type ShaderCode interface {
	Destroyer
}

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum width and height of 2D images.
	MaxImage2D int
	// Maximum number of layers in an image.
	MaxLayers int
	// Maximum number of texture descriptors in a single binding.
	MaxDTexture int
	// Maximum number of sampler descriptors in a single binding.
	MaxDSampler int
	// Maximum push constant range in bytes.
	MaxPushConst int
}
