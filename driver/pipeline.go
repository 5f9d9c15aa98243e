// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package driver

// VertexFmt describes the format of a vertex attribute.
type VertexFmt int

// Vertex formats.
const (
	Float32 VertexFmt = iota
	Float32x2
	Float32x3
	Float32x4
	UInt32
)

// Size returns the number of bytes of f.
func (f VertexFmt) Size() int {
	switch f {
	case Float32, UInt32:
		return 4
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4:
		return 16
	}
	return 0
}

// VertexAttr describes one attribute fetched from the vertex buffer.
// The meaning of Nr is shader-specific (the input location).
type VertexAttr struct {
	Format VertexFmt
	Offset int
	Nr     int
}

// VertexInput describes a single interleaved vertex buffer binding.
// Consecutive vertices are fetched Stride bytes apart.
type VertexInput struct {
	Stride int
	Attrs  []VertexAttr
}

// Topology is the type of primitive topologies.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TTriangle
	TTriStrip
)

// IndexFmt describes the format of index buffer data.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// CullMode determines primitive culling based on facing direction.
type CullMode int

// Cull modes.
const (
	CNone CullMode = iota
	CFront
	CBack
)

// CmpFunc is the type of comparison functions.
type CmpFunc int

// Comparison functions.
const (
	CNever CmpFunc = iota
	CLess
	CEqual
	CLessEqual
	CGreater
	CAlways
)

// RasterState defines the rasterization state of a graphics pipeline.
type RasterState struct {
	// Winding order is either clockwise or counter-clockwise.
	Clockwise bool
	Cull      CullMode
}

// DSState defines the depth/stencil state of a graphics pipeline.
type DSState struct {
	DepthTest  bool
	DepthWrite bool
	DepthCmp   CmpFunc
}

// ColorMask is the type of a color write mask.
type ColorMask int

// Color write masks.
const (
	CRed ColorMask = 1 << iota
	CGreen
	CBlue
	CAlpha
	// Write to all channels.
	CAll ColorMask = 1<<iota - 1
)

// ColorBlend defines a render target's blend parameters.
type ColorBlend struct {
	Blend     bool
	WriteMask ColorMask
}

// Viewport defines the bounds of a viewport.
type Viewport struct {
	X, Y, Width, Height, Znear, Zfar float32
}

// Scissor defines a scissor rectangle.
type Scissor struct {
	X, Y, Width, Height int
}

// GraphState defines the combination of programmable and fixed stages
// of a graphics pipeline. Viewport and scissor are always dynamic.
type GraphState struct {
	VertFunc ShaderCode
	FragFunc ShaderCode
	Layout   PipelineLayout
	Input    VertexInput
	Topology Topology
	Raster   RasterState
	Samples  int
	DS       DSState
	Blend    ColorBlend
	ColorFmt PixelFmt
	DepthFmt PixelFmt
}

// Pipeline is the interface that defines a GPU pipeline.
type Pipeline interface {
	Destroyer
}
