// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package driver

// CmdPool is the interface that defines a command pool from which
// command buffers are acquired.
type CmdPool interface {
	Destroyer

	// NewCmdBuffer creates a new command buffer owned by the pool.
	// Destroying the pool invalidates all of its command buffers.
	NewCmdBuffer() (CmdBuffer, error)
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded between Begin and End and later committed to
// the GPU for execution through GPU.Commit.
type CmdBuffer interface {
	Destroyer

	// Begin prepares the command buffer for recording.
	Begin() error

	// IsRecording returns whether the command buffer is currently
	// recording (i.e., Begin succeeded and End was not called).
	IsRecording() bool

	// End ends command recording and prepares the command buffer
	// for execution. Upon failure, the command buffer is reset.
	End() error

	// Reset discards all recorded commands.
	Reset() error

	// Barrier inserts a number of global barriers.
	Barrier(b []Barrier)

	// Transition inserts a number of image layout transitions.
	Transition(t []Transition)

	// CopyBuffer copies data between buffers.
	CopyBuffer(param *BufferCopy)

	// CopyBufToImg copies data from a buffer to an image.
	CopyBufToImg(param *BufImgCopy)

	// SetPipeline sets the pipeline.
	SetPipeline(pl Pipeline)

	// SetViewport sets the bounds of the viewport.
	SetViewport(vp Viewport)

	// SetScissor sets the scissor rectangle.
	SetScissor(sciss Scissor)

	// SetDescSets binds consecutive descriptor sets starting at the
	// given set number.
	SetDescSets(layout PipelineLayout, start int, sets []DescSet)

	// SetVertexBuf sets a vertex buffer binding.
	SetVertexBuf(nr int, buf Buffer, off int64)

	// SetIndexBuf sets the index buffer.
	SetIndexBuf(format IndexFmt, buf Buffer, off int64)

	// PushConst updates a push constant range.
	PushConst(layout PipelineLayout, stages Stage, off int, data []byte)

	// Draw draws primitives.
	Draw(vertCount, instCount, baseVert, baseInst int)

	// DrawIndexed draws indexed primitives.
	DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int)
}

// BufferCopy describes the parameters of a copy command that copies
// data from one buffer to another.
type BufferCopy struct {
	From    Buffer
	FromOff int64
	To      Buffer
	ToOff   int64
	Size    int64
}

// BufImgCopy describes the parameters of a copy command that copies
// data between a buffer and an image.
type BufImgCopy struct {
	Buf    Buffer
	BufOff int64
	// RowStride is the buffer row length in pixels.
	RowStride int64
	Img       Image
	ImgOff    Off3D
	Layer     int
	Layers    int
	Level     int
	Size      Dim3D
}

// Sync is the type of a synchronization scope.
type Sync int

// Synchronization scopes.
const (
	SVertexInput Sync = 1 << iota
	SVertexShading
	SFragmentShading
	SColorOutput
	SCopy
	SAll
	SNone Sync = 0
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	AVertexBufRead Access = 1 << iota
	AIndexBufRead
	AShaderRead
	AShaderWrite
	ACopyRead
	ACopyWrite
	ANone Access = 0
)

// Layout is the type of an image layout.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LCopySrc
	LCopyDst
	LShaderRead
	LColorTarget
	LPresent
)

// Barrier represents a synchronization barrier.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
}

// Transition represents a layout transition on a specific image
// subresource range.
type Transition struct {
	Barrier

	LayoutBefore Layout
	LayoutAfter  Layout
	Img          Image
	Layer        int
	Layers       int
	Level        int
	Levels       int
}
