// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package null implements the driver interfaces against CPU memory.
// Resources are backed by plain byte slices and copy commands execute
// when committed, which makes the package suitable for headless runs
// and for exercising GPU-facing code without a device.
//
// It registers itself under the name "null".
package null

import (
	"errors"

	"github.com/embergfx/ember/driver"
)

const prefix = "null: "

// Driver implements driver.Driver.
type Driver struct {
	gpu *gpuT
}

func init() { driver.Register(&Driver{}) }

// Open initializes the driver.
func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu == nil {
		d.gpu = &gpuT{d: d}
	}
	return d.gpu, nil
}

// Name returns "null".
func (d *Driver) Name() string { return "null" }

// Close deinitializes the driver.
func (d *Driver) Close() { d.gpu = nil }

type gpuT struct {
	d *Driver
}

func (g *gpuT) Driver() driver.Driver { return g.d }

func (g *gpuT) Commit(wk *driver.WorkItem, ch chan<- *driver.WorkItem) error {
	for _, cb := range wk.Work {
		c := cb.(*cmdBuffer)
		if c.recording {
			return errors.New(prefix + "commit of recording command buffer")
		}
		for _, op := range c.ops {
			if err := op(); err != nil {
				wk.Err = err
				break
			}
		}
		c.ops = nil
		if wk.Err != nil {
			break
		}
	}
	go func() { ch <- wk }()
	return nil
}

func (g *gpuT) NewCmdPool() (driver.CmdPool, error) { return &cmdPool{}, nil }

func (g *gpuT) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	if size < 0 {
		return nil, errors.New(prefix + "negative buffer size")
	}
	return &buffer{data: make([]byte, size), visible: visible, usg: usg}, nil
}

func (g *gpuT) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels int, usg driver.Usage) (driver.Image, error) {
	if pf.Size() == 0 {
		return nil, errors.New(prefix + "invalid pixel format")
	}
	if size.Width < 1 || size.Height < 1 || layers < 1 || levels < 1 {
		return nil, errors.New(prefix + "invalid image extent")
	}
	n := pf.Size() * size.Width * size.Height * layers
	return &image{
		pf:     pf,
		size:   size,
		layers: layers,
		levels: levels,
		data:   make([]byte, n),
	}, nil
}

func (g *gpuT) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	return &sampler{spln: *spln}, nil
}

func (g *gpuT) NewShaderCode(code []uint32, stage driver.Stage) (driver.ShaderCode, error) {
	if len(code) == 0 {
		return nil, errors.New(prefix + "empty shader code")
	}
	words := append([]uint32(nil), code...)
	return &shaderCode{code: words, stage: stage}, nil
}

func (g *gpuT) NewDescLayout(bindings []driver.DescBinding) (driver.DescLayout, error) {
	b := append([]driver.DescBinding(nil), bindings...)
	return &descLayout{bindings: b}, nil
}

func (g *gpuT) NewDescPool(sizes []driver.DescPoolSize, maxSets int, flags driver.DescPoolFlag) (driver.DescPool, error) {
	if maxSets < 1 {
		return nil, errors.New(prefix + "invalid descriptor pool capacity")
	}
	return &descPool{
		sizes:   append([]driver.DescPoolSize(nil), sizes...),
		maxSets: maxSets,
		flags:   flags,
	}, nil
}

func (g *gpuT) NewPipelineLayout(sets []driver.DescLayout, ranges []driver.PushRange) (driver.PipelineLayout, error) {
	return &pipelineLayout{
		sets:   append([]driver.DescLayout(nil), sets...),
		ranges: append([]driver.PushRange(nil), ranges...),
	}, nil
}

func (g *gpuT) NewPipeline(state *driver.GraphState) (driver.Pipeline, error) {
	if state == nil || state.VertFunc == nil || state.FragFunc == nil {
		return nil, errors.New(prefix + "incomplete graphics state")
	}
	if state.Layout == nil {
		return nil, errors.New(prefix + "nil pipeline layout")
	}
	return &pipeline{state: *state}, nil
}

func (g *gpuT) Limits() driver.Limits {
	return driver.Limits{
		MaxImage2D:   16384,
		MaxLayers:    2048,
		MaxDTexture:  1 << 20,
		MaxDSampler:  4096,
		MaxPushConst: 256,
	}
}

type buffer struct {
	data    []byte
	visible bool
	usg     driver.Usage
}

func (b *buffer) Destroy()      { b.data = nil }
func (b *buffer) Visible() bool { return b.visible }
func (b *buffer) Cap() int64    { return int64(len(b.data)) }

func (b *buffer) Bytes() []byte {
	if !b.visible {
		return nil
	}
	return b.data
}

type image struct {
	pf     driver.PixelFmt
	size   driver.Dim3D
	layers int
	levels int
	data   []byte
}

func (m *image) Destroy() { m.data = nil }

func (m *image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	if layer < 0 || layers < 1 || layer+layers > m.layers {
		return nil, errors.New(prefix + "invalid view layer range")
	}
	if level < 0 || levels < 1 || level+levels > m.levels {
		return nil, errors.New(prefix + "invalid view level range")
	}
	return &imageView{img: m}, nil
}

type imageView struct {
	img *image
}

func (v *imageView) Destroy()             {}
func (v *imageView) Image() driver.Image { return v.img }

type sampler struct {
	spln driver.Sampling
}

func (s *sampler) Destroy() {}

type shaderCode struct {
	code  []uint32
	stage driver.Stage
}

func (s *shaderCode) Destroy() { s.code = nil }

type descLayout struct {
	bindings []driver.DescBinding
}

func (l *descLayout) Destroy() {}

type descPool struct {
	sizes   []driver.DescPoolSize
	maxSets int
	flags   driver.DescPoolFlag
	nalloc  int
}

func (p *descPool) Destroy() {}

func (p *descPool) Alloc(layout driver.DescLayout) (driver.DescSet, error) {
	if p.nalloc >= p.maxSets {
		return nil, errors.New(prefix + "descriptor pool exhausted")
	}
	p.nalloc++
	return &descSet{
		layout: layout.(*descLayout),
		writes: make(map[[2]int]driver.DescWrite),
	}, nil
}

func (p *descPool) Free(set driver.DescSet) error {
	if p.flags&driver.DPFreeDescSet == 0 {
		return errors.New(prefix + "pool not created with DPFreeDescSet")
	}
	if p.nalloc < 1 {
		return errors.New(prefix + "free of unallocated descriptor set")
	}
	p.nalloc--
	return nil
}

type descSet struct {
	layout *descLayout
	writes map[[2]int]driver.DescWrite
}

func (s *descSet) Update(writes []driver.DescWrite) {
	for i := range writes {
		s.writes[[2]int{writes[i].Nr, writes[i].Elem}] = writes[i]
	}
}

type pipelineLayout struct {
	sets   []driver.DescLayout
	ranges []driver.PushRange
}

func (l *pipelineLayout) Destroy() {}

type pipeline struct {
	state driver.GraphState
}

func (p *pipeline) Destroy() {}

type cmdPool struct {
	destroyed bool
}

func (p *cmdPool) Destroy() { p.destroyed = true }

func (p *cmdPool) NewCmdBuffer() (driver.CmdBuffer, error) {
	if p.destroyed {
		return nil, errors.New(prefix + "command pool destroyed")
	}
	return &cmdBuffer{}, nil
}

type cmdBuffer struct {
	ops       []func() error
	recording bool
}

func (c *cmdBuffer) Destroy() { c.ops = nil }

func (c *cmdBuffer) Begin() error {
	if c.recording {
		return errors.New(prefix + "Begin while recording")
	}
	c.ops = nil
	c.recording = true
	return nil
}

func (c *cmdBuffer) IsRecording() bool { return c.recording }

func (c *cmdBuffer) End() error {
	if !c.recording {
		return errors.New(prefix + "End while not recording")
	}
	c.recording = false
	return nil
}

func (c *cmdBuffer) Reset() error {
	c.ops = nil
	c.recording = false
	return nil
}

func (c *cmdBuffer) Barrier(b []driver.Barrier) {}

func (c *cmdBuffer) Transition(t []driver.Transition) {}

func (c *cmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	p := *param
	c.ops = append(c.ops, func() error {
		from := p.From.(*buffer)
		to := p.To.(*buffer)
		if p.FromOff+p.Size > from.Cap() || p.ToOff+p.Size > to.Cap() {
			return errors.New(prefix + "buffer copy out of bounds")
		}
		copy(to.data[p.ToOff:p.ToOff+p.Size], from.data[p.FromOff:])
		return nil
	})
}

func (c *cmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {
	p := *param
	c.ops = append(c.ops, func() error {
		buf := p.Buf.(*buffer)
		img := p.Img.(*image)
		px := img.pf.Size()
		rowStride := p.RowStride
		if rowStride == 0 {
			rowStride = int64(p.Size.Width)
		}
		layerSize := px * img.size.Width * img.size.Height
		for l := 0; l < p.Layers; l++ {
			src := p.BufOff + int64(l)*rowStride*int64(px)*int64(p.Size.Height)
			dst := (p.Layer + l) * layerSize
			for y := 0; y < p.Size.Height; y++ {
				so := src + int64(y)*rowStride*int64(px)
				do := dst + ((p.ImgOff.Y+y)*img.size.Width+p.ImgOff.X)*px
				n := p.Size.Width * px
				if so+int64(n) > buf.Cap() || do+n > len(img.data) {
					return errors.New(prefix + "buffer-image copy out of bounds")
				}
				copy(img.data[do:do+n], buf.data[so:])
			}
		}
		return nil
	})
}

func (c *cmdBuffer) SetPipeline(pl driver.Pipeline)          {}
func (c *cmdBuffer) SetViewport(vp driver.Viewport)          {}
func (c *cmdBuffer) SetScissor(sciss driver.Scissor)         {}
func (c *cmdBuffer) SetVertexBuf(nr int, buf driver.Buffer, off int64) {}
func (c *cmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {}
func (c *cmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int)            {}
func (c *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {}

func (c *cmdBuffer) SetDescSets(layout driver.PipelineLayout, start int, sets []driver.DescSet) {}

func (c *cmdBuffer) PushConst(layout driver.PipelineLayout, stages driver.Stage, off int, data []byte) {
}

// Contents returns the backing store of a buffer created by this
// driver, regardless of visibility. It is intended for inspection in
// headless runs and tests.
func Contents(b driver.Buffer) []byte { return b.(*buffer).data }

// ImageContents returns the backing store of an image created by
// this driver (first mip level, all layers, tightly packed).
func ImageContents(img driver.Image) []byte { return img.(*image).data }

// SetWrite returns the descriptor write last applied to the given
// binding and array element of a set allocated from this driver, if
// any. It is intended for inspection in headless runs and tests.
func SetWrite(set driver.DescSet, nr, elem int) (driver.DescWrite, bool) {
	w, ok := set.(*descSet).writes[[2]int{nr, elem}]
	return w, ok
}
