// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package stage implements the staging-buffer upload path shared by
// texture and mesh materialization.
//
// Uploads are synchronous: bytes are copied into a host-visible
// staging buffer, a one-shot command buffer from the caller's command
// pool records the transfer, and the call blocks until the GPU work
// completes. The staging buffer is block-allocated and reused across
// uploads; it grows on demand.
package stage

import (
	"errors"
	"fmt"

	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/internal/bitm"
)

const prefix = "stage: "

// Use a large block size since texture and mesh payloads are usually
// large allocations. One bitmap word covers 4 MiB.
const (
	blockSize = 131072
	nbit      = 32
)

var s stagingBuffer

type stagingBuffer struct {
	buf driver.Buffer
	bm  bitm.Bitm[uint32]
}

// reserve reserves a contiguous range of n bytes within the staging
// buffer, growing it if necessary.
// It returns the range's byte offset and the number of blocks taken.
func (s *stagingBuffer) reserve(n int) (off int64, nb int, err error) {
	if n <= 0 {
		panic("stage: reserve of non-positive size")
	}
	nb = (n + blockSize - 1) / blockSize
	idx, ok := s.bm.SearchRange(nb)
	if !ok {
		nplus := (nb + nbit - 1) / nbit
		idx = s.bm.Len()
		s.bm.Grow(nplus)
		bcap := int64(s.bm.Len()) * blockSize
		buf, err := ctxt.GPU().NewBuffer(bcap, true, 0)
		if err != nil {
			return 0, 0, err
		}
		if s.buf != nil {
			copy(buf.Bytes(), s.buf.Bytes())
			s.buf.Destroy()
		}
		s.buf = buf
	}
	for i := 0; i < nb; i++ {
		s.bm.Set(idx + i)
	}
	return int64(idx) * blockSize, nb, nil
}

func (s *stagingBuffer) release(off int64, nb int) {
	ib := int(off) / blockSize
	for i := 0; i < nb; i++ {
		s.bm.Unset(ib + i)
	}
}

// commit runs cb to completion.
func commit(cb driver.CmdBuffer) error {
	if err := cb.End(); err != nil {
		return err
	}
	ch := make(chan *driver.WorkItem, 1)
	wk := &driver.WorkItem{Work: []driver.CmdBuffer{cb}}
	if err := ctxt.GPU().Commit(wk, ch); err != nil {
		return err
	}
	wk = <-ch
	return wk.Err
}

// begin acquires a one-shot command buffer from pool with data
// staged for upload.
func begin(pool driver.CmdPool, data []byte) (cb driver.CmdBuffer, off int64, nb int, err error) {
	if pool == nil {
		return nil, 0, 0, errors.New(prefix + "nil upload command pool")
	}
	if off, nb, err = s.reserve(len(data)); err != nil {
		return
	}
	copy(s.buf.Bytes()[off:], data)
	if cb, err = pool.NewCmdBuffer(); err != nil {
		s.release(off, nb)
		return
	}
	if err = cb.Begin(); err != nil {
		cb.Destroy()
		s.release(off, nb)
	}
	return
}

// ToBuffer uploads data into dst at offset dstOff.
// The recorded transfer ends with a barrier making the data visible
// to vertex input and shader reads.
func ToBuffer(pool driver.CmdPool, dst driver.Buffer, dstOff int64, data []byte) error {
	if int64(len(data))+dstOff > dst.Cap() {
		return fmt.Errorf("%supload of %d bytes exceeds buffer capacity %d", prefix, len(data), dst.Cap())
	}
	cb, off, nb, err := begin(pool, data)
	if err != nil {
		return err
	}
	defer func() {
		cb.Destroy()
		s.release(off, nb)
	}()
	cb.CopyBuffer(&driver.BufferCopy{
		From:    s.buf,
		FromOff: off,
		To:      dst,
		ToOff:   dstOff,
		Size:    int64(len(data)),
	})
	cb.Barrier([]driver.Barrier{
		{
			SyncBefore:   driver.SCopy,
			SyncAfter:    driver.SVertexInput | driver.SVertexShading,
			AccessBefore: driver.ACopyWrite,
			AccessAfter:  driver.AVertexBufRead | driver.AIndexBufRead | driver.AShaderRead,
		},
	})
	return commit(cb)
}

// ToImage uploads tightly packed pixel data into the first mip level
// of img, transitioning it from undefined to shader-read layout.
func ToImage(pool driver.CmdPool, img driver.Image, size driver.Dim3D, layers int, data []byte) error {
	cb, off, nb, err := begin(pool, data)
	if err != nil {
		return err
	}
	defer func() {
		cb.Destroy()
		s.release(off, nb)
	}()
	cb.Transition([]driver.Transition{
		{
			Barrier: driver.Barrier{
				SyncBefore:   driver.SNone,
				SyncAfter:    driver.SCopy,
				AccessBefore: driver.ANone,
				AccessAfter:  driver.ACopyWrite,
			},
			LayoutBefore: driver.LUndefined,
			LayoutAfter:  driver.LCopyDst,
			Img:          img,
			Layer:        0,
			Layers:       layers,
			Level:        0,
			Levels:       1,
		},
	})
	cb.CopyBufToImg(&driver.BufImgCopy{
		Buf:       s.buf,
		BufOff:    off,
		RowStride: int64(size.Width),
		Img:       img,
		Layer:     0,
		Layers:    layers,
		Level:     0,
		Size:      size,
	})
	cb.Transition([]driver.Transition{
		{
			Barrier: driver.Barrier{
				SyncBefore:   driver.SCopy,
				SyncAfter:    driver.SFragmentShading,
				AccessBefore: driver.ACopyWrite,
				AccessAfter:  driver.AShaderRead,
			},
			LayoutBefore: driver.LCopyDst,
			LayoutAfter:  driver.LShaderRead,
			Img:          img,
			Layer:        0,
			Layers:       layers,
			Level:        0,
			Levels:       1,
		},
	})
	return commit(cb)
}

// Free destroys the staging buffer. Further uploads recreate it.
func Free() {
	if s.buf != nil {
		s.buf.Destroy()
	}
	s = stagingBuffer{}
}
