// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Dynamic per-frame model matrix pool.

package respool

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/material"
	"github.com/embergfx/ember/internal/bitm"
	"github.com/embergfx/ember/linear"
)

// matrixSize is the byte size of one model matrix.
const matrixSize = 64

var dynamic struct {
	frames int
	bufs   []driver.Buffer
	sets   []driver.DescSet
	slots  bitm.Bitm[uint32]
	owners map[any]int
}

// startUpDynamic creates one host-visible storage buffer and one
// Model descriptor set per frame in flight.
func startUpDynamic(frames int) error {
	if frames < 1 || frames > engine.MaxFrame {
		return fmt.Errorf("%s%d frames in flight", prefix, frames)
	}
	gpu := ctxt.GPU()
	if gpu == nil {
		return errors.New(prefix + "no GPU device")
	}
	dynamic.frames = frames
	dynamic.owners = make(map[any]int)
	dynamic.slots.Grow(engine.MaxModelMatrices / 32)
	for i := 0; i < frames; i++ {
		buf, err := gpu.NewBuffer(matrixSize*engine.MaxModelMatrices, true, driver.UShaderRead)
		if err != nil {
			shutDownDynamic()
			return fmt.Errorf("%smatrix buffer: %w", prefix, err)
		}
		set, err := material.AllocModelSet()
		if err != nil {
			buf.Destroy()
			shutDownDynamic()
			return err
		}
		set.Update([]driver.DescWrite{
			{
				Nr:   0,
				Type: driver.DBuffer,
				Buf:  buf,
				Off:  0,
				Size: buf.Cap(),
			},
		})
		dynamic.bufs = append(dynamic.bufs, buf)
		dynamic.sets = append(dynamic.sets, set)
	}
	return nil
}

func shutDownDynamic() {
	for _, b := range dynamic.bufs {
		b.Destroy()
	}
	dynamic.bufs = nil
	dynamic.sets = nil
	dynamic.owners = nil
	dynamic.slots = bitm.Bitm[uint32]{}
	dynamic.frames = 0
}

// Frames returns the number of frames in flight of the dynamic pool.
func Frames() int { return dynamic.frames }

// Register reserves a model matrix slot for owner.
// The slot stays valid until Unregister. Registering an owner that
// already holds a slot returns that slot.
//
// Register and Unregister must not be called between begin-frame and
// the completion fence of the same frame.
func Register(owner any) (int, error) {
	if slot, ok := dynamic.owners[owner]; ok {
		return slot, nil
	}
	slot, ok := dynamic.slots.Search()
	if !ok {
		return -1, fmt.Errorf("%smodel matrices: %w", prefix, asset.ErrPoolFull)
	}
	dynamic.slots.Set(slot)
	dynamic.owners[owner] = slot
	return slot, nil
}

// Unregister releases owner's slot, if any.
func Unregister(owner any) {
	if slot, ok := dynamic.owners[owner]; ok {
		dynamic.slots.Unset(slot)
		delete(dynamic.owners, owner)
	}
}

// SetMatrix writes m into the given slot of the ring selected by
// frame (frame modulo the frames in flight).
func SetMatrix(frame uint64, slot int, m *linear.M4) {
	buf := dynamic.bufs[int(frame)%dynamic.frames]
	b := buf.Bytes()[slot*matrixSize:]
	for c := range m {
		for r, v := range m[c] {
			binary.LittleEndian.PutUint32(b[(c*4+r)*4:], math.Float32bits(v))
		}
	}
}

// MatrixBuffer returns the storage buffer of the ring selected by
// frame.
func MatrixBuffer(frame uint64) driver.Buffer {
	return dynamic.bufs[int(frame)%dynamic.frames]
}

// ModelSet returns the Model descriptor set of the ring selected by
// frame.
func ModelSet(frame uint64) driver.DescSet {
	return dynamic.sets[int(frame)%dynamic.frames]
}

// Renderer is a handle for one visible object's model matrix slot.
// A renderer holds exactly one reserved slot while visible.
type Renderer struct {
	slot    int
	visible bool
}

// NewRenderer creates a renderer and makes it visible.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{slot: -1}
	if err := r.SetVisible(true); err != nil {
		return nil, err
	}
	return r, nil
}

// SetVisible toggles visibility, reserving or releasing the model
// matrix slot accordingly.
func (r *Renderer) SetVisible(visible bool) error {
	if r.visible == visible {
		return nil
	}
	if visible {
		slot, err := Register(r)
		if err != nil {
			return err
		}
		r.slot = slot
	} else {
		Unregister(r)
		r.slot = -1
	}
	r.visible = visible
	return nil
}

// Slot returns the renderer's model matrix slot, or -1 while not
// visible.
func (r *Renderer) Slot() int { return r.slot }

// SetModelMatrix writes the renderer's model matrix for frame.
func (r *Renderer) SetModelMatrix(frame uint64, m *linear.M4) {
	if r.slot >= 0 {
		SetMatrix(frame, r.slot, m)
	}
}

// Free releases the renderer's slot.
func (r *Renderer) Free() {
	r.SetVisible(false)
}
