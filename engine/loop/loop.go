// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package loop implements the engine's frame dispatcher.
//
// The dispatcher owns the GPU device lifetime and the per-frame
// event sequence: every iteration advances the frame number,
// computes the delta time and broadcasts PreTick, Tick and PostTick
// in that order. The host's input and render callbacks run inside
// the tick phase, input first.
//
// Everything here is single-threaded and cooperative: handlers run
// to completion in registration order.
package loop

import (
	"errors"
	"fmt"
	"time"

	"github.com/embergfx/ember"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/internal/event"
)

const prefix = "loop: "

// Frame carries the loop state broadcast with each tick event.
type Frame struct {
	// Number of the current frame. The first iteration runs with
	// Number == 1.
	Number uint64
	// Delta is the time elapsed since the previous iteration.
	Delta time.Duration
}

// Events are the process-wide engine lifecycle events.
// The device events carry the driver.GPU handle, except
// PreDeviceCreated, which is invoked with nil before the device exists.
var Events struct {
	PreTick  event.Event[Frame]
	Tick     event.Event[Frame]
	PostTick event.Event[Frame]

	PreDeviceCreated    event.Event[driver.GPU]
	PostDeviceCreated   event.Event[driver.GPU]
	PreDeviceDestroyed  event.Event[driver.GPU]
	PostDeviceDestroyed event.Event[driver.GPU]
}

// TickFunc is a host callback invoked during the tick phase.
type TickFunc func() error

// Loop state machine.
const (
	stUninit = iota
	stRunning
	stStopped
)

// Loop is the engine's frame dispatcher.
type Loop struct {
	cfg    engine.Config
	input  TickFunc
	render TickFunc

	state    int
	closeReq bool
	frame    uint64
	lastTime time.Time
	delta    time.Duration
}

// New creates a loop with the given configuration.
func New(cfg engine.Config) *Loop {
	return &Loop{cfg: cfg}
}

// SetInputFunc sets the host input callback.
func (l *Loop) SetInputFunc(fn TickFunc) { l.input = fn }

// SetRenderFunc sets the host render callback.
func (l *Loop) SetRenderFunc(fn TickFunc) { l.render = fn }

// Init creates the GPU device, broadcasting the device creation
// events, and resets the loop state.
func (l *Loop) Init() error {
	if l.state != stUninit {
		return errors.New(prefix + "Init on initialized loop")
	}
	if l.render == nil {
		ember.Logger().Warn("render callback not set")
	}
	if l.input == nil {
		ember.Logger().Warn("input callback not set")
	}
	Events.PreDeviceCreated.Invoke(nil)
	if err := ctxt.Init(l.cfg.Driver); err != nil {
		return fmt.Errorf("%s%s: %w", prefix, err, driver.ErrFatal)
	}
	Events.PostDeviceCreated.Invoke(ctxt.GPU())
	l.frame = 0
	l.closeReq = false
	l.lastTime = time.Now()
	l.delta = 0
	l.state = stRunning
	ember.Logger().Info("engine loop initialized", "driver", ctxt.Driver().Name())
	return nil
}

// Run iterates until close is requested or a callback fails.
// A callback error aborts the loop and is reported as fatal.
func (l *Loop) Run() error {
	if l.state != stRunning {
		return errors.New(prefix + "Run on uninitialized loop")
	}
	for !l.closeReq && l.state == stRunning {
		t := time.Now()
		l.delta = t.Sub(l.lastTime)
		l.lastTime = t
		l.frame++

		frame := Frame{Number: l.frame, Delta: l.delta}
		Events.PreTick.Invoke(frame)

		Events.Tick.Invoke(frame)
		if l.input != nil {
			if err := l.input(); err != nil {
				l.state = stStopped
				return fmt.Errorf("%sinput callback: %s: %w", prefix, err, driver.ErrFatal)
			}
		}
		if l.render != nil {
			if err := l.render(); err != nil {
				l.state = stStopped
				return fmt.Errorf("%srender callback: %s: %w", prefix, err, driver.ErrFatal)
			}
		}

		Events.PostTick.Invoke(frame)
	}
	return nil
}

// RequestClose makes Run return at the next iteration boundary.
func (l *Loop) RequestClose() { l.closeReq = true }

// UnInit stops the loop and destroys the GPU device, broadcasting
// the device destruction events.
func (l *Loop) UnInit() {
	if l.state == stUninit {
		return
	}
	l.state = stStopped
	gpu := ctxt.GPU()
	Events.PreDeviceDestroyed.Invoke(gpu)
	ctxt.Deinit()
	Events.PostDeviceDestroyed.Invoke(gpu)
	ember.Logger().Info("engine loop deinitialized")
}

// FrameNumber returns the number of the current frame.
func (l *Loop) FrameNumber() uint64 { return l.frame }

// FrameIndex returns the frame-in-flight ring index of the current
// frame.
func (l *Loop) FrameIndex() int { return int(l.frame) % l.cfg.Frames() }

// Delta returns the delta time of the current frame.
func (l *Loop) Delta() time.Duration { return l.delta }
