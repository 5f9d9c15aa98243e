// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package loop

import (
	"errors"
	"testing"

	"github.com/embergfx/ember/driver"
	_ "github.com/embergfx/ember/driver/null"
	"github.com/embergfx/ember/engine"
)

func config() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Driver = "null"
	return cfg
}

func TestRunHundredFrames(t *testing.T) {
	l := New(config())

	type step struct {
		phase string
		frame uint64
	}
	var steps []step
	record := func(phase string) func(Frame) {
		return func(f Frame) { steps = append(steps, step{phase, f.Number}) }
	}
	hPre := Events.PreTick.AddBind(record("pre"))
	hTick := Events.Tick.AddBind(record("tick"))
	hPost := Events.PostTick.AddBind(record("post"))
	defer Events.PreTick.RemoveBind(hPre)
	defer Events.Tick.RemoveBind(hTick)
	defer Events.PostTick.RemoveBind(hPost)

	var inputs, renders int
	l.SetInputFunc(func() error {
		inputs++
		steps = append(steps, step{"input", l.FrameNumber()})
		return nil
	})
	l.SetRenderFunc(func() error {
		renders++
		steps = append(steps, step{"render", l.FrameNumber()})
		return nil
	})

	hClose := Events.PostTick.AddBind(func(f Frame) {
		if f.Number == 100 {
			l.RequestClose()
		}
	})
	defer Events.PostTick.RemoveBind(hClose)

	if err := l.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer l.UnInit()
	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if l.FrameNumber() != 100 {
		t.Fatalf("FrameNumber\nhave %d\nwant 100", l.FrameNumber())
	}
	if inputs != 100 || renders != 100 {
		t.Fatalf("callback counts\nhave %d/%d\nwant 100/100", inputs, renders)
	}

	// Each iteration must record pre, tick, input, render, post, in
	// that order, with the frame number visible to every phase.
	if len(steps) != 500 {
		t.Fatalf("steps\nhave %d\nwant 500", len(steps))
	}
	order := []string{"pre", "tick", "input", "render", "post"}
	for i, s := range steps {
		wantPhase := order[i%5]
		wantFrame := uint64(i/5 + 1)
		if s.phase != wantPhase || s.frame != wantFrame {
			t.Fatalf("step %d\nhave %s@%d\nwant %s@%d", i, s.phase, s.frame, wantPhase, wantFrame)
		}
	}
}

func TestCallbackErrorAborts(t *testing.T) {
	l := New(config())
	l.SetRenderFunc(func() error { return errors.New("device lost") })
	if err := l.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer l.UnInit()
	err := l.Run()
	if !errors.Is(err, driver.ErrFatal) {
		t.Fatalf("Run: %v\nwant driver.ErrFatal", err)
	}
	if l.FrameNumber() != 1 {
		t.Fatalf("FrameNumber\nhave %d\nwant 1", l.FrameNumber())
	}
	// A stopped loop does not run again.
	if err := l.Run(); err == nil {
		t.Fatal("Run on stopped loop: unexpected success")
	}
}

func TestDeviceEvents(t *testing.T) {
	l := New(config())
	var got []string
	h1 := Events.PreDeviceCreated.AddBind(func(driver.GPU) { got = append(got, "preCreate") })
	h2 := Events.PostDeviceCreated.AddBind(func(gpu driver.GPU) {
		if gpu == nil {
			t.Error("PostDeviceCreated without device handle")
		}
		got = append(got, "postCreate")
	})
	h3 := Events.PreDeviceDestroyed.AddBind(func(gpu driver.GPU) {
		if gpu == nil {
			t.Error("PreDeviceDestroyed without device handle")
		}
		got = append(got, "preDestroy")
	})
	h4 := Events.PostDeviceDestroyed.AddBind(func(driver.GPU) { got = append(got, "postDestroy") })
	defer Events.PreDeviceCreated.RemoveBind(h1)
	defer Events.PostDeviceCreated.RemoveBind(h2)
	defer Events.PreDeviceDestroyed.RemoveBind(h3)
	defer Events.PostDeviceDestroyed.RemoveBind(h4)

	if err := l.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	l.UnInit()

	want := []string{"preCreate", "postCreate", "preDestroy", "postDestroy"}
	if len(got) != len(want) {
		t.Fatalf("events\nhave %v\nwant %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events\nhave %v\nwant %v", got, want)
		}
	}
}

func TestFrameIndex(t *testing.T) {
	cfg := config()
	cfg.DoubleBuffered = true
	l := New(cfg)
	if err := l.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer l.UnInit()
	l.SetRenderFunc(func() error { return nil })
	h := Events.PostTick.AddBind(func(f Frame) {
		if want := int(f.Number) % 2; l.FrameIndex() != want {
			t.Errorf("FrameIndex at frame %d\nhave %d\nwant %d", f.Number, l.FrameIndex(), want)
		}
		if f.Number == 4 {
			l.RequestClose()
		}
	})
	defer Events.PostTick.RemoveBind(h)
	if err := l.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
