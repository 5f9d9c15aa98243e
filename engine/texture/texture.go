// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package texture provides a wrapper around the driver's Image type
// and its materialization from texture intermediates.
package texture

import (
	"errors"
	"fmt"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/internal/stage"
	"github.com/embergfx/ember/internal/event"
)

const prefix = "texture: "

// Texture wraps a driver.Image.
// A texture carries a pre-destroy event so that consumers holding
// its bindless index (the static resource pool) can release it; the
// texture owns the subscriptions, the pool holds no owning reference
// back.
type Texture struct {
	img        driver.Image
	view       driver.ImageView
	param      TexParam
	name       string
	preDestroy event.Event[*Texture]
}

// TexParam describes parameters of a texture.
type TexParam struct {
	driver.PixelFmt
	driver.Dim3D
	Layers int
	Levels int
}

// New2D creates a 2D texture.
// The view spans all mip levels and array layers.
func New2D(param *TexParam) (t *Texture, err error) {
	limits := ctxt.Limits()
	var reason string
	switch {
	case param == nil:
		reason = "nil param"
	case param.Size() == 0:
		reason = "invalid pixel format"
	case param.Width < 1, param.Height < 1, param.Depth != 0:
		reason = "invalid size"
	case param.Width > limits.MaxImage2D, param.Height > limits.MaxImage2D:
		reason = "size too big"
	case param.Layers < 1:
		reason = "invalid layer count"
	case param.Layers > limits.MaxLayers:
		reason = "too many layers"
	case param.Levels < 1:
		reason = "invalid level count"
	default:
		goto validParam
	}
	err = errors.New(prefix + reason)
	return
validParam:
	img, err := ctxt.GPU().NewImage(param.PixelFmt, param.Dim3D, param.Layers, param.Levels, driver.UShaderSample)
	if err != nil {
		return
	}
	typ := driver.IView2D
	if param.Layers > 1 {
		typ = driver.IView2DArray
	}
	view, err := img.NewView(typ, 0, param.Layers, 0, param.Levels)
	if err != nil {
		img.Destroy()
		return
	}
	t = &Texture{img: img, view: view, param: *param}
	return
}

// FromIntermediate materializes a texture from its intermediate
// body, uploading the pixel bytes through the staging path with a
// one-shot command buffer from pool.
// The texture's stable name is set to name (the asset path).
func FromIntermediate(body *codec.TextureBody, name string, pool driver.CmdPool) (*Texture, error) {
	pf := driver.PixelFmt(body.Format)
	if pf.Size() == 0 {
		return nil, fmt.Errorf("%s%s: format %d: %w", prefix, name, body.Format, asset.ErrCorrupt)
	}
	want := int(body.Width) * int(body.Height) * pf.Size()
	if want != len(body.Data) {
		return nil, fmt.Errorf("%s%s: %d pixel bytes, want %d: %w",
			prefix, name, len(body.Data), want, asset.ErrCorrupt)
	}
	param := TexParam{
		PixelFmt: pf,
		Dim3D:    driver.Dim3D{Width: int(body.Width), Height: int(body.Height)},
		Layers:   1,
		Levels:   1,
	}
	t, err := New2D(&param)
	if err != nil {
		return nil, err
	}
	if err := stage.ToImage(pool, t.img, param.Dim3D, 1, body.Data); err != nil {
		t.destroy()
		return nil, err
	}
	t.name = name
	return t, nil
}

// Name returns the texture's stable name (its asset path).
func (t *Texture) Name() string { return t.name }

// SetName sets the texture's stable name.
func (t *Texture) SetName(name string) { t.name = name }

// View returns the view spanning the whole image.
func (t *Texture) View() driver.ImageView { return t.view }

// PixelFmt returns the driver.PixelFmt of t.
func (t *Texture) PixelFmt() driver.PixelFmt { return t.param.PixelFmt }

// Width returns the width of t's first mip level.
func (t *Texture) Width() int { return t.param.Width }

// Height returns the height of t's first mip level.
func (t *Texture) Height() int { return t.param.Height }

// PreDestroy returns the event invoked at the start of Free.
func (t *Texture) PreDestroy() *event.Event[*Texture] { return &t.preDestroy }

func (t *Texture) destroy() {
	if t.view != nil {
		t.view.Destroy()
	}
	if t.img != nil {
		t.img.Destroy()
	}
	*t = Texture{}
}

// Free invokes the pre-destroy event, then invalidates t and
// destroys the driver resources.
func (t *Texture) Free() {
	t.preDestroy.Invoke(t)
	t.destroy()
}
