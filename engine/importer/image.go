// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Texture import: source image to GPU-ready pixel bytes.

package importer

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	// Extend the image registry beyond the stdlib formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/driver"
)

// ImageDecoder is the image decoding collaborator of the texture
// importer.
type ImageDecoder interface {
	Decode(r io.Reader) (image.Image, error)
}

type stdImageDecoder struct{}

func (stdImageDecoder) Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

var imageDecoder ImageDecoder = stdImageDecoder{}

// SetImageDecoder replaces the image decoding collaborator.
// The default decoder handles the formats known to the image
// registry (PNG, JPEG, BMP, TIFF, ...). Hosts with exotic formats
// (EXR, DDS, KTX) install their own decoder here.
func SetImageDecoder(d ImageDecoder) { imageDecoder = d }

type textureImporter struct {
	base
}

func (ti *textureImporter) Begin(md *asset.Metadata) {
	if _, ok := md.Setting.(*asset.TextureSetting); !ok {
		md.Setting = asset.DefaultTextureSetting()
	}
}

func (ti *textureImporter) ProcessIntermediate(reg *asset.Registry, md *asset.Metadata) (uint64, error) {
	f, err := os.Open(reg.AbsSourcePath(md.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, asset.ErrNotFound)
		}
		return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, err)
	}
	defer f.Close()

	img, err := imageDecoder.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("%sdecode %s: %s: %w", prefix, md.Path, err, asset.ErrCorrupt)
	}

	setting := md.Setting.(*asset.TextureSetting)
	data, err := pixelBytes(img, setting.Format)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, err)
	}
	bounds := img.Bounds()

	body := codec.TextureBody{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Format: uint32(setting.Format),
		Data:   data,
	}
	abs := reg.AbsIntermediatePath(md.UUID, asset.Texture)
	hash, err := codec.WriteFile(abs, &body)
	if err != nil {
		return 0, err
	}
	ti.wrote, ti.abs = true, abs
	return hash, nil
}

// pixelBytes converts a decoded image to the tightly packed byte
// layout of the target GPU format.
func pixelBytes(img image.Image, pf driver.PixelFmt) ([]byte, error) {
	// Normalize to non-premultiplied RGBA first.
	nrgba := imaging.Clone(img)
	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(data[y*w*4:(y+1)*w*4], nrgba.Pix[y*nrgba.Stride:])
	}
	switch pf {
	case driver.RGBA8un, driver.RGBA8sRGB:
		return data, nil
	case driver.BGRA8un, driver.BGRA8sRGB:
		for i := 0; i < len(data); i += 4 {
			data[i], data[i+2] = data[i+2], data[i]
		}
		return data, nil
	}
	return nil, fmt.Errorf("no conversion to pixel format %d", pf)
}
