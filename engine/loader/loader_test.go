// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package loader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/driver/null"
	"github.com/embergfx/ember/engine/importer"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/material"
	"github.com/embergfx/ember/engine/respool"
)

var startOnce sync.Once

func start(t *testing.T) {
	t.Helper()
	startOnce.Do(func() {
		if err := ctxt.Init("null"); err != nil {
			t.Fatalf("ctxt.Init: %v", err)
		}
		if err := material.StartUp(); err != nil {
			t.Fatalf("material.StartUp: %v", err)
		}
		if err := respool.StartUp(2); err != nil {
			t.Fatalf("respool.StartUp: %v", err)
		}
		if err := importer.StartUp(); err != nil {
			t.Fatalf("importer.StartUp: %v", err)
		}
	})
}

func openRegistry(t *testing.T) *asset.Registry {
	t.Helper()
	reg, err := asset.Open(t.TempDir())
	if err != nil {
		t.Fatalf("asset.Open: %v", err)
	}
	return reg
}

func writeChecker(t *testing.T, root string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	magenta := color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
	green := color.NRGBA{G: 0xff, A: 0xff}
	img.SetNRGBA(0, 0, magenta)
	img.SetNRGBA(1, 0, green)
	img.SetNRGBA(0, 1, green)
	img.SetNRGBA(1, 1, magenta)
	dir := filepath.Join(root, "Textures")
	os.MkdirAll(dir, 0o755)
	f, err := os.Create(filepath.Join(dir, "checker.png"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return "Textures/checker.png"
}

func TestLoadImportsWhenMissing(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	path := writeChecker(t, reg.Root())

	tex, err := LoadTexture(reg, path, true)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Name() != path {
		t.Fatalf("Name\nhave %q\nwant %q", tex.Name(), path)
	}
	if tex.Width() != 2 || tex.Height() != 2 {
		t.Fatalf("size\nhave %dx%d\nwant 2x2", tex.Width(), tex.Height())
	}
	if tex.PixelFmt() != driver.BGRA8sRGB {
		t.Fatalf("format\nhave %v\nwant BGRA8sRGB", tex.PixelFmt())
	}
	want := []byte{
		0xff, 0x00, 0xff, 0xff, 0x00, 0xff, 0x00, 0xff,
		0x00, 0xff, 0x00, 0xff, 0xff, 0x00, 0xff, 0xff,
	}
	if got := null.ImageContents(tex.View().Image()); !bytes.Equal(got, want) {
		t.Fatalf("pixels\nhave %v\nwant %v", got, want)
	}
	// Materialization registered the texture with the bindless
	// pool.
	if respool.TextureIndex(tex) < 0 {
		t.Fatal("texture not registered in the static pool")
	}
	tex.Free()
}

func TestCachedLoadHitsFastPath(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	path := writeChecker(t, reg.Root())

	if _, err := importer.Import(reg, path); err != nil {
		t.Fatalf("Import: %v", err)
	}
	n := importer.ImportCount()

	tex, err := LoadTexture(reg, path, false)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width() != 2 || tex.Height() != 2 {
		t.Fatalf("size\nhave %dx%d\nwant 2x2", tex.Width(), tex.Height())
	}
	if importer.ImportCount() != n {
		t.Fatal("fast path invoked the importer")
	}

	// Loading by UUID hits the same record.
	md, _ := reg.LookupPath(path)
	tex2, err := LoadTexture(reg, md.UUID, false)
	if err != nil {
		t.Fatalf("LoadTexture by UUID: %v", err)
	}
	if tex2.Name() != path {
		t.Fatalf("Name\nhave %q\nwant %q", tex2.Name(), path)
	}
	tex.Free()
	tex2.Free()
}

func TestMissingWithoutImport(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	if _, err := Load(reg, "Textures/none.png", asset.Texture, false); !errors.Is(err, asset.ErrNotFound) {
		t.Fatalf("Load: %v\nwant asset.ErrNotFound", err)
	}
}

func TestWrongType(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	path := writeChecker(t, reg.Root())
	if _, err := importer.Import(reg, path); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if _, err := Load(reg, path, asset.Mesh, false); !errors.Is(err, asset.ErrWrongType) {
		t.Fatalf("Load: %v\nwant asset.ErrWrongType", err)
	}
}

func TestTamperedIntermediate(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	path := writeChecker(t, reg.Root())
	md, err := importer.Import(reg, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	// Flip one byte of the intermediate body.
	abs := reg.AbsIntermediatePath(md.UUID, asset.Texture)
	data, _ := os.ReadFile(abs)
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Without import permission the load surfaces corruption.
	if _, err := Load(reg, path, asset.Texture, false); !errors.Is(err, asset.ErrCorrupt) {
		t.Fatalf("Load: %v\nwant asset.ErrCorrupt", err)
	}

	// With permission, exactly one re-import repairs the cache.
	n := importer.ImportCount()
	tex, err := LoadTexture(reg, path, true)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if importer.ImportCount() != n+1 {
		t.Fatalf("imports during repair\nhave %d\nwant %d", importer.ImportCount()-n, 1)
	}

	// The rewritten intermediate matches the metadata again; a
	// further load does not import.
	if _, err := LoadTexture(reg, path, true); err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if importer.ImportCount() != n+1 {
		t.Fatal("valid intermediate re-imported")
	}
	tex.Free()
}

func TestStaleMetadataHash(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	path := writeChecker(t, reg.Root())
	md, _ := importer.Import(reg, path)

	// Record a hash that matches nothing.
	if err := reg.RecordIntermediateHash(md.UUID, 0x1234); err != nil {
		t.Fatalf("RecordIntermediateHash: %v", err)
	}
	if _, err := Load(reg, path, asset.Texture, false); !errors.Is(err, asset.ErrCorrupt) {
		t.Fatalf("Load: %v\nwant asset.ErrCorrupt", err)
	}
	if _, err := LoadTexture(reg, path, true); err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
}

func TestImportFallbackFailure(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	path := writeChecker(t, reg.Root())
	md, _ := importer.Import(reg, path)

	// Remove the source so re-import cannot succeed, then tamper
	// the metadata hash to force the fallback.
	os.Remove(filepath.Join(reg.Root(), filepath.FromSlash(path)))
	reg.RecordIntermediateHash(md.UUID, 0x1234)

	if _, err := Load(reg, path, asset.Texture, true); !errors.Is(err, asset.ErrImportFailed) {
		t.Fatalf("Load: %v\nwant asset.ErrImportFailed", err)
	}
}

func TestLoadShaderRoundTrip(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	words := []uint32{0x07230203, 0x00010000, 0x2a}
	raw := make([]byte, 4*len(words))
	for i, w := range words {
		raw[4*i] = byte(w)
		raw[4*i+1] = byte(w >> 8)
		raw[4*i+2] = byte(w >> 16)
		raw[4*i+3] = byte(w >> 24)
	}
	if err := os.WriteFile(filepath.Join(reg.Root(), "prebuilt.spv"), raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sh, err := LoadShader(reg, "prebuilt.spv", true)
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	sh2, err := LoadShader(reg, "prebuilt.spv", false)
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	// Loads of one asset are equivalent objects.
	if sh.Hash() != sh2.Hash() {
		t.Fatalf("hashes differ\nhave %#x/%#x", sh.Hash(), sh2.Hash())
	}
	for i := range words {
		if sh.VS()[i] != words[i] || sh2.VS()[i] != words[i] {
			t.Fatalf("VS[%d] differs", i)
		}
	}
}

const triOBJ = `o tri
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestLoadMesh(t *testing.T) {
	start(t)
	reg := openRegistry(t)
	if err := os.WriteFile(filepath.Join(reg.Root(), "tri.obj"), []byte(triOBJ), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := LoadMesh(reg, "tri.obj", true)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	subs := m.SubMeshes()
	if len(subs) != 1 || subs[0].VertexCount != 3 || subs[0].IndexCount != 3 {
		t.Fatalf("sub-meshes\nhave %#v", subs)
	}
	m.Free()
}
