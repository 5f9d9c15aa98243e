// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package importer implements the source-to-intermediate import
// pipeline.
//
// Import dispatches on the file type inferred from the path and
// drives the matching importer through four phases: Begin (settings
// defaulting), ProcessIntermediate (read source, transform, write
// the hash-framed intermediate), ProcessImport (record the new hash
// in metadata) and End (cleanup). A failed import never leaves a
// partial intermediate or a metadata record pointing at one.
//
// The package also owns the shared upload command pool used by GPU
// materialization. The pool is created at StartUp and destroyed from
// the pre-device-destroy event.
package importer

import (
	"fmt"
	"os"

	"github.com/embergfx/ember"
	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/internal/stage"
	"github.com/embergfx/ember/engine/loop"
	"github.com/embergfx/ember/engine/shader"
	"github.com/embergfx/ember/internal/event"
)

const prefix = "importer: "

var global struct {
	uploadPool driver.CmdPool
	devSub     event.Handle
	imports    uint64
}

// StartUp creates the shared upload command pool and registers its
// destruction on the pre-device-destroy event.
func StartUp() error {
	if global.uploadPool != nil {
		return nil
	}
	gpu := ctxt.GPU()
	if gpu == nil {
		return fmt.Errorf("%sno GPU device", prefix)
	}
	pool, err := gpu.NewCmdPool()
	if err != nil {
		return fmt.Errorf("%supload command pool: %w", prefix, err)
	}
	global.uploadPool = pool
	global.devSub = loop.Events.PreDeviceDestroyed.AddBind(func(driver.GPU) {
		destroyUploadPool()
	})
	ember.Logger().Info("upload command pool created")
	return nil
}

// ShutDown destroys the upload command pool if it still exists.
func ShutDown() {
	if global.devSub != 0 {
		loop.Events.PreDeviceDestroyed.RemoveBind(global.devSub)
		global.devSub = 0
	}
	destroyUploadPool()
}

func destroyUploadPool() {
	if global.uploadPool != nil {
		global.uploadPool.Destroy()
		global.uploadPool = nil
		stage.Free()
		ember.Logger().Info("upload command pool destroyed")
	}
}

// UploadPool returns the shared upload command pool.
func UploadPool() driver.CmdPool { return global.uploadPool }

// ImportCount returns the number of successful imports since
// process start. Diagnostic.
func ImportCount() uint64 { return global.imports }

// Importer is the phase interface a per-family importer implements.
type Importer interface {
	// Begin acquires or creates the ImportSetting of the matching
	// variant, populating defaults if absent.
	Begin(md *asset.Metadata)

	// ProcessIntermediate reads the source file, invokes the
	// decoder or translator, and writes the framed intermediate.
	// It returns the new content hash.
	ProcessIntermediate(reg *asset.Registry, md *asset.Metadata) (uint64, error)

	// ProcessImport records the new hash in the metadata and saves
	// it.
	ProcessImport(reg *asset.Registry, md *asset.Metadata, hash uint64) error

	// End finishes the import. On failure it removes partial files
	// and restores metadata consistency.
	End(reg *asset.Registry, md *asset.Metadata, success bool)
}

// forType returns a fresh importer for the given asset type.
func forType(t asset.Type) Importer {
	switch t {
	case asset.Texture:
		return &textureImporter{}
	case asset.Mesh:
		return &meshImporter{}
	case asset.Shader:
		return &shaderImporter{}
	}
	panic("undefined asset type")
}

// Import imports the source file at the given project-relative path,
// creating metadata if none exists. Unknown or unsupported file
// types fail with asset.ErrUnsupportedFileType and no side effects.
func Import(reg *asset.Registry, path string) (*asset.Metadata, error) {
	if path == "" {
		return nil, fmt.Errorf("%sempty path: %w", prefix, asset.ErrUnsupportedFileType)
	}
	ft := asset.InferFileType(path)
	if ft == asset.Unknown {
		return nil, fmt.Errorf("%s%q: %w", prefix, path, asset.ErrUnsupportedFileType)
	}
	typ, ok := ft.AssetType()
	switch typ {
	case asset.Mesh:
		_, ok = meshSources[ft]
	case asset.Shader:
		_, ok = shader.TranslatorFor(ft)
	}
	if !ok {
		return nil, fmt.Errorf("%s%q: %w", prefix, path, asset.ErrUnsupportedFileType)
	}
	var md *asset.Metadata
	var err error
	if reg.Exists(path) {
		md, err = reg.LookupPath(path)
	} else {
		md, err = reg.Create(path, ft)
	}
	if err != nil {
		return nil, err
	}
	if err := ImportMetadata(reg, md); err != nil {
		return nil, err
	}
	return md, nil
}

// ImportMetadata runs the import phases against existing metadata.
func ImportMetadata(reg *asset.Registry, md *asset.Metadata) error {
	imp := forType(md.Type)
	imp.Begin(md)
	hash, err := imp.ProcessIntermediate(reg, md)
	if err != nil {
		imp.End(reg, md, false)
		ember.Logger().Error("import failed", "path", md.Path, "uuid", md.UUID, "err", err)
		return err
	}
	if err := imp.ProcessImport(reg, md, hash); err != nil {
		imp.End(reg, md, false)
		ember.Logger().Error("import failed", "path", md.Path, "uuid", md.UUID, "err", err)
		return err
	}
	imp.End(reg, md, true)
	global.imports++
	ember.Logger().Info("imported", "path", md.Path, "uuid", md.UUID, "hash", hash)
	return nil
}

// base carries the per-run state shared by the importer
// implementations.
type base struct {
	// Intermediate written during this run, removed by End on
	// failure.
	wrote bool
	abs   string
}

func (b *base) ProcessImport(reg *asset.Registry, md *asset.Metadata, hash uint64) error {
	md.IntermediateHash = hash
	return reg.Save(md)
}

func (b *base) End(reg *asset.Registry, md *asset.Metadata, success bool) {
	if success || !b.wrote {
		return
	}
	// The freshly written intermediate does not match the recorded
	// hash; drop both so the metadata stays consistent.
	os.Remove(b.abs)
	if md.IntermediateHash != 0 {
		md.IntermediateHash = 0
		if err := reg.Save(md); err != nil {
			ember.Logger().Error("failed to reset intermediate hash", "path", md.Path, "err", err)
		}
	}
}
