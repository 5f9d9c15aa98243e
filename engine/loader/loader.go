// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package loader implements the cache-or-import load policy.
//
// Load maps a stable identity (path, UUID or metadata record) to a
// GPU-resident object. The fast path validates the intermediate's
// leading content hash against the metadata and materializes it; on
// any validation failure with import permission, the importer is
// invoked and the fast path re-entered exactly once.
package loader

import (
	"errors"
	"fmt"

	"github.com/embergfx/ember"
	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/engine/importer"
	"github.com/embergfx/ember/engine/mesh"
	"github.com/embergfx/ember/engine/respool"
	"github.com/embergfx/ember/engine/shader"
	"github.com/embergfx/ember/engine/texture"
)

const prefix = "loader: "

// Object is a loaded asset object: *texture.Texture, *mesh.Mesh or
// *shader.Shader. Its stable name is the asset path.
type Object interface {
	Name() string
}

// Load loads the asset identified by key, which is an asset path
// (string), an asset.ID, or a *asset.Metadata record.
//
// The requested type must match the metadata's type (ErrWrongType
// otherwise). With importIfMissing false, a missing or invalid
// intermediate surfaces ErrNotFound or ErrCorrupt; with
// importIfMissing true the asset is (re)imported and the load
// retried once before failing with ErrImportFailed.
func Load(reg *asset.Registry, key any, typ asset.Type, importIfMissing bool) (Object, error) {
	md, err := resolve(reg, key, importIfMissing)
	if err != nil {
		return nil, err
	}
	if md.Type != typ {
		return nil, fmt.Errorf("%s%s: is %s, requested %s: %w",
			prefix, md.Path, md.Type, typ, asset.ErrWrongType)
	}
	path := reg.AbsIntermediatePath(md.UUID, md.Type)
	for attempt := 0; ; attempt++ {
		obj, err := loadValidated(path, md)
		if err == nil {
			return obj, nil
		}
		if !importIfMissing {
			return nil, err
		}
		if attempt == 1 {
			return nil, fmt.Errorf("%s%s: %s: %w", prefix, md.Path, err, asset.ErrImportFailed)
		}
		if ierr := importer.ImportMetadata(reg, md); ierr != nil {
			return nil, fmt.Errorf("%s%s: %s: %w", prefix, md.Path, ierr, asset.ErrImportFailed)
		}
	}
}

// resolve turns a load key into metadata. A path key with import
// permission creates metadata and intermediate through the importer
// when none exists.
func resolve(reg *asset.Registry, key any, importIfMissing bool) (*asset.Metadata, error) {
	switch k := key.(type) {
	case *asset.Metadata:
		return k, nil
	case asset.ID:
		return reg.LookupID(k)
	case string:
		md, err := reg.LookupPath(k)
		if err != nil && errors.Is(err, asset.ErrNotFound) && importIfMissing {
			return importer.Import(reg, k)
		}
		return md, err
	}
	return nil, fmt.Errorf("%sinvalid key type %T", prefix, key)
}

// loadValidated runs the hash-validated fast path: compare the
// intermediate's leading hash to the metadata, deserialize the body
// and materialize it.
func loadValidated(path string, md *asset.Metadata) (Object, error) {
	stored, err := codec.PeekHash(path)
	if err != nil {
		return nil, err
	}
	if stored == 0 || md.IntermediateHash == 0 || stored != md.IntermediateHash {
		ember.Logger().Info("intermediate hash mismatch",
			"path", md.Path, "uuid", md.UUID,
			"expected", md.IntermediateHash, "actual", stored)
		return nil, fmt.Errorf("%s%s: hash mismatch (expected %#x, got %#x): %w",
			prefix, md.Path, md.IntermediateHash, stored, asset.ErrCorrupt)
	}
	check := func(computed uint64) error {
		if computed == stored {
			return nil
		}
		ember.Logger().Info("intermediate content hash mismatch",
			"path", md.Path, "uuid", md.UUID,
			"expected", stored, "actual", computed)
		return fmt.Errorf("%s%s: body hash %#x does not cover frame hash %#x: %w",
			prefix, md.Path, computed, stored, asset.ErrCorrupt)
	}
	switch md.Type {
	case asset.Texture:
		var body codec.TextureBody
		_, computed, err := codec.ReadFile(path, &body)
		if err != nil {
			return nil, err
		}
		if err := check(computed); err != nil {
			return nil, err
		}
		t, err := texture.FromIntermediate(&body, md.Path, importer.UploadPool())
		if err != nil {
			return nil, err
		}
		// A full pool is logged and the texture still returned,
		// just without a bindless index.
		if err := respool.AddTexture(t); err != nil {
			ember.Logger().Error("bindless registration failed", "path", md.Path, "err", err)
		}
		return t, nil
	case asset.Mesh:
		var body codec.MeshBody
		_, computed, err := codec.ReadFile(path, &body)
		if err != nil {
			return nil, err
		}
		if err := check(computed); err != nil {
			return nil, err
		}
		return mesh.FromIntermediate(&body, md.Path, importer.UploadPool())
	case asset.Shader:
		var body codec.ShaderBody
		_, computed, err := codec.ReadFile(path, &body)
		if err != nil {
			return nil, err
		}
		if err := check(computed); err != nil {
			return nil, err
		}
		return shader.New(md.Path, &body)
	}
	panic("undefined asset type")
}

// LoadTexture loads a texture asset.
func LoadTexture(reg *asset.Registry, key any, importIfMissing bool) (*texture.Texture, error) {
	obj, err := Load(reg, key, asset.Texture, importIfMissing)
	if err != nil {
		return nil, err
	}
	return obj.(*texture.Texture), nil
}

// LoadMesh loads a mesh asset.
func LoadMesh(reg *asset.Registry, key any, importIfMissing bool) (*mesh.Mesh, error) {
	obj, err := Load(reg, key, asset.Mesh, importIfMissing)
	if err != nil {
		return nil, err
	}
	return obj.(*mesh.Mesh), nil
}

// LoadShader loads a shader asset.
func LoadShader(reg *asset.Registry, key any, importIfMissing bool) (*shader.Shader, error) {
	obj, err := Load(reg, key, asset.Shader, importIfMissing)
	if err != nil {
		return nil, err
	}
	return obj.(*shader.Shader), nil
}
