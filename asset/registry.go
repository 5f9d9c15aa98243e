// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/embergfx/ember"
	"github.com/embergfx/ember/internal/fsutil"
	"github.com/embergfx/ember/internal/lru"
)

const prefix = "asset: "

// metaCacheCap bounds the registry's metadata cache.
const metaCacheCap = 512

// metaDir is the metadata directory under the project root.
const metaDir = "Metadata"

// Intermediate directories under the project root, per family.
const (
	texIntermediateDir  = "Intermediate/Textures"
	meshIntermediateDir = "Intermediate/Meshes"
	shdIntermediateDir  = "Intermediate/Shaders"
)

// Registry is the identity and metadata store of a project.
//
// It maintains two mutually inverse mappings (path to UUID, UUID to
// path) and a bounded LRU of recently accessed metadata records.
// A Registry is single-owner: all methods must be called from the
// main thread.
type Registry struct {
	root     string
	pathToID map[string]ID
	idToPath map[ID]string
	cache    *lru.Cache[ID, *Metadata]
}

// Open opens the registry rooted at the given project directory,
// rebuilding the identity mappings by scanning the metadata
// directory.
func Open(root string) (*Registry, error) {
	r := &Registry{
		root:     root,
		pathToID: make(map[string]ID),
		idToPath: make(map[ID]string),
		cache:    lru.New[ID, *Metadata](metaCacheCap),
	}
	dir := filepath.Join(root, metaDir)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".meta") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		md, err := unmarshalMetadata(data)
		if err != nil {
			ember.Logger().Warn("skipping unreadable metadata", "file", p, "err", err)
			return nil
		}
		r.pathToID[md.Path] = md.UUID
		r.idToPath[md.UUID] = md.Path
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%sscan: %w", prefix, err)
	}
	return r, nil
}

// Root returns the project root directory.
func (r *Registry) Root() string { return r.root }

// Exists reports whether metadata exists for the given asset path.
func (r *Registry) Exists(path string) bool {
	_, ok := r.pathToID[path]
	return ok
}

// LookupPath returns the metadata of the asset at the given path.
// It fails with ErrNotFound if no such asset is known.
func (r *Registry) LookupPath(path string) (*Metadata, error) {
	id, ok := r.pathToID[path]
	if !ok {
		return nil, fmt.Errorf("%s%q: %w", prefix, path, ErrNotFound)
	}
	return r.LookupID(id)
}

// LookupID returns the metadata of the asset with the given ID.
// It fails with ErrNotFound if no such asset is known and with
// ErrCorrupt if the metadata file cannot be parsed.
func (r *Registry) LookupID(id ID) (*Metadata, error) {
	if md, ok := r.cache.Get(id); ok {
		return md, nil
	}
	data, err := os.ReadFile(r.metaPath(id))
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", prefix, id, ErrNotFound)
	}
	md, err := unmarshalMetadata(data)
	if err != nil {
		return nil, err
	}
	r.pathToID[md.Path] = md.UUID
	r.idToPath[md.UUID] = md.Path
	r.cache.Put(id, md)
	return md, nil
}

// Create creates metadata for a new asset at the given path, with a
// fresh UUID and the default import setting of the file type's
// family. It fails with ErrUnsupportedFileType if the file type does
// not map to an asset type.
func (r *Registry) Create(path string, ft FileType) (*Metadata, error) {
	if id, ok := r.pathToID[path]; ok {
		return nil, fmt.Errorf("%s%q already registered as %s", prefix, path, id)
	}
	typ, ok := ft.AssetType()
	if !ok {
		return nil, fmt.Errorf("%s%q: %w", prefix, path, ErrUnsupportedFileType)
	}
	md := &Metadata{
		UUID:     NewID(),
		Path:     path,
		Type:     typ,
		FileType: ft,
		Setting:  DefaultSetting(typ),
	}
	if err := r.Save(md); err != nil {
		return nil, err
	}
	return md, nil
}

// Save writes md to disk atomically and refreshes the identity
// mappings and the cache.
func (r *Registry) Save(md *Metadata) error {
	data, err := marshalMetadata(md)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(r.metaPath(md.UUID), data); err != nil {
		return fmt.Errorf("%ssave %s: %w", prefix, md.UUID, err)
	}
	if old, ok := r.idToPath[md.UUID]; ok && old != md.Path {
		delete(r.pathToID, old)
	}
	r.pathToID[md.Path] = md.UUID
	r.idToPath[md.UUID] = md.Path
	r.cache.Put(md.UUID, md)
	return nil
}

// RecordIntermediateHash stores hash as the intermediate hash of the
// asset with the given ID and saves the metadata.
func (r *Registry) RecordIntermediateHash(id ID, hash uint64) error {
	md, err := r.LookupID(id)
	if err != nil {
		return err
	}
	md.IntermediateHash = hash
	return r.Save(md)
}

// Remove deletes the asset's metadata record.
func (r *Registry) Remove(id ID) error {
	path, ok := r.idToPath[id]
	if !ok {
		return fmt.Errorf("%s%s: %w", prefix, id, ErrNotFound)
	}
	if err := os.Remove(r.metaPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	delete(r.idToPath, id)
	delete(r.pathToID, path)
	r.cache.Remove(id)
	return nil
}

func (r *Registry) metaPath(id ID) string {
	return filepath.Join(r.root, metaDir, id.String()+".meta")
}

// IntermediatePath returns the project-relative path of the
// intermediate file for an asset of the given type.
func IntermediatePath(id ID, t Type) string {
	var dir string
	switch t {
	case Texture:
		dir = texIntermediateDir
	case Mesh:
		dir = meshIntermediateDir
	case Shader:
		dir = shdIntermediateDir
	default:
		panic("undefined asset type")
	}
	return dir + "/" + id.String() + ".bin"
}

// AbsIntermediatePath returns the absolute intermediate path of an
// asset under this registry's project root.
func (r *Registry) AbsIntermediatePath(id ID, t Type) string {
	return filepath.Join(r.root, filepath.FromSlash(IntermediatePath(id, t)))
}

// AbsSourcePath returns the absolute path of an asset's source file
// under this registry's project root.
func (r *Registry) AbsSourcePath(path string) string {
	return filepath.Join(r.root, filepath.FromSlash(path))
}
