// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Mesh import: source geometry to VertexPNU sub-meshes.

package importer

import (
	"fmt"
	"io"
	"os"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
)

// MeshSource is the geometry reading collaborator of the mesh
// importer. Implementations honor the transform flags of the
// setting where they apply.
type MeshSource interface {
	Read(r io.Reader, setting *asset.MeshSetting) ([]codec.SubMesh, error)
}

var meshSources = map[asset.FileType]MeshSource{}

// RegisterMeshSource registers src as the reader for file type ft,
// replacing any previous registration. OBJ, glTF and GLB readers are
// built in; hosts with other toolchains (FBX, DAE, ...) install
// theirs here.
func RegisterMeshSource(ft asset.FileType, src MeshSource) {
	meshSources[ft] = src
}

func init() {
	RegisterMeshSource(asset.OBJ, objSource{})
	RegisterMeshSource(asset.GLTF, gltfSource{})
	RegisterMeshSource(asset.GLB, gltfSource{glb: true})
}

type meshImporter struct {
	base
}

func (mi *meshImporter) Begin(md *asset.Metadata) {
	if _, ok := md.Setting.(*asset.MeshSetting); !ok {
		md.Setting = asset.DefaultMeshSetting()
	}
}

func (mi *meshImporter) ProcessIntermediate(reg *asset.Registry, md *asset.Metadata) (uint64, error) {
	src, ok := meshSources[md.FileType]
	if !ok {
		return 0, fmt.Errorf("%sno mesh source for %q: %w", prefix, md.FileType, asset.ErrUnsupportedFileType)
	}
	f, err := os.Open(reg.AbsSourcePath(md.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, asset.ErrNotFound)
		}
		return 0, fmt.Errorf("%s%s: %w", prefix, md.Path, err)
	}
	defer f.Close()

	subs, err := src.Read(f, md.Setting.(*asset.MeshSetting))
	if err != nil {
		return 0, fmt.Errorf("%sread %s: %s: %w", prefix, md.Path, err, asset.ErrCorrupt)
	}
	if len(subs) == 0 {
		return 0, fmt.Errorf("%s%s: no geometry: %w", prefix, md.Path, asset.ErrCorrupt)
	}

	body := codec.MeshBody{Subs: subs}
	abs := reg.AbsIntermediatePath(md.UUID, asset.Mesh)
	hash, err := codec.WriteFile(abs, &body)
	if err != nil {
		return 0, err
	}
	mi.wrote, mi.abs = true, abs
	return hash, nil
}
