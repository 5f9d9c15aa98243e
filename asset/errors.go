// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package asset

import "errors"

// The closed set of asset error kinds. Failures from the registry,
// codec, importers, loaders and pools wrap one of these; callers test
// with errors.Is.
var (
	// ErrNotFound means that metadata or a file is missing.
	ErrNotFound = errors.New("asset: not found")

	// ErrCorrupt means that a file failed to parse or that a
	// content hash did not match without permission to re-import.
	// Callers must not attempt automatic repair.
	ErrCorrupt = errors.New("asset: corrupt")

	// ErrUnsupportedFileType means that no importer handles the
	// file's type.
	ErrUnsupportedFileType = errors.New("asset: unsupported file type")

	// ErrWrongType means that the requested asset type does not
	// match the metadata's asset type.
	ErrWrongType = errors.New("asset: wrong type")

	// ErrImportFailed means that the cache was invalid and the
	// single import retry did not produce a valid intermediate.
	ErrImportFailed = errors.New("asset: cache miss and import failed")

	// ErrPoolFull means that a bindless pool has no empty slot.
	ErrPoolFull = errors.New("asset: resource pool full")

	// ErrMaterialBuild means that the shared-material factory could
	// not produce a pipeline for a shader.
	ErrMaterialBuild = errors.New("asset: material build failed")
)
