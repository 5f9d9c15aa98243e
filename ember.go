// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package ember implements the asset subsystem of a real-time
// rendering engine.
//
// Source artifacts on disk (images, meshes, shader source) are
// imported into hash-framed binary intermediates, loaded into
// GPU-resident objects through a staging upload path, and published
// into process-wide bindless resource pools whose indices are
// consumed by shader push constants.
//
// The sub-packages are layered as follows: driver defines the GPU
// abstraction, asset defines identity and metadata, asset/codec
// defines the intermediate file format, and the engine/* packages
// implement importing, loading, materialization, the bindless pools,
// the shared-material factory and the frame loop.
package ember
