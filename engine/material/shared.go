// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package material

import (
	"fmt"
	"sort"

	"github.com/embergfx/ember/asset"
	"github.com/embergfx/ember/asset/codec"
	"github.com/embergfx/ember/driver"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/shader"
)

// SharedMaterial is the interned pipeline/pipeline-layout pair
// derived from a shader. Every material instance backed by the same
// shader shares one SharedMaterial.
type SharedMaterial struct {
	pipeline   driver.Pipeline
	layout     driver.PipelineLayout
	layoutHash uint64
}

// Pipeline returns the graphics pipeline.
func (m *SharedMaterial) Pipeline() driver.Pipeline { return m.pipeline }

// Layout returns the pipeline layout.
func (m *SharedMaterial) Layout() driver.PipelineLayout { return m.layout }

// LayoutHash returns the structural hash of the pipeline layout.
func (m *SharedMaterial) LayoutHash() uint64 { return m.layoutHash }

func buildErr(name string, err error) error {
	return fmt.Errorf("%s%s: %s: %w", prefix, name, err, asset.ErrMaterialBuild)
}

// Request returns the shared material for s, building it on the
// first request for the shader's hash.
// No partially built state is exposed: every failure destroys what
// was created and reports asset.ErrMaterialBuild with a diagnostic.
func Request(s *shader.Shader) (*SharedMaterial, error) {
	if m, ok := pool.materials[s.Hash()]; ok {
		// Each returned reference holds one pipeline layout ref.
		if e, ok := pool.pipeLayouts[m.layoutHash]; ok {
			e.refs++
		}
		return m, nil
	}

	vs, fs, err := s.Compile()
	if err != nil {
		return nil, buildErr(s.Name(), err)
	}
	defer vs.Destroy()
	defer fs.Destroy()

	sheet := s.Sheet()
	var sets []driver.DescLayout
	var setHashes []uint64
	releaseSets := func() {
		for _, h := range setHashes {
			ReleaseDescLayout(h)
		}
	}
	for _, c := range []struct {
		need bool
		kind CommonKind
	}{
		{sheet.NeedsCamera, Camera},
		{sheet.NeedsModel, Model},
		{sheet.NeedsResourcePool, StaticResource},
	} {
		if !c.need {
			continue
		}
		l, h, err := RequestCommonLayout(c.kind)
		if err != nil {
			releaseSets()
			return nil, buildErr(s.Name(), err)
		}
		sets = append(sets, l)
		setHashes = append(setHashes, h)
	}

	ranges := pushRange(sheet.PushConstants)

	pl, plHash, err := RequestPipelineLayout(setHashes, sets, ranges)
	if err != nil {
		releaseSets()
		return nil, buildErr(s.Name(), err)
	}

	state := driver.GraphState{
		VertFunc: vs,
		FragFunc: fs,
		Layout:   pl,
		Input: driver.VertexInput{
			Stride: codec.VertexStride,
			Attrs: []driver.VertexAttr{
				{Format: driver.Float32x3, Offset: 0, Nr: 0},
				{Format: driver.Float32x3, Offset: 12, Nr: 1},
				{Format: driver.Float32x2, Offset: 24, Nr: 2},
			},
		},
		Topology: driver.TTriangle,
		Raster: driver.RasterState{
			Clockwise: false,
			Cull:      driver.CBack,
		},
		Samples: 1,
		DS: driver.DSState{
			DepthTest:  true,
			DepthWrite: true,
			DepthCmp:   driver.CLess,
		},
		Blend: driver.ColorBlend{
			Blend:     false,
			WriteMask: driver.CAll,
		},
		ColorFmt: driver.RGBA8sRGB,
		DepthFmt: driver.D32f,
	}
	pipe, err := ctxt.GPU().NewPipeline(&state)
	if err != nil {
		ReleasePipelineLayout(plHash)
		releaseSets()
		return nil, buildErr(s.Name(), err)
	}

	m := &SharedMaterial{pipeline: pipe, layout: pl, layoutHash: plHash}
	pool.materials[s.Hash()] = m
	return m, nil
}

// pushRange collapses the sheet's push-constant items into the
// single range of the pipeline layout. Items are sorted by offset
// before the min/max computation.
func pushRange(items []codec.PushConstant) []driver.PushRange {
	if len(items) == 0 {
		return nil
	}
	sorted := append([]codec.PushConstant(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	min := sorted[0].Offset
	end := min + sorted[0].Size
	for _, it := range sorted[1:] {
		if e := it.Offset + it.Size; e > end {
			end = e
		}
	}
	size := (end - min + 3) &^ 3
	return []driver.PushRange{
		{
			Off:    int(min),
			Size:   int(size),
			Stages: driver.SVertex | driver.SFragment,
		},
	}
}
