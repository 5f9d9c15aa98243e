// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package material

import (
	"sync"
	"testing"

	"github.com/embergfx/ember/asset/codec"
	_ "github.com/embergfx/ember/driver/null"
	"github.com/embergfx/ember/engine/internal/ctxt"
	"github.com/embergfx/ember/engine/shader"
)

var startOnce sync.Once

func start(t *testing.T) {
	t.Helper()
	startOnce.Do(func() {
		if err := ctxt.Init("null"); err != nil {
			t.Fatalf("ctxt.Init: %v", err)
		}
		if err := StartUp(); err != nil {
			t.Fatalf("StartUp: %v", err)
		}
	})
}

func shaderBody() *codec.ShaderBody {
	return &codec.ShaderBody{
		Sheet: codec.ParameterSheet{
			NeedsCamera:       true,
			NeedsModel:        true,
			NeedsResourcePool: true,
			PushConstants: []codec.PushConstant{
				// Deliberately unsorted.
				{Name: "MainSamplerStateID", Offset: 8, Size: 4},
				{Name: "ModelID", Offset: 0, Size: 4},
				{Name: "MainTextureID", Offset: 4, Size: 4},
			},
		},
		VS: []uint32{0x07230203, 1, 2, 3},
		FS: []uint32{0x07230203, 4, 5, 6},
	}
}

func TestStructuralSharing(t *testing.T) {
	start(t)
	s1, err := shader.New("Shaders/a.wgsl", shaderBody())
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}
	s2, err := shader.New("Shaders/b.wgsl", shaderBody())
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}
	if s1.Hash() != s2.Hash() {
		t.Fatal("identical shaders hash differently")
	}

	m1, err := Request(s1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	m2, err := Request(s2)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if m1 != m2 {
		t.Fatal("byte-identical shaders yielded distinct shared materials")
	}
	if m1.Pipeline() == nil || m1.Layout() == nil {
		t.Fatal("incomplete shared material")
	}
	if refs := PipelineLayoutRefs(m1.LayoutHash()); refs != 2 {
		t.Fatalf("pipeline layout refs\nhave %d\nwant 2", refs)
	}
}

func TestDistinctShadersDistinctMaterials(t *testing.T) {
	start(t)
	b := shaderBody()
	b.FS[3] = 99
	s1, _ := shader.New("x", shaderBody())
	s2, _ := shader.New("y", b)
	m1, err := Request(s1)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	m2, err := Request(s2)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if m1 == m2 {
		t.Fatal("distinct shaders share one material")
	}
	// Identical layouts are still interned across materials.
	if m1.Layout() != m2.Layout() {
		t.Fatal("identical pipeline layouts not shared")
	}
}

func TestPushRange(t *testing.T) {
	for _, tc := range []struct {
		items    []codec.PushConstant
		off, sz  int
		expectNo bool
	}{
		{items: nil, expectNo: true},
		{
			items: []codec.PushConstant{{Offset: 0, Size: 4}},
			off:   0, sz: 4,
		},
		{
			// Unsorted items; range covers [4, 16).
			items: []codec.PushConstant{
				{Offset: 12, Size: 4},
				{Offset: 4, Size: 4},
				{Offset: 8, Size: 4},
			},
			off: 4, sz: 12,
		},
		{
			// Size is rounded up to 4 bytes.
			items: []codec.PushConstant{
				{Offset: 0, Size: 4},
				{Offset: 4, Size: 2},
			},
			off: 0, sz: 8,
		},
	} {
		r := pushRange(tc.items)
		if tc.expectNo {
			if r != nil {
				t.Fatalf("pushRange(%v)\nhave %v\nwant nil", tc.items, r)
			}
			continue
		}
		if len(r) != 1 || r[0].Off != tc.off || r[0].Size != tc.sz {
			t.Fatalf("pushRange(%v)\nhave %v\nwant off %d size %d", tc.items, r, tc.off, tc.sz)
		}
	}
}

func TestCommonLayoutsInterned(t *testing.T) {
	start(t)
	l1, h1, err := RequestCommonLayout(Camera)
	if err != nil {
		t.Fatalf("RequestCommonLayout: %v", err)
	}
	l2, h2, err := RequestCommonLayout(Camera)
	if err != nil {
		t.Fatalf("RequestCommonLayout: %v", err)
	}
	if l1 != l2 || h1 != h2 {
		t.Fatal("common layout not interned")
	}

	set1, err := RequestCommonSet(StaticResource)
	if err != nil {
		t.Fatalf("RequestCommonSet: %v", err)
	}
	set2, err := RequestCommonSet(StaticResource)
	if err != nil {
		t.Fatalf("RequestCommonSet: %v", err)
	}
	if set1 != set2 {
		t.Fatal("static resource set not unique")
	}
	if _, err := RequestCommonSet(Model); err == nil {
		t.Fatal("RequestCommonSet(Model): unexpected success")
	}
}

func TestSheetWithoutCommonSets(t *testing.T) {
	start(t)
	// A shader that declares no sentinel globals gets a pipeline
	// layout with no descriptor sets.
	b := &codec.ShaderBody{
		VS: []uint32{0x07230203, 7},
		FS: []uint32{0x07230203, 8},
	}
	s, err := shader.New("bare", b)
	if err != nil {
		t.Fatalf("shader.New: %v", err)
	}
	m, err := Request(s)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if m.Pipeline() == nil {
		t.Fatal("nil pipeline")
	}
}
