// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package codec

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/embergfx/ember/asset"
)

func textureFixture() *TextureBody {
	return &TextureBody{
		Width:  2,
		Height: 2,
		Format: 4,
		Data:   []byte{0xff, 0x00, 0xff, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0xff, 0x00, 0xff, 0xff},
	}
}

func meshFixture() *MeshBody {
	return &MeshBody{
		Subs: []SubMesh{
			{
				Vertices: []VertexPNU{
					{Pos: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{0, 0}},
					{Pos: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{1, 0}},
					{Pos: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}, UV: [2]float32{0, 1}},
				},
				Indices: []uint32{0, 1, 2},
			},
			{
				Vertices: []VertexPNU{
					{Pos: [3]float32{0, 0, 1}},
					{Pos: [3]float32{1, 0, 1}},
					{Pos: [3]float32{0, 1, 1}},
				},
				Indices: []uint32{2, 1, 0},
			},
		},
	}
}

func shaderFixture() *ShaderBody {
	return &ShaderBody{
		Sheet: ParameterSheet{
			NeedsCamera:       true,
			NeedsResourcePool: true,
			PushConstants: []PushConstant{
				{Name: "ModelID", Offset: 0, Size: 4},
				{Name: "MainTextureID", Offset: 4, Size: 4},
				{Name: "MainSamplerStateID", Offset: 8, Size: 4},
			},
		},
		VS: []uint32{0x07230203, 0x00010000, 1, 2, 3},
		FS: []uint32{0x07230203, 0x00010000, 4, 5},
	}
}

func TestFraming(t *testing.T) {
	frame, hash := Marshal(textureFixture())
	if len(frame) < 8 {
		t.Fatalf("Marshal: frame of %d bytes", len(frame))
	}
	if stored := binary.LittleEndian.Uint64(frame); stored != hash {
		t.Fatalf("leading hash\nhave %#x\nwant %#x", stored, hash)
	}
	if sum := xxhash.Sum64(frame[8:]); sum != hash {
		t.Fatalf("hash does not cover body\nhave %#x\nwant %#x", sum, hash)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   Body
		out  Body
	}{
		{"texture", textureFixture(), &TextureBody{}},
		{"mesh", meshFixture(), &MeshBody{}},
		{"shader", shaderFixture(), &ShaderBody{}},
	} {
		frame, hash := Marshal(tc.in)
		stored, computed, err := Unmarshal(frame, tc.out)
		if err != nil {
			t.Fatalf("%s: Unmarshal: %v", tc.name, err)
		}
		if stored != hash || computed != hash {
			t.Fatalf("%s: hashes\nhave %#x/%#x\nwant %#x", tc.name, stored, computed, hash)
		}
		if !reflect.DeepEqual(tc.in, tc.out) {
			t.Fatalf("%s: round trip\nhave %#v\nwant %#v", tc.name, tc.out, tc.in)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "mesh.bin")
	in := meshFixture()
	hash, err := WriteFile(path, in)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if peek, err := PeekHash(path); err != nil || peek != hash {
		t.Fatalf("PeekHash\nhave %#x, %v\nwant %#x, nil", peek, err, hash)
	}
	var out MeshBody
	stored, computed, err := ReadFile(path, &out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if stored != hash || computed != hash {
		t.Fatalf("ReadFile: hashes\nhave %#x/%#x\nwant %#x", stored, computed, hash)
	}
	if !reflect.DeepEqual(in, &out) {
		t.Fatalf("file round trip\nhave %#v\nwant %#v", &out, in)
	}
}

func TestTamperedBody(t *testing.T) {
	frame, hash := Marshal(textureFixture())
	frame[len(frame)-1] ^= 0xff
	var out TextureBody
	stored, computed, err := Unmarshal(frame, &out)
	if err != nil {
		// A body flip may also break parsing; that is fine as
		// long as it is reported as corrupt.
		if !errors.Is(err, asset.ErrCorrupt) {
			t.Fatalf("Unmarshal: %v\nwant asset.ErrCorrupt", err)
		}
		return
	}
	if stored != hash {
		t.Fatalf("stored hash changed\nhave %#x\nwant %#x", stored, hash)
	}
	if computed == hash {
		t.Fatal("computed hash unchanged after tampering")
	}
}

func TestTruncated(t *testing.T) {
	frame, _ := Marshal(shaderFixture())
	for _, n := range []int{0, 4, 8, len(frame) / 2, len(frame) - 1} {
		var out ShaderBody
		_, _, err := Unmarshal(frame[:n], &out)
		if !errors.Is(err, asset.ErrCorrupt) {
			t.Fatalf("Unmarshal of %d bytes: %v\nwant asset.ErrCorrupt", n, err)
		}
	}
}

func TestPeekHashMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := PeekHash(filepath.Join(dir, "nope.bin")); !errors.Is(err, asset.ErrNotFound) {
		t.Fatalf("PeekHash on missing file: %v\nwant asset.ErrNotFound", err)
	}
	empty := filepath.Join(dir, "empty.bin")
	os.WriteFile(empty, nil, 0o644)
	if _, err := PeekHash(empty); !errors.Is(err, asset.ErrNotFound) {
		t.Fatalf("PeekHash on empty file: %v\nwant asset.ErrNotFound", err)
	}
	short := filepath.Join(dir, "short.bin")
	os.WriteFile(short, []byte{1, 2, 3}, 0o644)
	if _, err := PeekHash(short); !errors.Is(err, asset.ErrCorrupt) {
		t.Fatalf("PeekHash on short file: %v\nwant asset.ErrCorrupt", err)
	}
}
