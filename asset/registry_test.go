// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package asset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/embergfx/ember/driver"
)

func TestInferFileType(t *testing.T) {
	for _, tc := range []struct {
		path string
		want FileType
	}{
		{"Textures/checker.png", PNG},
		{"a/b/photo.JPG", JPG},
		{"mesh.obj", OBJ},
		{"scene.glb", GLB},
		{"shading.wgsl", WGSL},
		{"prebuilt.spv", SPIRV},
		{"prebuilt.spirv", SPIRV},
		{"foo.xyz", Unknown},
		{"noext", Unknown},
		{"", Unknown},
	} {
		if ft := InferFileType(tc.path); ft != tc.want {
			t.Fatalf("InferFileType(%q)\nhave %v\nwant %v", tc.path, ft, tc.want)
		}
	}
}

func TestFileTypeFamilies(t *testing.T) {
	for ft, name := range fileTypeNames {
		typ, ok := ft.AssetType()
		if !ok {
			t.Fatalf("%s: no asset type", name)
		}
		switch typ {
		case Texture, Mesh, Shader:
		default:
			t.Fatalf("%s: asset type %v", name, typ)
		}
	}
	if _, ok := Unknown.AssetType(); ok {
		t.Fatal("Unknown: unexpected asset type")
	}
}

func TestCreateLookup(t *testing.T) {
	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	md, err := reg.Create("Textures/checker.png", PNG)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if md.UUID == (ID{}) {
		t.Fatal("Create: nil UUID")
	}
	if md.Type != Texture || md.FileType != PNG {
		t.Fatalf("Create: type/fileType\nhave %v/%v\nwant Texture/PNG", md.Type, md.FileType)
	}
	if s, ok := md.Setting.(*TextureSetting); !ok || s.Format != driver.BGRA8sRGB {
		t.Fatalf("Create: setting %#v", md.Setting)
	}

	byPath, err := reg.LookupPath("Textures/checker.png")
	if err != nil {
		t.Fatalf("LookupPath: %v", err)
	}
	byID, err := reg.LookupID(md.UUID)
	if err != nil {
		t.Fatalf("LookupID: %v", err)
	}
	if byPath.UUID != md.UUID || byID.Path != md.Path {
		t.Fatal("path/uuid mappings are not mutual inverses")
	}

	if _, err := reg.LookupPath("missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LookupPath on missing: %v\nwant ErrNotFound", err)
	}
	if _, err := reg.Create("Textures/checker.png", PNG); err == nil {
		t.Fatal("Create on taken path: unexpected success")
	}
	if _, err := reg.Create("notes.txt", Unknown); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("Create with Unknown: %v\nwant ErrUnsupportedFileType", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	reg, _ := Open(root)
	md, err := reg.Create("Meshes/cube.obj", OBJ)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	md.IntermediateHash = 0xdeadbeefcafe
	md.Setting.(*MeshSetting).Flags = MTriangulate | MFlipUVs
	if err := reg.Save(md); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh registry must observe the same record from disk.
	reg2, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := reg2.LookupID(md.UUID)
	if err != nil {
		t.Fatalf("LookupID: %v", err)
	}
	if got.Path != md.Path || got.Type != Mesh || got.FileType != OBJ {
		t.Fatalf("round trip\nhave %v %v %q\nwant Mesh OBJ %q", got.Type, got.FileType, got.Path, md.Path)
	}
	if got.IntermediateHash != md.IntermediateHash {
		t.Fatalf("IntermediateHash\nhave %#x\nwant %#x", got.IntermediateHash, md.IntermediateHash)
	}
	if s, ok := got.Setting.(*MeshSetting); !ok || s.Flags != MTriangulate|MFlipUVs {
		t.Fatalf("setting\nhave %#v", got.Setting)
	}
}

func TestRecordIntermediateHash(t *testing.T) {
	reg, _ := Open(t.TempDir())
	md, _ := reg.Create("s.wgsl", WGSL)
	if err := reg.RecordIntermediateHash(md.UUID, 42); err != nil {
		t.Fatalf("RecordIntermediateHash: %v", err)
	}
	got, _ := reg.LookupID(md.UUID)
	if got.IntermediateHash != 42 {
		t.Fatalf("IntermediateHash\nhave %d\nwant 42", got.IntermediateHash)
	}
}

func TestUnknownFieldsPreserved(t *testing.T) {
	root := t.TempDir()
	reg, _ := Open(root)
	md, _ := reg.Create("t.png", PNG)

	// Simulate a newer writer adding fields this version does not
	// know about.
	file := filepath.Join(root, "Metadata", md.UUID.String()+".meta")
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data = append(data, []byte("futureField: kept\n")...)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reg2, _ := Open(root)
	got, err := reg2.LookupID(md.UUID)
	if err != nil {
		t.Fatalf("LookupID: %v", err)
	}
	if err := reg2.Save(got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ = os.ReadFile(file)
	if !strings.Contains(string(data), "futureField: kept") {
		t.Fatalf("unknown field dropped on save:\n%s", data)
	}
}

func TestCorrupt(t *testing.T) {
	root := t.TempDir()
	reg, _ := Open(root)
	md, _ := reg.Create("t.png", PNG)
	file := filepath.Join(root, "Metadata", md.UUID.String()+".meta")
	if err := os.WriteFile(file, []byte("uuid: [not a uuid\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reg2, _ := Open(root)
	if _, err := reg2.LookupID(md.UUID); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("LookupID on corrupt file: %v\nwant ErrCorrupt", err)
	}
}

func TestRemove(t *testing.T) {
	reg, _ := Open(t.TempDir())
	md, _ := reg.Create("t.png", PNG)
	if err := reg.Remove(md.UUID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if reg.Exists("t.png") {
		t.Fatal("Exists after Remove")
	}
	if _, err := reg.LookupID(md.UUID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LookupID after Remove: %v\nwant ErrNotFound", err)
	}
}

func TestIntermediatePath(t *testing.T) {
	id := NewID()
	for _, tc := range []struct {
		typ Type
		dir string
	}{
		{Texture, "Intermediate/Textures/"},
		{Mesh, "Intermediate/Meshes/"},
		{Shader, "Intermediate/Shaders/"},
	} {
		p := IntermediatePath(id, tc.typ)
		if !strings.HasPrefix(p, tc.dir) || !strings.HasSuffix(p, id.String()+".bin") {
			t.Fatalf("IntermediatePath(%v)\nhave %q", tc.typ, p)
		}
	}
}
