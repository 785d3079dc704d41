package writer

import (
	"archive/zip"
	"encoding/gob"
	"path/filepath"
	"testing"

	"github.com/achilleasa/gputrace/asset/scene"
	"github.com/achilleasa/gputrace/types"
)

func TestWriteArchiveLayout(t *testing.T) {
	sc := &scene.Scene{
		Name:      "layout",
		Materials: []scene.Material{{BaseColor: types.XYZ(1, 1, 1)}},
		Spheres:   []scene.Sphere{{Center: types.XYZ(0, 0, 0), Radius: 1}},
		Primitives: []scene.PrimitiveRef{
			{Type: scene.SpherePrimitive},
		},
		BvhNodes: []scene.BvhNode{
			{Min: types.XYZ(-1, -1, -1), Max: types.XYZ(1, 1, 1), RightChild: -1, LeafStart: 0, LeafCount: 1, Miss: -1, SplitAxis: -1},
		},
	}

	sceneFile := filepath.Join(t.TempDir(), "layout.zip")
	if err := WriteScene(sc, sceneFile); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(sceneFile)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	files := map[string]*zip.File{}
	for _, f := range zr.File {
		files[f.Name] = f
	}

	expFiles := len(scene.BufferNames) + 1
	if len(files) != expFiles {
		t.Fatalf("expected archive to contain %d files; got %d", expFiles, len(files))
	}
	for _, name := range scene.BufferNames {
		if _, exists := files[scene.BufferFile(name)]; !exists {
			t.Fatalf("expected archive to contain %s", scene.BufferFile(name))
		}
	}

	if size := files[scene.BufferFile(scene.BvhNodeBuffer)].UncompressedSize64; size != 48 {
		t.Fatalf("expected bvh buffer to hold one 48 byte record; got %d bytes", size)
	}

	rc, err := files[scene.ManifestFile].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	var manifest scene.Manifest
	if err = gob.NewDecoder(rc).Decode(&manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.Version != scene.ArchiveVersion || manifest.Name != "layout" || len(manifest.Buffers) != len(scene.BufferNames) {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	for _, entry := range manifest.Buffers {
		if entry.Name == scene.SphereBuffer && (entry.Count != 1 || entry.RecordSize != 32) {
			t.Fatalf("unexpected sphere manifest entry %+v", entry)
		}
		if entry.Name == scene.QuadBuffer && entry.Count != 0 {
			t.Fatalf("expected empty quad buffer; got %+v", entry)
		}
	}
}

func TestWriteSceneBadPath(t *testing.T) {
	sceneFile := filepath.Join(t.TempDir(), "missing-dir", "scene.zip")
	if err := WriteScene(&scene.Scene{}, sceneFile); err == nil {
		t.Fatal("expected an error writing to a missing directory")
	}
}
