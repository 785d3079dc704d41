package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/gputrace/asset"
	"github.com/achilleasa/gputrace/asset/scene"
	"github.com/achilleasa/gputrace/log"
)

var (
	ErrMissingManifest = errors.New("zipSceneReader: archive has no manifest")
	ErrVersionMismatch = errors.New("zipSceneReader: unsupported archive version")
	ErrMissingBuffer   = errors.New("zipSceneReader: archive is missing a buffer listed in its manifest")
	ErrRecordMismatch  = errors.New("zipSceneReader: buffer does not match its manifest entry")
)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	manifest, err := p.readManifest(files[scene.ManifestFile])
	if err != nil {
		return nil, err
	}

	sc := &scene.Scene{Name: manifest.Name}
	known := map[string]bool{scene.ManifestFile: true}
	for _, entry := range manifest.Buffers {
		fileName := scene.BufferFile(entry.Name)
		known[fileName] = true

		f, exists := files[fileName]
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrMissingBuffer, fileName)
		}
		bufData, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w", f.Name, err)
		}
		if len(bufData) != entry.Count*entry.RecordSize {
			return nil, fmt.Errorf("%w: %s has %d bytes; expected %d records of %d bytes", ErrRecordMismatch, f.Name, len(bufData), entry.Count, entry.RecordSize)
		}
		if err = sc.Load(entry.Name, bufData); err != nil {
			return nil, err
		}
	}

	for _, f := range zr.File {
		if !known[f.Name] {
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
		}
	}

	p.logger.Noticef("loaded scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (p *zipSceneReader) readManifest(f *zip.File) (*scene.Manifest, error) {
	if f == nil {
		return nil, ErrMissingManifest
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	manifest := &scene.Manifest{}
	if err = gob.NewDecoder(rc).Decode(manifest); err != nil {
		return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w", f.Name, err)
	}
	if manifest.Version != scene.ArchiveVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersionMismatch, manifest.Version)
	}
	return manifest, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
