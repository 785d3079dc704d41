package writer

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/achilleasa/gputrace/asset/scene"
	"github.com/achilleasa/gputrace/log"
)

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new zip scene writer
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip writer"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	w.logger.Noticef(`writing compiled scene to "%s"`, w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	if err = w.writeArchive(zipFile, sc); err != nil {
		return err
	}

	w.logger.Noticef("wrote compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return zipFile.Close()
}

func (w *zipSceneWriter) writeArchive(out io.Writer, sc *scene.Scene) error {
	buffers, err := sc.Buffers()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)

	manifest := scene.Manifest{
		Version: scene.ArchiveVersion,
		Name:    sc.Name,
		Buffers: make([]scene.ManifestEntry, 0, len(buffers)),
	}
	for _, buf := range buffers {
		entry := scene.ManifestEntry{Name: buf.Name, Count: buf.Count}
		if buf.Count > 0 {
			entry.RecordSize = len(buf.Data) / buf.Count
		}
		manifest.Buffers = append(manifest.Buffers, entry)

		fw, err := zw.Create(scene.BufferFile(buf.Name))
		if err != nil {
			return err
		}
		if _, err = fw.Write(buf.Data); err != nil {
			return fmt.Errorf("zipSceneWriter: failed to write %s: %w", buf.Name, err)
		}
		w.logger.Debugf("wrote %d %s records (%d bytes)", buf.Count, buf.Name, len(buf.Data))
	}

	fw, err := zw.Create(scene.ManifestFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(fw).Encode(&manifest); err != nil {
		return fmt.Errorf("zipSceneWriter: failed to write manifest: %w", err)
	}

	return zw.Close()
}
