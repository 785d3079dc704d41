package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/gputrace/asset"
	"github.com/achilleasa/gputrace/asset/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read a compiled scene from a local file or an http/https URL.
func ReadScene(filename string) (*scene.Scene, error) {
	if !strings.HasSuffix(filename, ".zip") {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	res, err := asset.NewResource(filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newZipSceneReader().Read(res)
}
