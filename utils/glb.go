package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/voxelsplace/voxconv/api"
	"github.com/voxelsplace/voxconv/ovox"
	"github.com/voxelsplace/voxconv/voxel"
)

// RunOVOX2GLB writes a greedy-meshed .glb preview of an .ovox file.
func RunOVOX2GLB(inPath, outPath string) error {
	c, err := ovox.LoadFile(inPath)
	if err != nil {
		return err
	}
	doc, err := api.BuildGLTF(c)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, outPath); err != nil {
		return fmt.Errorf("%w: %w", voxel.ErrDestinationUnwritable, err)
	}
	return nil
}

// RunInspect prints a summary of an .ovox file.
func RunInspect(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", voxel.ErrSourceUnreadable, err)
	}
	return api.Inspect(w, data)
}
