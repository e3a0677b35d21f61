package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelsplace/voxconv/ovox"
	"github.com/voxelsplace/voxconv/xraw"
)

// Report is the outcome of converting one file.
type Report struct {
	Source  string
	Dest    string
	Voxels  int
	Colours int
	Digest  uint64 // xxh64 of the written .ovox
	Err     error
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("skip %s: %v", r.Source, r.Err)
	}
	return fmt.Sprintf("%s -> %s (%d voxels, %d colours, xxh64 %016x)", r.Source, r.Dest, r.Voxels, r.Colours, r.Digest)
}

// RunXRAW2OVOXFile decodes an .xraw file, compacts its palette and writes an .ovox file.
func RunXRAW2OVOXFile(inPath, outPath string) (Report, error) {
	rep := Report{Source: inPath, Dest: outPath}
	c, err := xraw.DecodeFile(inPath)
	if err != nil {
		rep.Err = fmt.Errorf("decode %s: %w", inPath, err)
		return rep, rep.Err
	}
	data := ovox.Encode(c)
	if err := ovox.SaveBytes(outPath, data); err != nil {
		rep.Err = fmt.Errorf("write %s: %w", outPath, err)
		return rep, rep.Err
	}
	rep.Voxels = len(c.Voxels)
	rep.Colours = len(c.Palette)
	rep.Digest = ovox.Digest(data)
	return rep, nil
}

// DestPath places the source stem with destExt under outDir.
func DestPath(outDir, src, destExt string) string {
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+destExt)
}

// ListSources returns the regular files in dir whose extension is ext, sorted by name.
func ListSources(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ext {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
