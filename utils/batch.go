package utils

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"time"
)

// BatchOptions configures RunConvertDir.
type BatchOptions struct {
	SourceDir string
	OutputDir string
	SourceExt string
	DestExt   string
	Workers   int
}

// DefaultBatchOptions converts ./*.xraw into ./ConvertedFiles.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		SourceDir: "./",
		OutputDir: "ConvertedFiles",
		SourceExt: ".xraw",
		DestExt:   ".ovox",
		Workers:   runtime.NumCPU(),
	}
}

// NewLogger returns the logger used for batch diagnostics.
func NewLogger() *log.Logger {
	return log.New(os.Stderr, "voxconv: ", log.Ldate|log.Ltime)
}

// RunConvertDir converts every matching file of opts.SourceDir. A file that
// fails is logged and skipped; the returned error covers only listing the
// source directory and creating the output directory. Reports keep the
// sorted order of the source listing.
func RunConvertDir(opts BatchOptions, logger *log.Logger) ([]Report, error) {
	if logger == nil {
		logger = NewLogger()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	sources, err := ListSources(opts.SourceDir, opts.SourceExt)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", opts.SourceDir, err)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", opts.OutputDir, err)
	}

	reports := make([]Report, len(sources))
	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	start := time.Now()
	for i, src := range sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, src string) {
			defer wg.Done()
			defer func() { <-sem }()
			reports[i], _ = RunXRAW2OVOXFile(src, DestPath(opts.OutputDir, src, opts.DestExt))
		}(i, src)
	}
	wg.Wait()

	for _, r := range reports {
		logger.Println(r)
	}
	logger.Printf("%d converted, %d skipped in %d ms", len(reports)-Failed(reports), Failed(reports), time.Since(start).Milliseconds())
	return reports, nil
}

// Failed counts the reports carrying an error.
func Failed(reports []Report) int {
	n := 0
	for _, r := range reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}
