package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
)

// basePath derives the output path without extension. Without -o the
// outputs land next to the input.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one file per format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output was rendered", format)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// frameWriter saves intermediate snapshots as numbered PNG files.
type frameWriter struct {
	dir   string
	every int
	opts  pipeline.Options
	count int
	err   error
}

func newFrameWriter(dir string, every int, opts pipeline.Options) (*frameWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}
	return &frameWriter{dir: dir, every: max(1, every), opts: opts}, nil
}

// write stores every k-th round and the final one. The first error stops
// further writes and is reported by Err.
func (f *frameWriter) write(s relax.Snapshot) {
	if f == nil || f.err != nil || (s.Round%f.every != 0 && !s.Final()) {
		return
	}
	data, err := pipeline.RenderFrame(s.Positions, s.Width, s.Height, f.opts)
	if err != nil {
		f.err = fmt.Errorf("render frame %d: %w", s.Round, err)
		return
	}
	path := filepath.Join(f.dir, fmt.Sprintf("frame-%04d.png", s.Round))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.err = fmt.Errorf("write frame: %w", err)
		return
	}
	f.count++
}

// Err returns the first error encountered while writing frames.
func (f *frameWriter) Err() error {
	if f == nil {
		return nil
	}
	return f.err
}
