package kiosk

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource reads JPEG frames dropped into a spool directory by the camera
// capture process, oldest first, removing each frame once read.
type DirSource struct {
	dir string
}

// NewDirSource creates a source over a spool directory.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Next returns the oldest frame as base64, or ErrNoFrame.
func (s *DirSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".jpeg") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoFrame
	}
	sort.Strings(names)

	path := filepath.Join(s.dir, names[0])
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	_ = os.Remove(path)
	return base64.StdEncoding.EncodeToString(data), nil
}
