package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoVideos is returned by Discover when dir holds no video files.
var ErrNoVideos = errors.New("no video files found")

// Supported clip extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".m4v":  true,
	".webm": true,
}

// Discover lists the video files directly inside dir (no recursion),
// skipping hidden files, sorted lexicographically. The order is the
// concatenation order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(name))] {
			files = append(files, filepath.Join(dir, name))
		}
	}
	if len(files) == 0 {
		return nil, ErrNoVideos
	}
	sort.Strings(files)
	return files, nil
}
