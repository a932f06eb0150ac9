package pipeline

import (
	"errors"
	"os"

	"github.com/backmassage/vidmaker/internal/logging"
)

// Cleanup deletes each path that exists. Missing files are only logged,
// so calling it twice on the same set is a no-op the second time. It
// returns the number of files removed.
func Cleanup(log *logging.Logger, paths ...string) int {
	removed := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
			log.Info("Deleted existing file: %s", p)
		case errors.Is(err, os.ErrNotExist):
			log.Debug("File not found, skipping: %s", p)
		default:
			log.Warn("Could not delete %s: %v", p, err)
		}
	}
	return removed
}
