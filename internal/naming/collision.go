package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out final paths that neither exist on disk nor
// were handed out before by the same resolver. Two runs started within
// the same second therefore get vidmaker_<ts>.mp4 and vidmaker_<ts>_2.mp4.
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu      sync.Mutex
	claimed map[string]bool
	exists  func(string) bool
}

// NewCollisionResolver creates a resolver that checks the filesystem.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		claimed: make(map[string]bool),
		exists:  fileExists,
	}
}

// Resolve returns requested if it is free, otherwise the first free
// "<stem>_N<ext>" with N starting at 2. The returned path is claimed.
func (cr *CollisionResolver) Resolve(requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.free(requested) {
		cr.claimed[requested] = true
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 2; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if cr.free(candidate) {
			cr.claimed[candidate] = true
			return candidate
		}
	}
}

func (cr *CollisionResolver) free(path string) bool {
	return !cr.claimed[path] && !cr.exists(path)
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
