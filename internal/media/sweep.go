package media

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Sweep removes regular files under dir last modified before the cutoff.
// Downloaded media and web uploads are disposable once processed; the
// conversation logs are never swept.
func Sweep(dir string, before time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read media dir: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(before) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
