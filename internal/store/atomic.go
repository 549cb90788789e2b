package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

var tempCounter int64

// tempName builds a temp-file name for path that includes the process id
// and a monotonic counter, so concurrent executions against the same
// directory do not collide.
func tempName(path string) string {
	n := atomic.AddInt64(&tempCounter, 1)
	return fmt.Sprintf("%s.entwine-%d-%d.tmp", path, os.Getpid(), n)
}

// atomicWrite writes data to path via a temp file in the same directory,
// then renames it into place, so readers never observe a partial write.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := tempName(path)
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
