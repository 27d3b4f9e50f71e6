package utils

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func IsIn(s string, arr []string) bool {
	for _, x := range arr {
		if s == x {
			return true
		}
	}
	return false
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return errors.New("empty output directory")
	}
	if err := os.MkdirAll(filepath.Clean(dir), 0755); err != nil {
		return errors.Wrapf(err, "cannot create directory %s", dir)
	}
	return nil
}
