package load

import (
	"os"
	"path/filepath"
)

// scanResultFiles lists accepted regular files of dir in lexical order,
// stopping after limit files when limit > 0.
func scanResultFiles(dir string, accept func(name string) bool, limit uint64) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var itemsRead uint64
	var paths []string
	for _, entry := range entries {
		if limit > 0 && itemsRead >= limit {
			break
		}
		if entry.IsDir() || !accept(entry.Name()) {
			continue
		}
		itemsRead++
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
