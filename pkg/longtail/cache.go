package longtail

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EvictToCapacity deletes entries under <cacheDir>/chunks, oldest-and-
// smallest first (ascending (timestamp, size) order), until the subtree's
// total size is at or under capMiB. Used after a successful fetch with a
// cache directory configured (spec.md §4.7).
func EvictToCapacity(cacheDir string, capMiB int64) error {
	chunksDir := filepath.Join(cacheDir, "chunks")
	entries, err := os.ReadDir(chunksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("longtail: reading chunk cache: %w", err)
	}

	type chunkFile struct {
		path    string
		size    int64
		modTime int64
	}
	var files []chunkFile
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, chunkFile{
			path:    filepath.Join(chunksDir, e.Name()),
			size:    info.Size(),
			modTime: info.ModTime().Unix(),
		})
		total += info.Size()
	}

	capBytes := capMiB * 1024 * 1024
	if total <= capBytes {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime != files[j].modTime {
			return files[i].modTime < files[j].modTime
		}
		return files[i].size < files[j].size
	})

	for _, f := range files {
		if total <= capBytes {
			break
		}
		if err := os.Remove(f.path); err != nil {
			continue
		}
		total -= f.size
	}
	return nil
}

// ClearCache removes the entire chunk cache subtree, used when a corrupted
// cache triggers the one implicit clear-and-retry recovery (spec.md §7).
func ClearCache(cacheDir string) error {
	return os.RemoveAll(filepath.Join(cacheDir, "chunks"))
}
