package storage

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hyperjump/kondate/internal/config"
)

// DiskUsage is the on-disk footprint of the food database and its indices, in bytes.
type DiskUsage struct {
	Database     int64 `json:"database"`
	KeywordIndex int64 `json:"keyword_index"`
	VectorIndex  int64 `json:"vector_index"`
}

// Total sums every component.
func (u DiskUsage) Total() int64 {
	return u.Database + u.KeywordIndex + u.VectorIndex
}

// Usage measures the paths in cfg. SQLite WAL and shared-memory side files
// count towards the database. Missing paths contribute 0.
func Usage(cfg config.StorageConfig) (DiskUsage, error) {
	var (
		u   DiskUsage
		err error
	)
	if u.Database, err = pathSize(cfg.DatabasePath, cfg.DatabasePath+"-wal", cfg.DatabasePath+"-shm"); err != nil {
		return DiskUsage{}, err
	}
	if u.KeywordIndex, err = pathSize(cfg.BleveIndexPath); err != nil {
		return DiskUsage{}, err
	}
	if u.VectorIndex, err = pathSize(cfg.VectorIndexPath); err != nil {
		return DiskUsage{}, err
	}
	return u, nil
}

// pathSize sums files and directory trees; empty or missing paths are skipped.
func pathSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		})
		if err != nil && !os.IsNotExist(err) {
			return 0, err
		}
	}
	return total, nil
}
