package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// DatabaseFiles lists the files SQLite keeps for dbPath in WAL mode.
func DatabaseFiles(dbPath string) []string {
	if dbPath == "" {
		return nil
	}
	return []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
}

// DiskUsageBytes sums the size of files and directory trees. Empty and missing paths count
// as zero.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == p && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipAll
				}
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
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// UsageBytes is the disk footprint of the reader's database and full-text index.
func UsageBytes(dbPath, indexPath string) (int64, error) {
	return DiskUsageBytes(append(DatabaseFiles(dbPath), indexPath)...)
}
