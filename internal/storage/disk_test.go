package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "reader.db")
	writeFile(t, db, 5)

	index := filepath.Join(dir, "bleve")
	if err := os.MkdirAll(filepath.Join(index, "store"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(index, "index_meta.json"), 2)
	writeFile(t, filepath.Join(index, "store", "root.bolt"), 1)

	tests := []struct {
		name  string
		paths []string
		want  int64
	}{
		{"file", []string{db}, 5},
		{"directory tree", []string{index}, 3},
		{"file and directory", []string{db, index}, 8},
		{"missing skipped", []string{db, filepath.Join(dir, "nonexistent"), index}, 8},
		{"empty skipped", []string{"", db}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskUsageBytes(tt.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d bytes, want %d", got, tt.want)
			}
		})
	}
}

func TestDatabaseFiles(t *testing.T) {
	want := []string{"/tmp/r.db", "/tmp/r.db-wal", "/tmp/r.db-shm"}
	if got := DatabaseFiles("/tmp/r.db"); !reflect.DeepEqual(got, want) {
		t.Errorf("DatabaseFiles = %v, want %v", got, want)
	}
	if got := DatabaseFiles(""); got != nil {
		t.Errorf("DatabaseFiles(\"\") = %v", got)
	}
}

func TestUsageBytes_includesWAL(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "reader.db")
	writeFile(t, db, 4)
	writeFile(t, db+"-wal", 6)

	got, err := UsageBytes(db, filepath.Join(dir, "missing-index"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Errorf("UsageBytes = %d, want 10", got)
	}
}
