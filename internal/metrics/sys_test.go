package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHumanSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, c := range cases {
		if got := humanSize(c.size); got != c.want {
			t.Errorf("humanSize(%d) = %q, want %q", c.size, got, c.want)
		}
	}
}

func TestCollectSysHealthMeasuresDatabaseDirectory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "planner.db")
	if err := os.WriteFile(dbPath, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "planner.db-wal"), make([]byte, 1024), 0o644); err != nil {
		t.Fatal(err)
	}

	health := CollectSysHealth(dbPath)
	// the whole directory counts, including the WAL file
	if health.StorageSize != "3.0 KB" {
		t.Errorf("Expected 3.0 KB of storage, got %q", health.StorageSize)
	}
	if health.Goroutines <= 0 {
		t.Errorf("Expected a positive goroutine count, got %d", health.Goroutines)
	}
}
