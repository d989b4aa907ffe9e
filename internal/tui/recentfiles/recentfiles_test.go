// ABOUTME: Tests for recent cover image tracking
// ABOUTME: Validates storage, max limit, ordering, and stale path removal

package recentfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmpty(t *testing.T) {
	rf := New(t.TempDir())

	files, err := rf.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty list, got %d files", len(files))
	}
}

func TestAddMoveToFront(t *testing.T) {
	tmpDir := t.TempDir()
	rf := New(tmpDir)

	cover1 := writeImage(t, tmpDir, "cover1.png")
	cover2 := writeImage(t, tmpDir, "cover2.jpg")

	rf.Add(cover1)
	rf.Add(cover2)

	files, _ := New(tmpDir).Load()
	if len(files) != 2 || files[0] != cover2 {
		t.Fatalf("expected cover2 first, got %v", files)
	}

	rf.Add(cover1)
	files, _ = New(tmpDir).Load()
	if len(files) != 2 || files[0] != cover1 {
		t.Errorf("expected cover1 first after re-add, got %v", files)
	}
}

func TestMaxLimit(t *testing.T) {
	tmpDir := t.TempDir()
	rf := New(tmpDir)

	var last string
	for i := 1; i <= 7; i++ {
		last = writeImage(t, tmpDir, fmt.Sprintf("cover%d.png", i))
		rf.Add(last)
	}

	files, _ := rf.Load()
	if len(files) != MaxRecentFiles {
		t.Errorf("expected %d files max, got %d", MaxRecentFiles, len(files))
	}
	if files[0] != last {
		t.Errorf("expected %s first, got %s", last, files[0])
	}
}

func TestLoadRemovesStaleFiles(t *testing.T) {
	tmpDir := t.TempDir()
	rf := New(tmpDir)

	real := writeImage(t, tmpDir, "real.png")
	rf.Save([]string{"/nonexistent/cover.png", real})

	loaded, err := rf.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != real {
		t.Errorf("expected only %s, got %v", real, loaded)
	}
}

func TestCreatesConfigDirPrivately(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "bookx")
	rf := New(configDir)

	if err := rf.Add("/path/to/cover.png"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(configDir, fileName))
	if err != nil {
		t.Fatalf("expected recent file to exist: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestInMemoryWithoutConfigDir(t *testing.T) {
	rf := New("")
	if err := rf.Add("/tmp/cover.png"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if got := rf.List(); len(got) != 1 {
		t.Errorf("expected in-memory entry, got %v", got)
	}
}
