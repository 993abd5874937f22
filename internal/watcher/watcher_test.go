package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 1)
	w, err := New(100*time.Millisecond, []string{"vendor"}, []string{"*_gen.go"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	// A Go source write must arrive as one debounced batch.
	testFile := filepath.Join(tmpDir, "test.go")
	os.WriteFile(testFile, []byte("package main"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-Go files never trigger a rebuild.
	otherFile := filepath.Join(tmpDir, "notes.txt")
	os.WriteFile(otherFile, []byte("irrelevant"), 0644)

	// Excluded file patterns are filtered too.
	excludeFile := filepath.Join(tmpDir, "types_gen.go")
	os.WriteFile(excludeFile, []byte("package main"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.txt" || base == "types_gen.go" {
				t.Errorf("Filtered file triggered event: %s", p)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

func TestWatcherSkipsExcludedDirs(t *testing.T) {
	tmpDir := t.TempDir()
	vendored := filepath.Join(tmpDir, "vendor")
	if err := os.MkdirAll(vendored, 0755); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 1)
	w, err := New(50*time.Millisecond, []string{"vendor"}, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{vendored}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(vendored, "dep.go"), []byte("package dep"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("excluded directory produced events: %v", paths)
	case <-time.After(300 * time.Millisecond):
		// Expected
	}
}

func TestWatcherRejectsBadGlobs(t *testing.T) {
	if _, err := New(time.Millisecond, []string{"["}, nil, func([]string) {}); err == nil {
		t.Error("expected error for malformed exclude pattern")
	}
}
