package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFiresOnChange(t *testing.T) {
	dir := "/tmp/path2video_watch_test"
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create test dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "tour.yaml")
	if err := os.WriteFile(path, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write project: %v", err)
	}

	changed := make(chan struct{}, 4)
	cleanup, err := Start(path, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer cleanup()

	// Give the watcher a moment before touching the file
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("version: \"1.1\"\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite project: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatalf("Expected change notification")
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	dir := "/tmp/path2video_watch_sibling_test"
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create test dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "tour.yaml")
	if err := os.WriteFile(path, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write project: %v", err)
	}

	changed := make(chan struct{}, 4)
	cleanup, err := Start(path, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer cleanup()

	time.Sleep(100 * time.Millisecond)
	sibling := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(sibling, []byte("scratch"), 0644); err != nil {
		t.Fatalf("Failed to write sibling: %v", err)
	}

	select {
	case <-changed:
		t.Errorf("Unexpected notification for sibling file")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatchMissingDir(t *testing.T) {
	_, err := Start("/tmp/path2video_no_such_dir/tour.yaml", func() {})
	if err == nil {
		t.Errorf("Expected error for missing directory")
	}
}
