package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewScratch(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "conv_scratch")

		s, err := NewScratch(dir)
		if err != nil {
			t.Fatalf("NewScratch() error = %v", err)
		}

		if s.Dir() != dir {
			t.Errorf("Dir() = %v, want %v", s.Dir(), dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("uses default directory when empty", func(t *testing.T) {
		s, err := NewScratch("")
		if err != nil {
			t.Fatalf("NewScratch() error = %v", err)
		}
		defer func() { _ = s.Remove() }()

		expected := filepath.Join(os.TempDir(), "image_conversion")
		if s.Dir() != expected {
			t.Errorf("Dir() = %v, want %v", s.Dir(), expected)
		}
	})
}

func TestScratch_Path(t *testing.T) {
	dir := t.TempDir()
	s, err := NewScratch(dir)
	if err != nil {
		t.Fatalf("NewScratch() error = %v", err)
	}

	got := s.Path("frame_1280x720.png")
	want := filepath.Join(dir, "frame_1280x720.png")
	if got != want {
		t.Errorf("Path() = %v, want %v", got, want)
	}
}

func TestScratch_Remove(t *testing.T) {
	t.Run("removes directory and contents", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "scratch")
		s, err := NewScratch(dir)
		if err != nil {
			t.Fatalf("NewScratch() error = %v", err)
		}

		if err := os.WriteFile(s.Path("leftover.mvi"), []byte("data"), 0o600); err != nil {
			t.Fatalf("write scratch file: %v", err)
		}

		if err := s.Remove(); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}

		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("scratch directory still exists after Remove: %v", err)
		}
	})

	t.Run("removing an already removed directory is not an error", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "scratch")
		s, err := NewScratch(dir)
		if err != nil {
			t.Fatalf("NewScratch() error = %v", err)
		}

		if err := s.Remove(); err != nil {
			t.Fatalf("first Remove() error = %v", err)
		}
		if err := s.Remove(); err != nil {
			t.Errorf("second Remove() error = %v", err)
		}
	})
}
