package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{"a.png": true, "b.JPG": true, "c.webp": true, "d.txt": false, "e": false}
	for name, want := range tests {
		if got := IsImageFile(name); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOutputFilename(t *testing.T) {
	got := OutputFilename("out", "my/game", 7, "png")
	if got != filepath.Join("out", "my_game-7.png") {
		t.Errorf("Unexpected filename %q", got)
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("/tmp/images/level-3.png"); got != "level-3" {
		t.Errorf("Expected level-3, got %q", got)
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.png", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.jpg" || filepath.Base(files[1]) != "z.png" {
		t.Errorf("Expected [a.jpg z.png], got %v", files)
	}

	if _, err := ListImageFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestEnsureDirAndExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if DirExists(dir) {
		t.Fatal("Expected directory to be missing")
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if !DirExists(dir) || FileExists(dir) {
		t.Error("Expected a directory, not a file")
	}
}
