package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	p := filepath.Join(t.TempDir(), "state.json")
	if err := SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ExpandHome("~/data/ws")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "data", "ws") {
		t.Fatalf("got %q", got)
	}
	if got, _ := ExpandHome("/tmp/x/../y"); got != "/tmp/y" {
		t.Fatalf("got %q", got)
	}
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "workspace.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "a", "b")
	if err := EnsureDir(deep); err != nil {
		t.Fatal(err)
	}
	got, err := FindRoot(deep, "workspace.json")
	if err != nil || got != root {
		t.Fatalf("FindRoot = %q, %v", got, err)
	}
	if _, err := FindRoot(t.TempDir(), "workspace.json"); err == nil {
		t.Fatalf("expected not found")
	}
}
