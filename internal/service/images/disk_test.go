package images

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_UploadAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads", nil)
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	ref, err := store.Upload("dres.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected ref %q", ref)
	}

	name := strings.TrimPrefix(ref, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored file failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected file content %q", data)
	}

	if err := store.Remove(ref); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err: %v", err)
	}
}

func TestDiskStore_UploadRejectsEmptyPayload(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads", nil)
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	if _, err := store.Upload("dres.png", nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestDiskStore_RemoveIgnoresForeignRefs(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads", nil)
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	if err := store.Remove("https://cdn.example.com/products/x.png"); err != nil {
		t.Fatalf("expected foreign ref to be ignored, got %v", err)
	}
	if err := store.Remove("/uploads/missing.png"); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestDiskStore_RemoveRejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads", nil)
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	if err := store.Remove("/uploads/../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal ref")
	}
}
