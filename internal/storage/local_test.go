package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	ctx := context.Background()

	key := store.KeyFor(KindImage, "photo.jpg")
	if key != "images/photo.jpg" {
		t.Errorf("KeyFor(image) = %q, want images/photo.jpg", key)
	}

	url, err := store.Save(ctx, key, "image/jpeg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url != "/uploads/images/photo.jpg" {
		t.Errorf("Save() url = %q, want /uploads/images/photo.jpg", url)
	}

	data, err := os.ReadFile(filepath.Join(root, "images", "photo.jpg"))
	if err != nil {
		t.Fatalf("file not written: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("file content = %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "images", "photo.jpg")); !os.IsNotExist(err) {
		t.Errorf("file still exists after Delete(): %v", err)
	}

	// Deleting again is not an error
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestLocalStorePublicBaseURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:3001/")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	url, err := store.Save(context.Background(), store.KeyFor(KindThumbnail, "thumb_a.jpg"), "image/jpeg", []byte("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url != "http://localhost:3001/uploads/thumbnails/thumb_a.jpg" {
		t.Errorf("Save() url = %q", url)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	for _, key := range []string{"../escape.jpg", "/etc/passwd", ""} {
		if _, err := store.Save(context.Background(), key, "image/jpeg", []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if err := store.Delete(context.Background(), key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Delete(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestObjectKeyLayout(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindImage, "baby-diary/images/a.jpg"},
		{KindVideo, "baby-diary/videos/a.jpg"},
		{KindThumbnail, "baby-diary/thumbnails/a.jpg"},
	}
	for _, tt := range tests {
		if got := objectKey(tt.kind, "a.jpg"); got != tt.want {
			t.Errorf("objectKey(%d) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
