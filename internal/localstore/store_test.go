package localstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"storefront-client/internal/domain"
)

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	in := map[string]int{"a": 1, "b": 2}
	if err := store.Put("cart", in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out map[string]int
	if err := store.Get("cart", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Fatalf("unexpected value: %+v", out)
	}
}

func TestGetMissingKey(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var out map[string]int
	if err := store.Get("absent", &out); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cart.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	var out []string
	err = store.Get("cart", &out)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put("pendingOrder", "x"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete("pendingOrder"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("pendingOrder"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	var out string
	if err := store.Get("pendingOrder", &out); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
