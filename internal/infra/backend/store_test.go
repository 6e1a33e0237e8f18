package backend

import (
	"context"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir() + "/tokens.json")
	ctx := context.Background()

	// Missing file is not an error
	access, refresh, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if access != "" || refresh != "" {
		t.Errorf("expected empty tokens, got %q/%q", access, refresh)
	}

	if err := store.Save(ctx, "acc", "ref"); err != nil {
		t.Fatalf("save: %v", err)
	}
	access, refresh, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if access != "acc" || refresh != "ref" {
		t.Errorf("expected acc/ref, got %q/%q", access, refresh)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
}
