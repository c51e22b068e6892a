package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "name", "player"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	v, err := s.Get(ctx, "name")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if v != "player" {
		t.Fatalf("Get = %q, want %q", v, "player")
	}

	if err := s.Delete(ctx, "name", "missing"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	if _, err := s.Get(ctx, "name"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
