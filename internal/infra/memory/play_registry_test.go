package memory

import (
	"context"
	"errors"
	"testing"

	"archetype-quiz-service/internal/domain"
)

func TestPlayRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	registry := NewPlayRegistry()

	if err := registry.Acquire(ctx, "p1", "s1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := registry.Acquire(ctx, "p1", "s2"); !errors.Is(err, domain.ErrPlayInProgress) {
		t.Fatalf("expected ErrPlayInProgress, got %v", err)
	}
	if id, ok := registry.Active(ctx, "p1"); !ok || id != "s1" {
		t.Fatalf("expected s1 active, got %q %v", id, ok)
	}

	registry.Release(ctx, "p1", "s2")
	if _, ok := registry.Active(ctx, "p1"); !ok {
		t.Fatalf("release by a foreign session must not clear the slot")
	}
	registry.Release(ctx, "p1", "s1")
	if _, ok := registry.Active(ctx, "p1"); ok {
		t.Fatalf("expected slot cleared")
	}
}
