package runid

import (
	"context"
	"testing"
)

func TestNewContextCarriesID(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("run ID missing from context")
	}
	if got != id {
		t.Errorf("FromContext = %d, want %d", got, id)
	}
}

func TestFromContextWithoutID(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no run ID on a bare context")
	}
}
