package eventbus

import (
	"context"
	"testing"
)

type ping struct{ n int }
type pong struct{ n int }

func TestEmitDispatchesByType(t *testing.T) {
	b := New()
	var pings, pongs []int
	On(b, func(ctx context.Context, e ping) { pings = append(pings, e.n) })
	On(b, func(ctx context.Context, e pong) { pongs = append(pongs, e.n) })

	ctx := context.Background()
	Emit(b, ctx, ping{1})
	Emit(b, ctx, ping{2})
	Emit(b, ctx, pong{3})

	if len(pings) != 2 || pings[0] != 1 || pings[1] != 2 {
		t.Errorf("pings = %v", pings)
	}
	if len(pongs) != 1 || pongs[0] != 3 {
		t.Errorf("pongs = %v", pongs)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	var got int
	cancel := On(b, func(ctx context.Context, e ping) { got++ })

	Emit(b, context.Background(), ping{1})
	cancel()
	Emit(b, context.Background(), ping{2})

	if got != 1 {
		t.Errorf("got %d deliveries, want 1", got)
	}
}

func TestCancelRemovesOnlyItsHandler(t *testing.T) {
	b := New()
	var a, c int
	cancelA := On(b, func(ctx context.Context, e ping) { a++ })
	On(b, func(ctx context.Context, e ping) { c++ })

	cancelA()
	Emit(b, context.Background(), ping{1})

	if a != 0 || c != 1 {
		t.Errorf("a = %d, c = %d", a, c)
	}
}

func TestPublishWithoutBusIsNoop(t *testing.T) {
	Use(nil)
	// Must not panic.
	Publish(context.Background(), ping{1})
}

func TestGlobalBus(t *testing.T) {
	b := New()
	Use(b)
	defer Use(nil)

	var got int
	cancel := Subscribe(func(ctx context.Context, e ping) { got = e.n })
	defer cancel()

	Publish(context.Background(), ping{7})
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}
