// Package eventbus is a small in-process pub/sub used to decouple
// instrumentation from the compile pipeline. Producers publish typed
// events; subscribers (tracing, logging) attach without the pipeline
// knowing about them.
package eventbus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Handler consumes events of one concrete type.
type Handler[T any] func(context.Context, T)

// Bus routes published events to handlers keyed on the event's dynamic
// type. Dispatch is synchronous: handlers run on the publisher's
// goroutine, so subscribers observe events in pipeline order.
type Bus struct {
	mu   sync.RWMutex
	subs map[reflect.Type][]subscriber
}

type subscriber struct {
	id int64
	fn func(context.Context, any)
}

func New() *Bus {
	return &Bus{subs: map[reflect.Type][]subscriber{}}
}

var subID atomic.Int64

// On registers h on b for events of type T. The returned func cancels the
// subscription.
func On[T any](b *Bus, h Handler[T]) (cancel func()) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	sub := subscriber{
		id: subID.Add(1),
		fn: func(ctx context.Context, e any) { h(ctx, e.(T)) },
	}
	b.mu.Lock()
	b.subs[t] = append(b.subs[t], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[t]
		for i, s := range list {
			if s.id == sub.id {
				list = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(b.subs, t)
		} else {
			b.subs[t] = list
		}
	}
}

// Emit dispatches e on b to every handler subscribed to e's type.
func Emit[T any](b *Bus, ctx context.Context, e T) {
	if b == nil {
		return
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.RLock()
	list := append([]subscriber(nil), b.subs[t]...)
	b.mu.RUnlock()
	for _, s := range list {
		s.fn(ctx, e)
	}
}

var global atomic.Pointer[Bus]

// Use installs b as the process-wide bus. Passing nil disables publishing.
func Use(b *Bus) { global.Store(b) }

// Subscribe registers h with the process-wide bus. Without an installed
// bus the subscription is a no-op.
func Subscribe[T any](h Handler[T]) (cancel func()) {
	if b := global.Load(); b != nil {
		return On(b, h)
	}
	return func() {}
}

// Publish sends e through the process-wide bus.
func Publish[T any](ctx context.Context, e T) {
	Emit(global.Load(), ctx, e)
}
