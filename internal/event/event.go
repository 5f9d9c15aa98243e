// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package event defines a multi-consumer broadcaster with stable
// subscription handles. There is no suspension: Invoke runs every
// handler to completion, in registration order, on the caller's
// goroutine.
package event

// Handle identifies a subscription. The zero Handle is never issued
// and is safe to use as "not subscribed".
type Handle uint64

// Event broadcasts values of type T to its subscribers.
// The zero value is an Event with no subscribers.
// It is not safe for concurrent use.
type Event[T any] struct {
	next  Handle
	binds []bind[T]
}

type bind[T any] struct {
	h  Handle
	fn func(T)
}

// AddBind subscribes fn and returns its handle.
func (e *Event[T]) AddBind(fn func(T)) Handle {
	e.next++
	e.binds = append(e.binds, bind[T]{e.next, fn})
	return e.next
}

// RemoveBind drops the subscription identified by h.
// It reports whether a subscription was removed.
func (e *Event[T]) RemoveBind(h Handle) bool {
	for i := range e.binds {
		if e.binds[i].h == h {
			e.binds = append(e.binds[:i], e.binds[i+1:]...)
			return true
		}
	}
	return false
}

// Invoke calls every subscriber with v, in registration order.
// Each handler runs to completion before the next begins.
func (e *Event[T]) Invoke(v T) {
	// Handlers may unsubscribe themselves (or others) while being
	// invoked, so iterate over a snapshot.
	binds := append([]bind[T](nil), e.binds...)
	for i := range binds {
		binds[i].fn(v)
	}
}

// Clear drops every subscription.
func (e *Event[T]) Clear() { e.binds = nil }

// Len returns the number of subscriptions.
func (e *Event[T]) Len() int { return len(e.binds) }
