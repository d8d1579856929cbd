/**
 * Copyright (c) 2026, The Pollux Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package future

// A Waker is a handle to "wake up" a Future that was previously polled to a pending. Practically,
// it notifies the executor to place the associated task back on the queue of ready tasks.
//
// Where Rust models the waker as a manual vtable of clone/wake/wake_by_ref/drop, Go needs less
// machinery: copying the interface value is the clone, garbage collection is the drop, and Wake
// covers both the consuming and the by-reference form. What survives the translation is the
// contract: Wake may be called zero, one, or many times, from any goroutine, and calling it after
// the associated task has completed must be a safe no-op.
type Waker interface {
	// Wake indicates the associated task is ready to make progress and should be polled again.
	//
	// Executors generally maintain a queue of "ready" tasks; and Wake should place the associated
	// task onto this queue.
	Wake() error
}

// The WakerFunc type is an adapter to allow the use of ordinary functions as Waker.
type WakerFunc func() error

// Wake implements Waker which calls f().
func (f WakerFunc) Wake() error {
	return f()
}

// Type for NopWaker
type nopWaker int

func (nopWaker) Wake() error {
	return nil
}

// NopWaker is a Waker that does nothing. It is useful as an initial value for a stored Waker, and
// it is the waker supplied by SpinOn: a driver that re-polls unconditionally has no use for wake
// notifications.
const NopWaker nopWaker = 0

// parkingWaker is the Waker used by BlockOn. Wake deposits a token into a single-slot channel;
// park consumes one. Multiple wakes between polls coalesce into a single token, a wake that
// arrives while the future is being polled makes the next park return immediately, and a wake
// after completion leaves an unread token behind for the garbage collector. All of it is safe
// from any goroutine.
type parkingWaker chan struct{}

func newParkingWaker() parkingWaker {
	return make(parkingWaker, 1)
}

// Wake implements Waker.
func (w parkingWaker) Wake() error {
	select {
	case w <- struct{}{}:
	default:
	}
	return nil
}

// park blocks the calling goroutine until Wake is called.
func (w parkingWaker) park() {
	<-w
}
