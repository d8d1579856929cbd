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

// BlockOn drives f to completion on the calling goroutine and returns its result. It takes
// exclusive ownership of f for the duration of the call; f must not be polled elsewhere
// concurrently.
//
// Between polls the goroutine parks on the waker it supplied, so a pending future costs nothing
// until its wake arrives. A wake that fires while Poll is still running (futures commonly hand the
// waker to another goroutine that finishes first) is not lost; the next park returns immediately
// and f is re-polled.
//
// BlockOn returns exactly once, with the value or error f completed with. If f returns
// PollResultPending without ever arranging a wake, BlockOn never returns; that is a liveness bug
// in f, not something the driver detects or recovers from. A panic from Poll (such as the one
// raised on polling a completed future) propagates to the caller uncaught.
func BlockOn(f Future) (interface{}, error) {
	waker := newParkingWaker()
	ctx := NewContext(waker)

	for {
		result, err := f.Poll(ctx)
		if err != nil {
			return nil, err
		}
		if IsReady(result) {
			return result, nil
		}
		waker.park()
	}
}

// SpinOn drives f to completion by re-polling it immediately whenever it returns
// PollResultPending, with a no-op waker. It is correct for any future that completes within a
// bounded number of polls regardless of wakes, and it never misses a wake because it never waits
// for one.
//
// The price is unbounded CPU spin while f stays pending: a future that needs an external event
// pegs a core until the event happens. Prefer BlockOn outside of tests and toy drivers.
func SpinOn(f Future) (interface{}, error) {
	ctx := NewContext(NopWaker)

	for {
		result, err := f.Poll(ctx)
		if err != nil {
			return nil, err
		}
		if IsReady(result) {
			return result, nil
		}
	}
}
