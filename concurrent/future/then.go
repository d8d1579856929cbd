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

// then implements Future returned by Then.
type then struct {
	first Future
	next  func(interface{}) Future
	cont  Future
}

// Poll implements future.Future.
func (f *then) Poll(ctx *Context) (PollResult, error) {
	if f.cont == nil {
		result, err := f.first.Poll(ctx)
		if err != nil {
			return nil, err
		}
		if result == PollResultPending {
			return PollResultPending, nil
		}

		f.cont = f.next(result)
		f.first = nil
		f.next = nil
	}

	return f.cont.Poll(ctx)
}

// Then creates a Future that first drives f to completion and then drives the Future built by
// next from f's value. An error from f finishes the whole chain with that error and next is never
// called.
//
// The continuation future is polled for the first time within the same Poll call that saw f
// complete, so a chain of already-ready futures completes in a single poll.
func Then(f Future, next func(value interface{}) Future) Future {
	return &then{first: f, next: next}
}
