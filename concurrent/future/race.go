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

// race implements Future returned by Race.
type race struct {
	inputs []Future
}

// Poll implements future.Future.
func (f *race) Poll(ctx *Context) (PollResult, error) {
	for _, input := range f.inputs {
		result, err := input.Poll(ctx)
		if err != nil {
			f.inputs = nil
			return nil, err
		}
		if IsReady(result) {
			// Drop the losers; they are never polled again.
			f.inputs = nil
			return result, nil
		}
	}
	return PollResultPending, nil
}

// Race creates a Future which completes with the value (or error) of the first input Future to
// complete. The polling order within one call is the input order, so when several inputs are ready
// on the same poll the earliest one wins deterministically.
//
// The losing inputs are dropped without notice, which is how futures are cancelled: whatever work
// they represent simply stops being driven.
//
// When passed no arguments, Race returns a Future that is never ready.
func Race(f ...Future) Future {
	if len(f) == 0 {
		return Pending()
	}
	return &race{inputs: f}
}
