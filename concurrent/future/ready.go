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

import "errors"

// ready implements Future returned by Ready and Err.
type ready struct {
	result PollResult
	err    error
	done   bool
}

// Poll implements future.Future. It completes on the first call and panics on any subsequent one:
// polling a finished future is a contract violation, not a runtime condition.
func (f *ready) Poll(ctx *Context) (PollResult, error) {
	if f.done {
		panic("future: Poll called on a completed future")
	}
	f.done = true
	return f.result, f.err
}

// Ready creates a Future that is immediately ready with the given value on its first poll.
func Ready(value interface{}) Future {
	return &ready{result: value}
}

// Err creates a Future that immediately finishes with the given error on its first poll. A nil err
// is replaced with an empty error value so that the future still takes the error path.
func Err(err error) Future {
	if err == nil {
		err = errors.New("")
	}
	return &ready{err: err}
}
