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

// fuse implements Future returned by Fuse.
type fuse struct {
	inner Future
	done  bool
}

// Poll implements future.Future.
func (f *fuse) Poll(ctx *Context) (PollResult, error) {
	if f.done {
		panic("future: Poll called on a completed future")
	}

	result, err := f.inner.Poll(ctx)
	if err != nil || IsReady(result) {
		f.done = true
		// Release the inner future; it must not be polled again anyway.
		f.inner = nil
	}
	return result, err
}

// Fuse wraps f so that polling it after completion panics instead of reaching the underlying
// future. Futures built by this package already behave this way; Fuse extends the guarantee to
// arbitrary Poll implementations whose post-completion behavior is unknown.
func Fuse(f Future) Future {
	return &fuse{inner: f}
}
