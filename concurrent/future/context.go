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

// A Context carries the Waker an executor supplies to each Poll call. A pending future that wants
// to be re-polled later should grab the waker via Waker (keeping a copy of the interface value is
// the "clone") and invoke Wake on it once progress becomes possible.
//
// Context exists so that the executor-to-future boundary can grow without touching every Poll
// implementation; today the waker is the only thing crossing it.
type Context struct {
	waker Waker
}

// NewContext creates a Context carrying the given waker. A nil waker is replaced by NopWaker so
// that Poll implementations can call ctx.Waker().Wake() unconditionally.
func NewContext(waker Waker) *Context {
	if waker == nil {
		waker = NopWaker
	}
	return &Context{waker: waker}
}

// Waker returns the Waker associated with the task currently being polled.
func (ctx *Context) Waker() Waker {
	return ctx.waker
}
