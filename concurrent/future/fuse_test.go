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

package future_test

import (
	"errors"

	"github.com/polluxio/pollux/concurrent/future"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Fuse: guard a future against polls after completion", func() {
	It("passes polls through to the underlying future", func() {
		f := future.Fuse(&countingFuture{remaining: 1, value: 42})
		Expect(future.BlockOn(f)).Should(Equal(42))
	})

	It("panics when polled after the underlying future completed", func() {
		f := future.Fuse(future.Ready(1))
		ctx := future.NewContext(nil)
		Expect(f.Poll(ctx)).Should(Equal(1))
		Expect(func() { f.Poll(ctx) }).Should(Panic())
	})

	It("panics when polled after the underlying future failed", func() {
		f := future.Fuse(future.Err(errors.New("an error value")))
		ctx := future.NewContext(nil)
		_, err := f.Poll(ctx)
		Expect(err).Should(HaveOccurred())
		Expect(func() { f.Poll(ctx) }).Should(Panic())
	})
})
