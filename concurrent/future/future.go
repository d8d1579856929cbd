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

// A Future represents an asynchronous computation.
//
// The design is borrowed from Rust's Future [0][1][2].
//
// A Future is a value that may not have finished computing yet. This kind of "asynchronous value"
// makes it possible for a goroutine to continue doing useful work while it waits for the value to
// become available.
//
// Futures alone are inert; they must be actively polled to make progress, meaning that each time
// the current task is woken up, it should actively re-poll pending futures that it still has an
// interest in.
//
// The Poll function is not called repeatedly in a tight loop -- instead, it should only be called
// when the future indicates that it is ready to make progress (by calling Wake on the Waker
// carried in the Context). If you're familiar with the poll(2) or select(2) syscalls on Unix it's
// worth noting that futures typically do *not* suffer the same problems of "all wakeups must poll
// all events"; they are more like epoll(4).
//
// An implementation of Poll should strive to return quickly, and must *never* block. Returning
// quickly prevents unnecessarily clogging up threads or event loops. If it is known ahead of time
// that a call to Poll may end up taking awhile, the work should be offloaded to a worker pool (or
// something similar) to ensure that Poll can return quickly.
//
// [0]: https://doc.rust-lang.org/std/future/index.html
// [1]: http://aturon.github.io/blog/2016/08/11/futures/
// [2]: https://aturon.github.io/blog/2016/09/07/futures-design/
type Future interface {
	// Poll attempts to resolve the future to a final value, registering the current task for wakeup
	// if the value is not yet available.
	//
	// This function returns a tuple of (PollResult, error):
	//
	//	* ([any value], err): If error value is presented, the future is immediately finished with the
	//    error value.
	//	* (PollResultPending, nil): indicates the future is not ready yet
	//	* ([value other than PollResultPending], nil): indicates the future finished successfully with
	//    a value.
	//
	// Once a future has finished, clients must not poll it again. Implementations are allowed to
	// panic on such a call (Ready, Err and Fuse do); the panic propagates out of the driver
	// uncaught because it signals a programming error, not a runtime condition.
	//
	// When a future is not ready yet, Poll returns PollResultPending and stores the Waker found in
	// ctx to be woken once the future can make progress. For example, a future waiting for a socket
	// to become readable would store the waker. When a signal arrives elsewhere indicating that the
	// socket is readable, Wake is called and the future's task is awoken. Once a task has been woken
	// up, it should attempt to poll the future again, which may or may not produce a final value.
	// A future that returns PollResultPending without arranging a wake can be left unpolled forever;
	// that is a liveness bug in the future, not in its driver.
	//
	// Note that on multiple calls to Poll, only the most recent Waker passed to Poll should be
	// scheduled to receive a wakeup.
	Poll(ctx *Context) (PollResult, error)
}
