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

package concurrent

import (
	"errors"
	"time"

	"github.com/polluxio/pollux/concurrent/future"

	"github.com/google/uuid"
)

// Task represents a plain synchronous computation that can be submitted to an Executor alongside
// futures. It is the degenerate case of a Future: one that does all its work in a single poll.
type Task interface {
	// Run performs actions to complete a Task. The return value would be sent to the corresponding
	// TaskHandle which can be then accessed via calling AwaitResult.
	Run() (interface{}, error)
}

// The TaskFunc type is an adapter to allow the use of ordinary functions as a Task.
type TaskFunc func() (interface{}, error)

// TaskFunc implements Task.
var _ Task = (TaskFunc)(nil)

// Run implements Task. It calls f().
func (f TaskFunc) Run() (interface{}, error) {
	return f()
}

// taskFuture adapts a Task into a Future that completes on its first poll.
type taskFuture struct {
	task Task
}

// Poll implements future.Future.
func (f *taskFuture) Poll(ctx *future.Context) (future.PollResult, error) {
	if f.task == nil {
		panic("concurrent: Poll called on a completed task")
	}
	task := f.task
	f.task = nil
	return task.Run()
}

// Error values to be returned from TaskHandle methods.
var (
	// ErrTaskCancelled indicates the task is cancelled.
	ErrTaskCancelled = errors.New("task was cancelled")
	// ErrAwaitTaskResultTimeout indicates runs out of time to wait for result.
	ErrAwaitTaskResultTimeout = errors.New("timeout while waiting task result")
	// ErrTaskNotCancellable indicates a cancellation request arrived while the task was being
	// polled or after it completed.
	ErrTaskNotCancellable = errors.New("task is running or has already completed")
)

// TaskHandle tracks progress of a submitted future and can be used to cancel execution and/or
// wait for completion.
type TaskHandle interface {
	// ID returns the identity assigned to the task at submission.
	ID() uuid.UUID

	// Cancel tries to cancel execution of the associated task: the underlying future is dropped and
	// will never be polled again. It succeeds while the task sits in the ready queue or is parked
	// waiting for a wake; once a worker is polling the future, or the future completed, Cancel
	// returns ErrTaskNotCancellable.
	Cancel() error

	// AwaitResult blocks the caller until the underlying task completed or timeout. A timeout of
	// zero means wait forever. Possible return values are:
	//
	//  1. (nil, ErrTaskCancelled): task was cancelled.
	//  2. (nil, ErrAwaitTaskResultTimeout)
	//  3. (any, any): the completion value of the underlying future.
	AwaitResult(timeout time.Duration) (interface{}, error)
}

// Executor provides interfaces to manage and to drive futures.
type Executor interface {
	// Shutdown shuts down the executor. Tasks already in the ready queue are driven but no new tasks
	// will be accepted, and tasks parked waiting for a wake are abandoned (their next wake completes
	// them with ErrTaskCancelled). It is a no-op if the executor has already shut down. It returns a
	// channel which will receive a notification from the Executor when all remaining queued tasks
	// have completed after the shutdown request.
	Shutdown() (terminated <-chan bool, err error)

	// Submit submits a future for driving. The method only arranges the first poll; the actual
	// execution may occur sometime later.
	Submit(f future.Future) (TaskHandle, error)
}
