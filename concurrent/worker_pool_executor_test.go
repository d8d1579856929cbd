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

package concurrent_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polluxio/pollux/concurrent"
	"github.com/polluxio/pollux/concurrent/future"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// gateFuture stays pending until Open is called with the completion value. It stores the waker
// from its latest poll, exactly as a future waiting on external I/O would.
type gateFuture struct {
	mutex sync.Mutex
	open  bool
	value interface{}
	waker future.Waker
}

func (f *gateFuture) Poll(ctx *future.Context) (future.PollResult, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.open {
		return f.value, nil
	}
	f.waker = ctx.Waker()
	return future.PollResultPending, nil
}

func (f *gateFuture) Open(value interface{}) {
	f.mutex.Lock()
	f.open = true
	f.value = value
	waker := f.waker
	f.mutex.Unlock()

	if waker != nil {
		Expect(waker.Wake()).Should(Succeed())
	}
}

var _ = Describe("WorkerPoolExecutor", func() {
	It("cannot be created with invalid pool size", func() {
		var err error

		_, err = concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{})
		Expect(err.Error()).Should(ContainSubstring("MaxPoolSize must be a non-zero value"))

		_, err = concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MaxPoolSize: 50,
			MinPoolSize: 100,
		})
		Expect(err.Error()).Should(ContainSubstring("MaxPoolSize (50) should be greater than MinPoolSize (100)"))
	})

	It("can drive a task without pool", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		task := concurrent.TaskFunc(func() (interface{}, error) {
			return "task result", nil
		})
		handle, err := executor.SubmitTask(task)
		Expect(err).ShouldNot(HaveOccurred())

		// Check the execution result.
		Expect(handle.AwaitResult(0)).Should(Equal("task result"))

		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("can drive an immediately ready future", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		handle, err := executor.Submit(future.Ready(42))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(handle.AwaitResult(0)).Should(Equal(42))

		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("parks a pending future and resumes it on wake", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 1,
			MaxPoolSize: 1,
		})
		Expect(err).ShouldNot(HaveOccurred())

		gate := &gateFuture{}
		handle, err := executor.Submit(gate)
		Expect(err).ShouldNot(HaveOccurred())

		// While the future is parked the only worker must stay available for other tasks.
		other, err := executor.SubmitTask(concurrent.TaskFunc(func() (interface{}, error) {
			return "other task", nil
		}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(other.AwaitResult(0)).Should(Equal("other task"))

		// The parked future hasn't completed.
		_, err = handle.AwaitResult(10 * time.Millisecond)
		Expect(err).Should(MatchError(concurrent.ErrAwaitTaskResultTimeout))

		// Wake it up with the completion value.
		gate.Open("woken result")
		Expect(handle.AwaitResult(0)).Should(Equal("woken result"))

		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("assigns a distinct identity to every submission", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		first, err := executor.Submit(future.Ready(1))
		Expect(err).ShouldNot(HaveOccurred())
		second, err := executor.Submit(future.Ready(2))
		Expect(err).ShouldNot(HaveOccurred())

		Expect(first.ID()).ShouldNot(Equal(second.ID()))

		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("can drive multiple tasks with pool", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 4,
			MaxPoolSize: 8,
		})
		Expect(err).ShouldNot(HaveOccurred())

		var x int32
		task := concurrent.TaskFunc(func() (interface{}, error) {
			atomic.AddInt32(&x, 1)
			return nil, nil
		})

		// Dispatch 100 tasks.
		const TIMES = 100
		for i := 0; i < TIMES; i++ {
			_, err := executor.SubmitTask(task)
			Expect(err).ShouldNot(HaveOccurred())
		}

		// Shutdown the executor and wait until termination.
		Expect(shutdownExecutor(executor)).Should(Succeed())

		// Check the result.
		Expect(x).Should(Equal(int32(TIMES)))
	})

	It("can cancel a queued task", func() {
		// Create an executor with pool size 1.
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 1,
			MaxPoolSize: 1,
		})
		Expect(err).ShouldNot(HaveOccurred())

		// Push 2 tasks. The first task will stick the only worker in the pool and leave the 2nd task
		// in the queue. The removal of the 2nd task should succeed.
		stopFirstTask := make(chan bool, 1)
		enterFirstTask := make(chan bool, 1)
		firstTask := concurrent.TaskFunc(func() (interface{}, error) {
			enterFirstTask <- true
			<-stopFirstTask
			return "first task result", nil
		})

		secondTask := concurrent.TaskFunc(func() (interface{}, error) {
			return "second task", nil
		})

		// Push the first task.
		firstTaskHandle, err := executor.SubmitTask(firstTask)
		Expect(err).ShouldNot(HaveOccurred())

		// Wait until the first task is being driven.
		<-enterFirstTask

		// We cannot cancel the first task because it is being driven.
		Expect(firstTaskHandle.Cancel()).Should(MatchError(concurrent.ErrTaskNotCancellable))

		// Push the second task.
		secondTaskHandle, err := executor.SubmitTask(secondTask)
		Expect(err).ShouldNot(HaveOccurred())

		// Cancel the second task.
		Expect(secondTaskHandle.Cancel()).Should(Succeed())

		// Resume first task.
		stopFirstTask <- true

		// Shutdown the executor.
		Expect(shutdownExecutor(executor)).Should(Succeed())

		// Check result.
		Expect(firstTaskHandle.AwaitResult(0)).Should(Equal("first task result"))

		_, secondTaskResult := secondTaskHandle.AwaitResult(0)
		Expect(secondTaskResult).Should(MatchError(concurrent.ErrTaskCancelled))
	})

	It("can cancel a parked future", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 1,
			MaxPoolSize: 1,
		})
		Expect(err).ShouldNot(HaveOccurred())

		gate := &gateFuture{}
		handle, err := executor.Submit(gate)
		Expect(err).ShouldNot(HaveOccurred())

		// Wait for the future to be polled once and parked: a sentinel task submitted behind it
		// completes only after the worker is done with the gate.
		sentinel, err := executor.Submit(future.Ready("sentinel"))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(sentinel.AwaitResult(0)).Should(Equal("sentinel"))

		// Cancel the parked future; it will never be polled again.
		Expect(handle.Cancel()).Should(Succeed())

		_, cancelErr := handle.AwaitResult(0)
		Expect(cancelErr).Should(MatchError(concurrent.ErrTaskCancelled))

		// A late wake is a safe no-op.
		gate.Open("too late")

		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("completes a future that finishes with an error", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		handle, err := executor.Submit(future.Err(errTestFuture))
		Expect(err).ShouldNot(HaveOccurred())

		_, resultErr := handle.AwaitResult(0)
		Expect(resultErr).Should(MatchError(errTestFuture))

		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("allows calling shutdown multiple times", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		// Push some dummy tasks to executor.
		dummyTask := concurrent.TaskFunc(func() (interface{}, error) {
			return "dummy task", nil
		})
		producerDone := make(chan bool, 1)
		go func() {
			for i := 0; i < 100; i++ {
				executor.SubmitTask(dummyTask)
			}
			producerDone <- true
		}()

		const NumShutdownRequests = 10
		terminations := make([]<-chan bool, NumShutdownRequests)
		for i := 0; i < NumShutdownRequests; i++ {
			var err error
			terminations[i], err = executor.Shutdown()
			Expect(err).ShouldNot(HaveOccurred())
		}

		// Block on all terminations.
		for _, termination := range terminations {
			<-termination
		}

		// Wait for producer.
		<-producerDone
	})

	It("allows shutdown after termination", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		// Shutdown the executor.
		Expect(shutdownExecutor(executor)).Should(Succeed())

		// Shutdown again.
		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("cannot submit task after shutdown", func() {
		executor, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MinPoolSize: 0,
			MaxPoolSize: uint32(runtime.GOMAXPROCS(-1)),
		})
		Expect(err).ShouldNot(HaveOccurred())

		// Push a task which will start execution before shutdown.
		stopTask := make(chan bool, 1)
		enterTask := make(chan bool, 1)
		task := concurrent.TaskFunc(func() (interface{}, error) {
			enterTask <- true
			<-stopTask
			return "task executed before shutdown", nil
		})

		// Push the task.
		taskHandle, err := executor.SubmitTask(task)
		Expect(err).ShouldNot(HaveOccurred())

		// Wait until the task is being driven.
		<-enterTask

		// Shutdown the executor.
		terminated, err := executor.Shutdown()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(terminated).ShouldNot(Receive())

		// Push a task which will fail.
		_, err = executor.SubmitTask(concurrent.TaskFunc(func() (interface{}, error) {
			return "task shouldn't be driven", nil
		}))
		Expect(err).Should(HaveOccurred())

		// Finish task.
		stopTask <- true

		// Check result.
		Eventually(terminated).Should(Receive())
		Expect(taskHandle.AwaitResult(0)).Should(Equal("task executed before shutdown"))
	})
})
