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

// A PollResult indicates whether a value is available or not. There are exactly two cases: the
// special PollResultPending value means "not yet complete"; any other value is the completed
// value itself.
type PollResult interface{}

// pollPendingResult serves as type for PollResultPending. The dedicated type keeps the sentinel
// distinguishable from any value a future could legitimately complete with.
type pollPendingResult int

// PollResultPending is a special value which will be recognized by executors to indicate that
// value of the future is not ready yet.
const PollResultPending = pollPendingResult(0)

// IsReady returns true if result indicates a completed future (i.e., it is anything other than
// PollResultPending).
func IsReady(result PollResult) bool {
	return result != PollResultPending
}
