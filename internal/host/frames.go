package host

import "time"

type frameRequest struct {
	id       FrameID
	callback FrameCallback
}

// FrameQueue is a FrameScheduler pumped by the render loop. Callbacks
// requested while a frame runs are deferred to the following frame.
type FrameQueue struct {
	nextID    FrameID
	pending   []frameRequest
	cancelled map[FrameID]struct{}

	// running holds the callbacks of the batch in flight that have not
	// been invoked yet.
	running []frameRequest
	frames    uint64
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{
		cancelled: make(map[FrameID]struct{}),
	}
}

func (q *FrameQueue) RequestFrame(callback FrameCallback) FrameID {
	q.nextID++
	q.pending = append(q.pending, frameRequest{id: q.nextID, callback: callback})
	return q.nextID
}

// CancelFrame drops a request that has not fired yet, including one queued
// later in the batch that is currently running.
func (q *FrameQueue) CancelFrame(id FrameID) {
	for _, queue := range [][]frameRequest{q.pending, q.running} {
		for _, req := range queue {
			if req.id == id {
				q.cancelled[id] = struct{}{}
				return
			}
		}
	}
}

// RunFrame invokes every callback that was pending when it was called.
// It returns the number of callbacks invoked.
func (q *FrameQueue) RunFrame(now time.Duration) int {
	q.running = q.pending
	q.pending = nil
	q.frames++

	ran := 0
	for len(q.running) > 0 {
		req := q.running[0]
		q.running = q.running[1:]
		if _, ok := q.cancelled[req.id]; ok {
			delete(q.cancelled, req.id)
			continue
		}
		req.callback(now)
		ran++
	}
	return ran
}

// Pending returns the number of outstanding, non-cancelled requests.
func (q *FrameQueue) Pending() int {
	n := 0
	for _, req := range q.pending {
		if _, ok := q.cancelled[req.id]; !ok {
			n++
		}
	}
	return n
}

// Frames returns how many times RunFrame has been called.
func (q *FrameQueue) Frames() uint64 {
	return q.frames
}
