package telegram

import "sync"

// Dispatcher runs tasks one at a time per user, in arrival order, while
// different users proceed in parallel. A user's worker goroutine exits as
// soon as its queue is empty.
type Dispatcher struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

// NewDispatcher creates an idle Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{pending: make(map[int64][]func())}
}

// Dispatch queues task for userID.
func (d *Dispatcher) Dispatch(userID int64, task func()) {
	d.mu.Lock()
	queue, running := d.pending[userID]
	d.pending[userID] = append(queue, task)
	if !running {
		d.wg.Add(1)
	}
	d.mu.Unlock()

	if !running {
		go d.drain(userID)
	}
}

func (d *Dispatcher) drain(userID int64) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		queue := d.pending[userID]
		if len(queue) == 0 {
			delete(d.pending, userID)
			d.mu.Unlock()
			return
		}
		task := queue[0]
		queue[0] = nil
		d.pending[userID] = queue[1:]
		d.mu.Unlock()

		task()
	}
}

// Wait blocks until every queued task has run.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Workers returns the number of users with a running worker.
func (d *Dispatcher) Workers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
