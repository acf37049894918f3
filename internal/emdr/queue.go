package emdr

import (
	"sync"

	"github.com/evemarkets/crest-trawler/internal/model"
)

// batchQueue is an unbounded FIFO of upload batches backed by a ring
// buffer that doubles when it reaches 70% capacity. Enqueue never blocks
// and never drops; depth growth is observed via Len, not throttled.
type batchQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []model.UploadBatch
	head     int
	tail     int
	count    int
	capacity int
	closed   bool
}

func newBatchQueue(initialCapacity int) *batchQueue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	q := &batchQueue{
		buf:      make([]model.UploadBatch, initialCapacity),
		capacity: initialCapacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// enqueue adds a batch and returns the queue depth after the add.
// Returns -1 if the queue is closed.
func (q *batchQueue) enqueue(b model.UploadBatch) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return -1
	}

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold {
		q.grow()
	}

	q.buf[q.tail] = b
	q.tail = (q.tail + 1) % q.capacity
	q.count++

	q.cond.Signal()
	return q.count
}

// dequeue blocks until a batch is available or the queue is closed and
// drained. The second return is false only in the latter case.
func (q *batchQueue) dequeue() (model.UploadBatch, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.count == 0 {
		return model.UploadBatch{}, false
	}

	b := q.buf[q.head]
	q.buf[q.head] = model.UploadBatch{} // release order slice for GC
	q.head = (q.head + 1) % q.capacity
	q.count--
	return b, true
}

// close wakes all blocked dequeuers; remaining batches are still drained.
func (q *batchQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *batchQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// grow doubles capacity. Caller must hold q.mu.
func (q *batchQueue) grow() {
	newBuf := make([]model.UploadBatch, q.capacity*2)
	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}
	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity *= 2
}
