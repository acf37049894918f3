package trawler

import (
	"container/heap"
	"sync"

	"github.com/evemarkets/crest-trawler/internal/model"
)

// pollTask pairs an item with its scheduling priority: 0 for the
// initial seeding, otherwise the UnixNano completion time of the item's
// previous full poll cycle.
type pollTask struct {
	priority int64
	seq      int64 // tie-break: preserve enqueue order within a priority
	item     model.Item
}

// itemQueue is a blocking min-heap of poll tasks. The task with the
// smallest priority is dequeued next.
type itemQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  taskHeap
	seq    int64
	closed bool
}

func newItemQueue() *itemQueue {
	q := &itemQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// put enqueues a task. No-op after close.
func (q *itemQueue) put(priority int64, item model.Item) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.seq++
	heap.Push(&q.tasks, pollTask{priority: priority, seq: q.seq, item: item})
	q.cond.Signal()
}

// get blocks until a task is available or the queue is closed. The
// second return is false once the queue is closed.
func (q *itemQueue) get() (pollTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.tasks.Len() == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.closed {
		return pollTask{}, false
	}

	return heap.Pop(&q.tasks).(pollTask), true
}

// close wakes all blocked getters. Unlike the upload queue, pending
// tasks are not drained: the next process start re-seeds from discovery.
func (q *itemQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *itemQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tasks.Len()
}

// peek returns the lowest-priority task without removing it.
func (q *itemQueue) peek() (pollTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.tasks.Len() == 0 {
		return pollTask{}, false
	}
	return q.tasks[0], true
}

// taskHeap implements heap.Interface ordered by (priority, seq).
type taskHeap []pollTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(pollTask))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	task := old[n-1]
	*h = old[:n-1]
	return task
}
