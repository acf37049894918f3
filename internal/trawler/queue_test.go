package trawler

import (
	"testing"
	"time"

	"github.com/evemarkets/crest-trawler/internal/model"
)

func TestQueueOrdersByPriority(t *testing.T) {
	q := newItemQueue()

	q.put(300, model.Item{ID: 3})
	q.put(100, model.Item{ID: 1})
	q.put(200, model.Item{ID: 2})

	for _, want := range []int{1, 2, 3} {
		task, ok := q.get()
		if !ok {
			t.Fatal("queue closed unexpectedly")
		}
		if task.item.ID != want {
			t.Errorf("dequeued item %d, want %d", task.item.ID, want)
		}
	}
}

func TestQueueSeedsAreFIFO(t *testing.T) {
	q := newItemQueue()

	// All seeds share priority 0; enqueue order must hold.
	for i := 1; i <= 5; i++ {
		q.put(0, model.Item{ID: i})
	}
	for i := 1; i <= 5; i++ {
		task, _ := q.get()
		if task.item.ID != i {
			t.Errorf("dequeued item %d, want %d", task.item.ID, i)
		}
	}
}

func TestQueueGetBlocksUntilPut(t *testing.T) {
	q := newItemQueue()

	got := make(chan pollTask)
	go func() {
		task, _ := q.get()
		got <- task
	}()

	select {
	case <-got:
		t.Fatal("get returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.put(0, model.Item{ID: 34})

	select {
	case task := <-got:
		if task.item.ID != 34 {
			t.Errorf("item ID = %d, want 34", task.item.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("get did not wake after put")
	}
}

func TestQueueClose(t *testing.T) {
	q := newItemQueue()
	q.put(0, model.Item{ID: 1})
	q.close()

	if _, ok := q.get(); ok {
		t.Error("get on a closed queue returned a task")
	}

	// put after close is a no-op.
	q.put(0, model.Item{ID: 2})
	if q.len() != 1 {
		t.Errorf("len = %d after put on closed queue, want 1", q.len())
	}
}

func TestQueuePeek(t *testing.T) {
	q := newItemQueue()

	if _, ok := q.peek(); ok {
		t.Error("peek on empty queue returned a task")
	}

	q.put(50, model.Item{ID: 2})
	q.put(10, model.Item{ID: 1})

	task, ok := q.peek()
	if !ok || task.item.ID != 1 || task.priority != 10 {
		t.Errorf("peek = (%+v, %v), want lowest-priority task", task, ok)
	}
	if q.len() != 2 {
		t.Errorf("peek consumed a task: len = %d", q.len())
	}
}
