package emdr

import (
	"testing"
	"time"

	"github.com/evemarkets/crest-trawler/internal/model"
)

func TestQueueFIFO(t *testing.T) {
	q := newBatchQueue(4)

	for i := 0; i < 3; i++ {
		q.enqueue(model.UploadBatch{TypeID: i})
	}

	for i := 0; i < 3; i++ {
		b, ok := q.dequeue()
		if !ok {
			t.Fatal("dequeue returned closed")
		}
		if b.TypeID != i {
			t.Errorf("dequeued TypeID %d, want %d", b.TypeID, i)
		}
	}
}

func TestQueueGrowsUnbounded(t *testing.T) {
	q := newBatchQueue(2)

	const n = 500
	for i := 0; i < n; i++ {
		if depth := q.enqueue(model.UploadBatch{TypeID: i}); depth != i+1 {
			t.Fatalf("enqueue %d returned depth %d", i, depth)
		}
	}
	if q.len() != n {
		t.Fatalf("len = %d, want %d", q.len(), n)
	}

	// Order survives growth.
	for i := 0; i < n; i++ {
		b, _ := q.dequeue()
		if b.TypeID != i {
			t.Fatalf("dequeued TypeID %d, want %d", b.TypeID, i)
		}
	}
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := newBatchQueue(4)

	got := make(chan model.UploadBatch)
	go func() {
		b, _ := q.dequeue()
		got <- b
	}()

	select {
	case <-got:
		t.Fatal("dequeue returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.enqueue(model.UploadBatch{TypeID: 34})

	select {
	case b := <-got:
		if b.TypeID != 34 {
			t.Errorf("TypeID = %d, want 34", b.TypeID)
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake after enqueue")
	}
}

func TestCloseDrainsThenReturnsFalse(t *testing.T) {
	q := newBatchQueue(4)
	q.enqueue(model.UploadBatch{TypeID: 1})
	q.close()

	if depth := q.enqueue(model.UploadBatch{TypeID: 2}); depth != -1 {
		t.Errorf("enqueue after close returned %d, want -1", depth)
	}

	if b, ok := q.dequeue(); !ok || b.TypeID != 1 {
		t.Errorf("dequeue after close = (%+v, %v), want queued batch", b, ok)
	}
	if _, ok := q.dequeue(); ok {
		t.Error("dequeue on closed empty queue returned ok")
	}
}
