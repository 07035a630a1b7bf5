package registry

import (
	"fmt"
	"testing"
	"time"
)

func TestRegisterAndUnregister(t *testing.T) {
	r := New(1 << 20)

	cleaned := false
	r.Register("res1", TypeData, func() { cleaned = true }, 100)

	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	if r.TotalSize() != 100 {
		t.Errorf("total size = %d, want 100", r.TotalSize())
	}

	if !r.Unregister("res1") {
		t.Fatal("expected unregister to report true")
	}
	if !cleaned {
		t.Error("expected cleanup to run on unregister")
	}
	if r.Unregister("res1") {
		t.Error("expected second unregister to report false")
	}
}

func TestRegisterReplacesAndCleansPrior(t *testing.T) {
	r := New(1 << 20)

	firstCleaned := false
	r.Register("res", TypeData, func() { firstCleaned = true }, 10)
	r.Register("res", TypeData, nil, 20)

	if !firstCleaned {
		t.Error("expected prior resource cleanup on replacement")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
	if r.TotalSize() != 20 {
		t.Errorf("total size = %d, want 20", r.TotalSize())
	}
}

func TestCleanupByMemoryEvictsOldestAccessedFirst(t *testing.T) {
	r := New(1000)

	// 20 resources of size 100 = 2000 bytes, over the 1000 threshold
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("res%02d", i)
		r.Register(id, TypeData, nil, 100)
		time.Sleep(time.Millisecond)
	}
	// refresh the first five so they become most recently used
	for i := 0; i < 5; i++ {
		r.Access(fmt.Sprintf("res%02d", i))
	}

	evicted := r.CleanupByMemory()
	if evicted == 0 {
		t.Fatal("expected evictions over the threshold")
	}

	// target is 80% of threshold
	if r.TotalSize() > 800 {
		t.Errorf("total size = %d after cleanup, want <= 800", r.TotalSize())
	}

	// the refreshed resources were the most recently accessed; they
	// should all have survived
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("res%02d", i)
		found := false
		for _, info := range r.Snapshot() {
			if info.ID == id {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected recently accessed %s to survive", id)
		}
	}
}

func TestCleanupByMemoryBelowThresholdIsNoop(t *testing.T) {
	r := New(1000)
	r.Register("a", TypeData, nil, 400)
	r.Register("b", TypeData, nil, 400)

	if evicted := r.CleanupByMemory(); evicted != 0 {
		t.Errorf("evicted %d under threshold, want 0", evicted)
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}
}

func TestCleanupOld(t *testing.T) {
	r := New(1 << 20)

	staleCleaned := false
	r.Register("stale", TypeTimer, func() { staleCleaned = true }, 10)
	time.Sleep(30 * time.Millisecond)
	r.Register("fresh", TypeTimer, nil, 10)

	evicted := r.CleanupOld(20 * time.Millisecond)
	if evicted != 1 {
		t.Fatalf("evicted %d, want 1", evicted)
	}
	if !staleCleaned {
		t.Error("expected stale resource cleanup to run")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestAccessPreventsAgeEviction(t *testing.T) {
	r := New(1 << 20)
	r.Register("res", TypeCache, nil, 10)

	time.Sleep(30 * time.Millisecond)
	r.Access("res")

	if evicted := r.CleanupOld(20 * time.Millisecond); evicted != 0 {
		t.Errorf("evicted %d, want 0 after refresh", evicted)
	}
}

func TestUpdateSize(t *testing.T) {
	r := New(1 << 20)
	r.Register("res", TypeCache, nil, 10)
	r.UpdateSize("res", 5000)

	if r.TotalSize() != 5000 {
		t.Errorf("total size = %d, want 5000", r.TotalSize())
	}
}

func TestCleanupPanicDoesNotPropagate(t *testing.T) {
	r := New(1 << 20)
	r.Register("bad", TypeListener, func() { panic("boom") }, 10)

	defer func() {
		if err := recover(); err != nil {
			t.Errorf("panic escaped cleanup: %v", err)
		}
	}()
	r.Unregister("bad")
}

func TestSnapshotOrdering(t *testing.T) {
	r := New(1 << 20)
	r.Register("first", TypeData, nil, 1)
	time.Sleep(time.Millisecond)
	r.Register("second", TypeData, nil, 1)
	time.Sleep(time.Millisecond)
	r.Access("first")

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot len = %d, want 2", len(snap))
	}
	if snap[0].ID != "second" {
		t.Errorf("expected oldest-accessed first, got %s", snap[0].ID)
	}
}
