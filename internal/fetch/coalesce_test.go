package fetch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescerDeduplicatesConcurrentCalls(t *testing.T) {
	co := NewCoalescer[string]()

	var fetches int32
	release := make(chan struct{})

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = co.Do("schedule:2024-07-04", func() (string, error) {
				atomic.AddInt32(&fetches, 1)
				<-release
				return "payload", nil
			})
		}(i)
	}

	// let every caller join the in-flight fetch before it resolves
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Errorf("caller %d error: %v", i, errs[i])
		}
		if results[i] != "payload" {
			t.Errorf("caller %d result = %q, want payload", i, results[i])
		}
	}
}

func TestCoalescerDistinctKeysDoNotShare(t *testing.T) {
	co := NewCoalescer[int]()

	var fetches int32
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "a"
			if i == 1 {
				key = "b"
			}
			co.Do(key, func() (int, error) {
				atomic.AddInt32(&fetches, 1)
				time.Sleep(20 * time.Millisecond)
				return i, nil
			})
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&fetches); got != 2 {
		t.Errorf("fetches = %d, want 2", got)
	}
}

func TestCoalescerSharesErrors(t *testing.T) {
	co := NewCoalescer[string]()
	wantErr := errors.New("upstream down")

	release := make(chan struct{})
	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = co.Do("key", func() (string, error) {
				<-release
				return "", wantErr
			})
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, wantErr) {
			t.Errorf("caller %d error = %v, want %v", i, err, wantErr)
		}
	}
}

func TestCoalescerFailureIsNotSticky(t *testing.T) {
	co := NewCoalescer[string]()

	calls := 0
	if _, err := co.Do("k", func() (string, error) {
		calls++
		return "", errors.New("boom")
	}); err == nil {
		t.Fatal("expected first call to fail")
	}

	got, err := co.Do("k", func() (string, error) {
		calls++
		return "recovered", nil
	})
	if err != nil || got != "recovered" {
		t.Fatalf("second call = %q/%v, want recovered/nil", got, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (a failed flight must not be cached)", calls)
	}
}
