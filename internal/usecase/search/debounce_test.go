package search

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var runs atomic.Int32
	var got atomic.Uint64
	done := make(chan struct{}, 1)

	var last uint64
	for range 5 {
		last = d.Submit(func(seq uint64) {
			runs.Add(1)
			got.Store(seq)
			done <- struct{}{}
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced run never fired")
	}
	time.Sleep(60 * time.Millisecond)

	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
	if got.Load() != last {
		t.Errorf("ran seq %d, want latest %d", got.Load(), last)
	}
}

func TestDebouncer_SequenceIncreases(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	a := d.Submit(func(uint64) {})
	b := d.Submit(func(uint64) {})
	if b <= a {
		t.Errorf("seq %d not after %d", b, a)
	}
	if d.IsCurrent(a) || !d.IsCurrent(b) {
		t.Error("only the latest submission is current")
	}
	if d.Current() != b {
		t.Errorf("Current() = %d, want %d", d.Current(), b)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var ran atomic.Bool
	seq := d.Submit(func(uint64) { ran.Store(true) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if ran.Load() {
		t.Error("stopped run fired")
	}
	if d.IsCurrent(seq) {
		t.Error("Stop must invalidate issued sequence numbers")
	}
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var mu sync.Mutex
	var seen []uint64
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		d.Submit(func(seq uint64) {
			mu.Lock()
			seen = append(seen, seq)
			mu.Unlock()
			wg.Done()
		})
		time.Sleep(50 * time.Millisecond)
	}
	wg.Wait()

	if len(seen) != 2 || seen[0] >= seen[1] {
		t.Errorf("seen = %v, want two increasing runs", seen)
	}
}

func TestNewDebouncer_DefaultWait(t *testing.T) {
	if d := NewDebouncer(0); d.wait != DefaultQuiescence {
		t.Errorf("wait = %v, want %v", d.wait, DefaultQuiescence)
	}
}
