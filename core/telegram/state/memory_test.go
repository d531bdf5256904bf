package state

import (
	"sync"
	"testing"
)

func TestMemoryManagerDefaultsToIdle(t *testing.T) {
	m := NewMemoryManager()
	if st := m.GetState(42); st != StateIdle {
		t.Fatalf("expected idle for unknown user, got %q", st)
	}
	if m.InProgress(42) {
		t.Fatal("unknown user must not be in progress")
	}
}

func TestMemoryManagerSetClear(t *testing.T) {
	const awaiting State = "awaiting_withdrawal_amount"
	m := NewMemoryManager()

	m.SetState(7, awaiting)
	if st := m.GetState(7); st != awaiting {
		t.Fatalf("got %q, want %q", st, awaiting)
	}
	if !m.InProgress(7) {
		t.Fatal("user with state must be in progress")
	}

	m.ClearState(7)
	if st := m.GetState(7); st != StateIdle {
		t.Fatalf("expected idle after clear, got %q", st)
	}

	m.SetState(7, StateIdle)
	if m.InProgress(7) {
		t.Fatal("explicit idle must not count as in progress")
	}
}

func TestMemoryManagerConcurrentAccess(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, "awaiting_join_check")
			_ = m.GetState(id)
			m.ClearState(id)
		}(int64(i % 8))
	}
	wg.Wait()
}
