package ws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestSubscriber() *Subscriber {
	return NewSubscriber(newFakeConn(), time.Second)
}

func TestRegistryAddIsIdempotent(t *testing.T) {
	registry := NewRegistry(time.Minute)
	sub := newTestSubscriber()

	registry.Add(sub)
	registry.Add(sub)

	if got := registry.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestRegistryRemoveAbsentIsNoop(t *testing.T) {
	registry := NewRegistry(time.Minute)
	registry.Remove(newTestSubscriber())

	if got := registry.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestRegistrySnapshotIsolatedFromMutation(t *testing.T) {
	registry := NewRegistry(time.Minute)
	first := newTestSubscriber()
	second := newTestSubscriber()
	registry.Add(first)
	registry.Add(second)

	snapshot := registry.Snapshot()
	registry.Remove(first)
	registry.Remove(second)

	if len(snapshot) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snapshot))
	}
	if got := registry.Len(); got != 0 {
		t.Fatalf("Len() after removals = %d, want 0", got)
	}
}

func TestRegistryStartEvictsDeadSubscribers(t *testing.T) {
	registry := NewRegistry(20 * time.Millisecond)

	healthy := newFakeConn()
	broken := newFakeConn()
	broken.writeErr = errors.New("broken pipe")

	alive := NewSubscriber(healthy, time.Second)
	dead := NewSubscriber(broken, time.Second)
	registry.Add(alive)
	registry.Add(dead)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.Len() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := registry.Len(); got != 1 {
		t.Fatalf("Len() after ping eviction = %d, want 1", got)
	}
	if !broken.isClosed() {
		t.Fatal("dead subscriber connection was not closed")
	}
	for _, sub := range registry.Snapshot() {
		if sub == dead {
			t.Fatal("dead subscriber still present in registry snapshot")
		}
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := newTestSubscriber()
			registry.Add(sub)
			for _, s := range registry.Snapshot() {
				_ = s
			}
			registry.Remove(sub)
		}()
	}
	wg.Wait()

	if got := registry.Len(); got != 0 {
		t.Fatalf("Len() after concurrent churn = %d, want 0", got)
	}
}
