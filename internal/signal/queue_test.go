package signal

import (
	"testing"
	"time"
)

func TestQueuePushThenPullFIFO(t *testing.T) {
	q := NewQueue(0)
	q.Push([]Value{String("a")})
	q.Push([]Value{String("b")})

	v, ok := q.Pull(nil)
	if !ok || v[0].Str != "a" {
		t.Fatalf("expected 'a' first, got %+v, ok=%v", v, ok)
	}
	v, ok = q.Pull(nil)
	if !ok || v[0].Str != "b" {
		t.Fatalf("expected 'b' second, got %+v, ok=%v", v, ok)
	}
}

func TestQueuePullBlocksUntilPush(t *testing.T) {
	q := NewQueue(0)
	done := make(chan []Value, 1)
	go func() {
		v, _ := q.Pull(nil)
		done <- v
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push([]Value{String("woken")})

	select {
	case v := <-done:
		if v[0].Str != "woken" {
			t.Errorf("got %+v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Pull did not wake on Push")
	}
}

func TestQueuePullHonoursDeadline(t *testing.T) {
	q := NewQueue(0)
	deadline := time.Now().Add(100 * time.Millisecond)
	start := time.Now()
	_, ok := q.Pull(&deadline)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("expected timeout with no values")
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("returned too early: %v", elapsed)
	}
	if elapsed > 400*time.Millisecond {
		t.Errorf("returned too late: %v", elapsed)
	}
}

func TestQueueCapacityDropsOldest(t *testing.T) {
	q := NewQueue(1)
	q.Push([]Value{String("old")})
	q.Push([]Value{String("new")})

	v, ok := q.Pull(nil)
	if !ok || v[0].Str != "new" {
		t.Errorf("expected capacity-1 queue to keep only the newest, got %+v", v)
	}
}

func TestQueueCloseWakesBlockedPull(t *testing.T) {
	q := NewQueue(0)
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pull(nil)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected Pull to return no values after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake blocked Pull")
	}
}
