package mailbox

import (
	"context"
	"testing"
	"time"
)

func TestMailbox(t *testing.T) {
	t.Run("latest put wins", func(t *testing.T) {
		m := New[int]()
		m.Put(1)
		m.Put(2)
		m.Put(3)

		v, ok := m.TryTake()
		if !ok || v != 3 {
			t.Errorf("TryTake = %d, %v; want 3, true", v, ok)
		}
		if _, ok := m.TryTake(); ok {
			t.Error("mailbox must be empty after a take")
		}
	})

	t.Run("take blocks until put", func(t *testing.T) {
		m := New[string]()

		done := make(chan string)
		go func() {
			v, _ := m.Take(context.Background())
			done <- v
		}()

		m.Put("hello")

		select {
		case v := <-done:
			if v != "hello" {
				t.Errorf("Take = %q, want hello", v)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Take did not return after Put")
		}
	})

	t.Run("take honors cancellation", func(t *testing.T) {
		m := New[int]()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, ok := m.Take(ctx); ok {
			t.Error("Take on a cancelled context must report not-ok")
		}
	})

	t.Run("put never blocks", func(t *testing.T) {
		m := New[int]()
		for i := 0; i < 100; i++ {
			m.Put(i)
		}
		v, ok := m.TryTake()
		if !ok || v != 99 {
			t.Errorf("TryTake = %d, %v; want 99, true", v, ok)
		}
	})
}
