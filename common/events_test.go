package common

import "testing"

func TestEventChannelReaders(t *testing.T) {
	t.Run("reader_sees_only_new_events", func(t *testing.T) {
		ch := NewEventChannel[int]()
		r := ch.RegisterReader()
		ch.Write(1)
		ch.Write(2)
		if got := ch.Read(r); len(got) != 2 || got[0] != 1 || got[1] != 2 {
			t.Fatalf("expected [1 2], got %v", got)
		}
		if got := ch.Read(r); len(got) != 0 {
			t.Fatalf("expected no replay, got %v", got)
		}
		ch.Write(3)
		if got := ch.Read(r); len(got) != 1 || got[0] != 3 {
			t.Fatalf("expected [3], got %v", got)
		}
	})

	t.Run("late_reader_skips_history", func(t *testing.T) {
		ch := NewEventChannel[int]()
		early := ch.RegisterReader()
		ch.Write(1)
		late := ch.RegisterReader()
		ch.Write(2)
		if got := ch.Read(late); len(got) != 1 || got[0] != 2 {
			t.Fatalf("late reader expected [2], got %v", got)
		}
		if got := ch.Read(early); len(got) != 2 {
			t.Fatalf("early reader expected two events, got %v", got)
		}
	})

	t.Run("skip_to_head", func(t *testing.T) {
		ch := NewEventChannel[string]()
		r := ch.RegisterReader()
		ch.Write("a")
		ch.SkipToHead(r)
		if got := ch.Read(r); got != nil {
			t.Fatalf("expected nothing after skip, got %v", got)
		}
		if ch.Len() != 0 {
			t.Fatalf("expected buffer trimmed, len=%d", ch.Len())
		}
	})

	t.Run("trim_waits_for_slowest_reader", func(t *testing.T) {
		ch := NewEventChannel[int]()
		fast := ch.RegisterReader()
		slow := ch.RegisterReader()
		for i := 0; i < 5; i++ {
			ch.Write(i)
		}
		ch.Read(fast)
		if ch.Len() != 5 {
			t.Fatalf("expected 5 buffered events, got %d", ch.Len())
		}
		ch.Read(slow)
		if ch.Len() != 0 {
			t.Fatalf("expected empty buffer, got %d", ch.Len())
		}
		if ch.Head() != 5 {
			t.Fatalf("head should be monotonic, got %d", ch.Head())
		}
	})

	t.Run("no_readers_drops", func(t *testing.T) {
		ch := NewEventChannel[int]()
		ch.Write(1)
		if ch.Len() != 0 || ch.Head() != 0 {
			t.Fatalf("expected write without readers to be dropped")
		}
	})
}

func TestEventChannelUnknownReaderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown reader")
		}
	}()
	ch := NewEventChannel[int]()
	ch.Read(ReaderID(3))
}
