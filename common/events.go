package common

// ReaderID identifies a registered reader of an EventChannel.
type ReaderID int

// EventChannel is an append-only event buffer with independent reader
// cursors. Every event gets a monotonic sequence number; each reader only
// sees what was written after its previous read. Events that every reader
// has consumed are released.
type EventChannel[T any] struct {
	events  []T
	base    uint64
	cursors []uint64
}

func NewEventChannel[T any]() *EventChannel[T] {
	return &EventChannel[T]{}
}

// RegisterReader adds a reader positioned at the current head, so it
// never observes events written before it was registered.
func (c *EventChannel[T]) RegisterReader() ReaderID {
	c.cursors = append(c.cursors, c.Head())
	return ReaderID(len(c.cursors) - 1)
}

// Write appends an event. With no registered readers the event is dropped.
func (c *EventChannel[T]) Write(ev T) {
	if c == nil || len(c.cursors) == 0 {
		return
	}
	c.events = append(c.events, ev)
}

// Read returns the events written since the reader's last read or skip.
func (c *EventChannel[T]) Read(r ReaderID) []T {
	cursor := c.cursor(r)
	head := c.Head()
	if cursor >= head {
		return nil
	}
	start := int(cursor - c.base)
	out := make([]T, len(c.events)-start)
	copy(out, c.events[start:])
	c.cursors[r] = head
	c.trim()
	return out
}

// SkipToHead discards every event the reader has not seen yet.
func (c *EventChannel[T]) SkipToHead(r ReaderID) {
	c.cursor(r)
	c.cursors[r] = c.Head()
	c.trim()
}

// Head is the sequence number the next written event will get.
func (c *EventChannel[T]) Head() uint64 {
	if c == nil {
		return 0
	}
	return c.base + uint64(len(c.events))
}

// Len is the number of buffered events not yet consumed by every reader.
func (c *EventChannel[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.events)
}

func (c *EventChannel[T]) cursor(r ReaderID) uint64 {
	if c == nil || int(r) < 0 || int(r) >= len(c.cursors) {
		panic("event channel: unknown reader")
	}
	return c.cursors[r]
}

func (c *EventChannel[T]) trim() {
	lowest := c.Head()
	for _, cur := range c.cursors {
		if cur < lowest {
			lowest = cur
		}
	}
	drop := int(lowest - c.base)
	if drop <= 0 {
		return
	}
	var zero T
	for i := 0; i < drop; i++ {
		c.events[i] = zero
	}
	c.events = c.events[drop:]
	c.base = lowest
	if len(c.events) == 0 {
		c.events = nil
	}
}
