package input

type EventKind uint8

const (
	EventKeyDown EventKind = iota + 1
	EventKeyUp
	EventQuit
)

type Event struct {
	Kind      EventKind
	Key       Key
	Modifiers Modifiers
	// Repeat is set on key-down events generated while a key is held.
	Repeat bool

	stopped bool
}

// Press is a key-down event.
func Press(k Key, mods Modifiers) Event {
	return Event{Kind: EventKeyDown, Key: k, Modifiers: mods}
}

// Release is a key-up event.
func Release(k Key, mods Modifiers) Event {
	return Event{Kind: EventKeyUp, Key: k, Modifiers: mods}
}

func Quit() Event {
	return Event{Kind: EventQuit}
}

// IsPress is a key-down that is not an auto-repeat.
func (e *Event) IsPress(k Key) bool {
	return e.Kind == EventKeyDown && e.Key == k && !e.Repeat
}

func (e *Event) IsRelease(k Key) bool {
	return e.Kind == EventKeyUp && e.Key == k
}

// StopPropagation hides the event from every later consumer this frame.
func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) Stopped() bool {
	return e.stopped
}

// Source produces the events of one frame.
type Source interface {
	Poll(emit func(Event))
}

// EventStream is the per-frame event list shared by systems.
type EventStream struct {
	events []Event
}

func NewEventStream() *EventStream {
	return &EventStream{}
}

// Refill replaces the previous frame's events with those from src.
func (s *EventStream) Refill(src Source) {
	s.events = s.events[:0]
	if src == nil {
		return
	}
	src.Poll(func(ev Event) {
		s.events = append(s.events, ev)
	})
}

// Push appends a single event.
func (s *EventStream) Push(ev Event) {
	s.events = append(s.events, ev)
}

// Each visits events that have not been stopped.
func (s *EventStream) Each(fn func(*Event)) {
	for i := range s.events {
		if s.events[i].stopped {
			continue
		}
		fn(&s.events[i])
	}
}

// Len counts events that have not been stopped.
func (s *EventStream) Len() int {
	n := 0
	for i := range s.events {
		if !s.events[i].stopped {
			n++
		}
	}
	return n
}

// ScriptedSource replays fixed frames of events, one per Poll.
type ScriptedSource struct {
	Frames [][]Event
	frame  int
}

func (s *ScriptedSource) Poll(emit func(Event)) {
	if s.frame >= len(s.Frames) {
		return
	}
	for _, ev := range s.Frames[s.frame] {
		emit(ev)
	}
	s.frame++
}
