package input

import "testing"

func TestEventStreamPropagation(t *testing.T) {
	src := &ScriptedSource{Frames: [][]Event{
		{Press(KeyLeft, ModCtrl), Press(KeySpace, 0)},
		{Release(KeySpace, 0)},
	}}
	s := NewEventStream()
	s.Refill(src)
	if s.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", s.Len())
	}
	s.Each(func(ev *Event) {
		if ev.Modifiers.Ctrl() {
			ev.StopPropagation()
		}
	})
	var seen []Key
	s.Each(func(ev *Event) { seen = append(seen, ev.Key) })
	if len(seen) != 1 || seen[0] != KeySpace {
		t.Fatalf("stopped event should be hidden, saw %v", seen)
	}

	s.Refill(src)
	if s.Len() != 1 {
		t.Fatalf("refill should replace the previous frame, got %d", s.Len())
	}
	s.Refill(src)
	if s.Len() != 0 {
		t.Fatalf("exhausted source should produce nothing, got %d", s.Len())
	}
}

func TestEventPredicates(t *testing.T) {
	repeat := Press(KeySpace, 0)
	repeat.Repeat = true
	cases := []struct {
		name    string
		ev      Event
		press   bool
		release bool
	}{
		{"press", Press(KeySpace, 0), true, false},
		{"repeat", repeat, false, false},
		{"release", Release(KeySpace, 0), false, true},
		{"other_key", Press(KeyLeft, 0), false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.ev.IsPress(KeySpace); got != c.press {
				t.Fatalf("IsPress = %v", got)
			}
			if got := c.ev.IsRelease(KeySpace); got != c.release {
				t.Fatalf("IsRelease = %v", got)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	for _, name := range []string{"Left", " space ", "d"} {
		if _, ok := ParseKey(name); !ok {
			t.Fatalf("expected %q to parse", name)
		}
	}
	if _, ok := ParseKey("f13"); ok {
		t.Fatalf("unknown key should not parse")
	}
}
