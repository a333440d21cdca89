package physics

import "testing"

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestHandleMapBindRelease(t *testing.T) {
	m := NewHandleMap[BodyHandle]("bodies")
	var b BodyBinding
	h := BodyHandle{index: 1, gen: 1}

	m.Bind(7, &b, h)
	if got, ok := b.Handle(); !ok || got != h {
		t.Fatalf("binding should hold %v, got %v %v", h, got, ok)
	}
	if got, ok := m.Lookup(7); !ok || got != h {
		t.Fatalf("map should hold %v, got %v %v", h, got, ok)
	}
	m.Verify(7, &b)

	released, ok := m.Release(7, &b)
	if !ok || released != h {
		t.Fatalf("expected release of %v, got %v %v", h, released, ok)
	}
	if b.Bound() || m.Len() != 0 {
		t.Fatalf("both sides should be cleared")
	}
}

func TestHandleMapDesyncPanics(t *testing.T) {
	h1 := BodyHandle{index: 1, gen: 1}
	h2 := BodyHandle{index: 2, gen: 1}

	cases := []struct {
		name string
		fn   func()
	}{
		{"double_bind_component", func() {
			m := NewHandleMap[BodyHandle]("bodies")
			var b BodyBinding
			m.Bind(1, &b, h1)
			m.Bind(2, &b, h2)
		}},
		{"double_bind_index", func() {
			m := NewHandleMap[BodyHandle]("bodies")
			var a, b BodyBinding
			m.Bind(1, &a, h1)
			m.Bind(1, &b, h2)
		}},
		{"stale_map_entry", func() {
			m := NewHandleMap[BodyHandle]("bodies")
			var a, fresh BodyBinding
			m.Bind(1, &a, h1)
			m.Verify(1, &fresh)
		}},
		{"component_without_entry", func() {
			m := NewHandleMap[BodyHandle]("bodies")
			other := NewHandleMap[BodyHandle]("other")
			var b BodyBinding
			other.Bind(1, &b, h1)
			m.Verify(1, &b)
		}},
		{"release_mismatch", func() {
			m := NewHandleMap[BodyHandle]("bodies")
			other := NewHandleMap[BodyHandle]("other")
			var a, b BodyBinding
			m.Bind(1, &a, h1)
			other.Bind(1, &b, h2)
			m.Release(1, &b)
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expectPanic(t, c.name, c.fn)
		})
	}
}

func TestHandleMapIndicesSorted(t *testing.T) {
	m := NewHandleMap[ColliderHandle]("colliders")
	for _, index := range []uint32{9, 3, 5} {
		var b ColliderBinding
		m.Bind(index, &b, ColliderHandle{index: index, gen: 1})
	}
	got := m.Indices()
	want := []uint32{3, 5, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
