package ecs

import (
	"sync/atomic"
	"testing"

	"github.com/milk9111/autogamer/ecs/component"
)

type testPosition struct{ X, Y float64 }
type testTag struct{}

var (
	testPositionComponent = component.NewComponent[testPosition]()
	testTagComponent      = component.NewComponent[testTag]()
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("second destroy should fail")
				}
			}
		})
	}
}

func TestEntityIndexReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	DestroyEntity(w, e1)
	e2 := CreateEntity(w)
	if e1.Index() != e2.Index() {
		t.Fatalf("expected index reuse, got %d and %d", e1.Index(), e2.Index())
	}
	if e1.Generation() == e2.Generation() {
		t.Fatalf("expected a new generation")
	}
	if IsAlive(w, e1) {
		t.Fatalf("stale entity must not be alive")
	}
	got, ok := EntityAt(w, e2.Index())
	if !ok || got != e2 {
		t.Fatalf("EntityAt returned %v, %v", got, ok)
	}
}

func TestComponentEvents(t *testing.T) {
	w := NewWorld()
	ch := Changes(w, testPositionComponent.Kind())
	r := ch.RegisterReader()
	e := CreateEntity(w)

	steps := []struct {
		name string
		do   func()
		want []ComponentEventKind
	}{
		{"insert", func() { _ = Add(w, e, testPositionComponent.Kind(), &testPosition{}) }, []ComponentEventKind{ComponentInserted}},
		{"get_is_silent", func() { Get(w, e, testPositionComponent.Kind()) }, nil},
		{"get_mut", func() { GetMut(w, e, testPositionComponent.Kind()) }, []ComponentEventKind{ComponentModified}},
		{"replace", func() { _ = Add(w, e, testPositionComponent.Kind(), &testPosition{X: 1}) }, []ComponentEventKind{ComponentRemoved, ComponentInserted}},
		{"remove", func() { Remove(w, e, testPositionComponent.Kind()) }, []ComponentEventKind{ComponentRemoved}},
		{"remove_missing", func() { Remove(w, e, testPositionComponent.Kind()) }, nil},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			s.do()
			got := ch.Read(r)
			if len(got) != len(s.want) {
				t.Fatalf("expected %v, got %v", s.want, got)
			}
			for i := range got {
				if got[i].Kind != s.want[i] || got[i].Index != e.Index() {
					t.Fatalf("event %d: expected %v for %d, got %+v", i, s.want[i], e.Index(), got[i])
				}
			}
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add(w, e, testPositionComponent.Kind(), nil); err != component.ErrNilComponent {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e, component.ComponentKind[testPosition]{}, &testPosition{}); err != component.ErrInvalidComponentKind {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
	DestroyEntity(w, e)
	if err := Add(w, e, testPositionComponent.Kind(), &testPosition{}); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestDeferredDelete(t *testing.T) {
	w := NewWorld()
	ch := Changes(w, testPositionComponent.Kind())
	r := ch.RegisterReader()
	e := CreateEntity(w)
	_ = Add(w, e, testPositionComponent.Kind(), &testPosition{})
	_ = Add(w, e, testTagComponent.Kind(), &testTag{})
	ch.SkipToHead(r)

	Delete(w, e)
	if !IsAlive(w, e) || !Has(w, e, testPositionComponent.Kind()) {
		t.Fatalf("entity must survive until Maintain")
	}
	if n := Maintain(w); n != 1 {
		t.Fatalf("expected one entity destroyed, got %d", n)
	}
	if IsAlive(w, e) {
		t.Fatalf("entity should be dead after Maintain")
	}
	got := ch.Read(r)
	if len(got) != 1 || got[0].Kind != ComponentRemoved {
		t.Fatalf("expected a removal event, got %v", got)
	}
	if Count(w, testTagComponent.Kind()) != 0 {
		t.Fatalf("tag storage should be empty")
	}
}

func TestForEachJoins(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)
	_ = Add(w, a, testPositionComponent.Kind(), &testPosition{X: 1})
	_ = Add(w, b, testPositionComponent.Kind(), &testPosition{X: 2})
	_ = Add(w, b, testTagComponent.Kind(), &testTag{})

	var seen []Entity
	ForEach2(w, testPositionComponent.Kind(), testTagComponent.Kind(), func(e Entity, p *testPosition, _ *testTag) {
		seen = append(seen, e)
	})
	if len(seen) != 1 || seen[0] != b {
		t.Fatalf("expected only %v, got %v", b, seen)
	}
	if first, ok := First(w, testPositionComponent.Kind()); !ok || first != a {
		t.Fatalf("expected first %v, got %v", a, first)
	}
}

type countingSystem struct {
	updates atomic.Int32
	setups  atomic.Int32
}

func (s *countingSystem) Setup(w *World)  { s.setups.Add(1) }
func (s *countingSystem) Update(w *World) { s.updates.Add(1) }

type panickingSystem struct{}

func (panickingSystem) Update(w *World) { panic("boom") }

func TestSchedulerStages(t *testing.T) {
	w := NewWorld()
	a, b, c := &countingSystem{}, &countingSystem{}, &countingSystem{}
	s := NewScheduler(a)
	s.AddParallel(b, c)
	s.Update(w)
	s.Update(w)
	for i, sys := range []*countingSystem{a, b, c} {
		if sys.updates.Load() != 2 {
			t.Fatalf("system %d: expected 2 updates, got %d", i, sys.updates.Load())
		}
		if sys.setups.Load() != 1 {
			t.Fatalf("system %d: expected 1 setup, got %d", i, sys.setups.Load())
		}
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(s.Systems()))
	}
}

func TestSchedulerParallelPanicPropagates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from parallel stage")
		}
	}()
	s := NewScheduler()
	s.AddParallel(&countingSystem{}, panickingSystem{})
	s.Update(NewWorld())
}

func TestResources(t *testing.T) {
	w := NewWorld()
	if _, ok := Resource[testPosition](w); ok {
		t.Fatalf("expected no resource")
	}
	SetResource(w, &testPosition{X: 3})
	got := MustResource[testPosition](w)
	if got.X != 3 {
		t.Fatalf("expected X=3, got %v", got.X)
	}
}
