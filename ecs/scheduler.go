package ecs

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

type System interface {
	Update(w *World)
}

// Setuper is implemented by systems that register readers or resources
// once before their first update.
type Setuper interface {
	Setup(w *World)
}

// stage is either a single system or a group that runs concurrently. A
// parallel group must only contain systems that do not write data the
// others read.
type stage struct {
	systems  []System
	parallel bool
}

type Scheduler struct {
	stages []stage
	ready  bool
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.stages = append(s.stages, stage{systems: []System{system}})
}

// AddParallel appends a fork/join stage. Every system in it finishes
// before the next stage starts.
func (s *Scheduler) AddParallel(systems ...System) {
	group := make([]System, 0, len(systems))
	for _, system := range systems {
		if system != nil {
			group = append(group, system)
		}
	}
	if len(group) == 0 {
		return
	}
	s.stages = append(s.stages, stage{systems: group, parallel: len(group) > 1})
}

// Setup runs Setup on every system that has one. Update calls it lazily.
func (s *Scheduler) Setup(w *World) {
	if s.ready {
		return
	}
	s.ready = true
	for _, system := range s.Systems() {
		if setuper, ok := system.(Setuper); ok {
			setuper.Setup(w)
		}
	}
}

func (s *Scheduler) Update(w *World) {
	s.Setup(w)
	for _, st := range s.stages {
		if !st.parallel {
			for _, system := range st.systems {
				system.Update(w)
			}
			continue
		}
		if err := runParallel(w, st.systems); err != nil {
			panic(err)
		}
	}
}

func runParallel(w *World, systems []System) error {
	var g errgroup.Group
	for _, system := range systems {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("scheduler: %T: %v", system, r)
				}
			}()
			system.Update(w)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) Systems() []System {
	var systems []System
	for _, st := range s.stages {
		systems = append(systems, st.systems...)
	}
	return systems
}
