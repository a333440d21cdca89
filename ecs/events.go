package ecs

// ComponentEventKind identifies component storage changes.
type ComponentEventKind uint8

const (
	ComponentInserted ComponentEventKind = iota + 1
	ComponentModified
	ComponentRemoved
)

func (k ComponentEventKind) String() string {
	switch k {
	case ComponentInserted:
		return "inserted"
	case ComponentModified:
		return "modified"
	case ComponentRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ComponentEvent is written to a storage's change channel on every
// insert, flagged mutation and removal.
type ComponentEvent struct {
	Kind  ComponentEventKind
	Index uint32
}
