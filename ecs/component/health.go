package component

type Health struct {
	Current uint32
	Max     uint32
}

var HealthComponent = NewComponent[Health]()
