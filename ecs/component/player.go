package component

// Player marks the entity driven by the local keyboard.
type Player struct{}

var PlayerComponent = NewComponent[Player]()
