package component

type Ladder struct{}

var LadderComponent = NewComponent[Ladder]()
