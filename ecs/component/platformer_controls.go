package component

// PlatformerControls drives horizontal movement and jumping from the
// keyboard. The velocities are applied to the body's x and y axes as
// given, so LeftVelocity is normally negative.
type PlatformerControls struct {
	LeftVelocity  float64
	RightVelocity float64
	JumpVelocity  float64
	// AirControl scales horizontal velocity while not touching ground.
	AirControl float64
}

var PlatformerControlsComponent = NewComponent[PlatformerControls]()
