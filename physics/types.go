package physics

import "github.com/jakecoffman/cp"

type Vec2 = cp.Vector

// BB is an axis-aligned box with L/B/R/T edges in y-up world units.
type BB = cp.BB

// BodyStatus selects how the engine integrates a body.
type BodyStatus uint8

const (
	StatusDynamic BodyStatus = iota
	StatusStatic
	StatusKinematic
)

func (s BodyStatus) String() string {
	switch s {
	case StatusDynamic:
		return "dynamic"
	case StatusStatic:
		return "static"
	case StatusKinematic:
		return "kinematic"
	default:
		return "unknown"
	}
}

func (s BodyStatus) cpType() int {
	switch s {
	case StatusStatic:
		return cp.BODY_STATIC
	case StatusKinematic:
		return cp.BODY_KINEMATIC
	default:
		return cp.BODY_DYNAMIC
	}
}

// Material holds surface response parameters.
type Material struct {
	Friction    float64
	Restitution float64
}

// DefaultMaterial mirrors the friction the platformer tiles are tuned for.
var DefaultMaterial = Material{Friction: 0.8}

// CollisionGroups is a membership/whitelist bitmask pair. Two colliders
// interact only if each one's membership is whitelisted by the other.
type CollisionGroups struct {
	Membership uint32
	Whitelist  uint32
}

const (
	GroupGround uint32 = 1 << iota
	GroupPlayer
	GroupPickup
	GroupLadder

	AllGroups uint32 = ^uint32(0)
)

// InGroup is a collider that belongs to membership and interacts with
// everything.
func InGroup(membership uint32) CollisionGroups {
	return CollisionGroups{Membership: membership, Whitelist: AllGroups}
}

func (g CollisionGroups) filter() cp.ShapeFilter {
	return cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: uint(g.Membership),
		Mask:       uint(g.Whitelist),
	}
}

// Translate offsets a box by v.
func Translate(bb BB, v Vec2) BB {
	return BB{L: bb.L + v.X, B: bb.B + v.Y, R: bb.R + v.X, T: bb.T + v.Y}
}

// Center is the midpoint of a box.
func Center(bb BB) Vec2 {
	return Vec2{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}

// Intersection returns the overlap of two boxes and whether they touch.
// Touching edges produce a zero-area box.
func Intersection(a, b BB) (BB, bool) {
	out := BB{
		L: max(a.L, b.L),
		B: max(a.B, b.B),
		R: min(a.R, b.R),
		T: min(a.T, b.T),
	}
	return out, out.L <= out.R && out.B <= out.T
}
