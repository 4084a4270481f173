package arbor

import "math"

// Position is the world-space translation of an entity. For roots it is
// authoritative (set by gameplay, physics, or tweens); for attached entities
// it is overwritten every tick by the propagation pass.
type Position struct {
	X, Y float64
}

// Rotation is the world-space rotation of an entity, in radians. Only used
// when the hierarchy is configured with a rotation pool (the rigid-transform
// policy); same root/attached split as Position.
type Rotation struct {
	Angle float64
}

// Offset is the local frame of an attached entity relative to its parent:
// translation in the parent's rotated frame plus a local rotation. Roots
// ignore their Offset if they have one.
type Offset struct {
	X, Y     float64
	Rotation float64
}

// attachment is the parent-field snapshot stored in a node's auxiliary
// record. All pointers target pool records whose addresses are stable for
// the record's lifetime (see Pool); the snapshot is resolved on (re)attach
// and cleared on detach, so the per-tick pass dereferences without lookups.
//
// pr/or/gr are nil under the translation-only policy.
type attachment struct {
	px, py *float64 // parent world position
	pr     *float64 // parent world rotation
	ox, oy *float64 // own local offset
	or     *float64 // own local rotation
	gx, gy *float64 // own world position (write target)
	gr     *float64 // own world rotation (write target)
}

// valid reports whether the snapshot has been resolved.
func (a *attachment) valid() bool {
	return a.px != nil
}

// clear invalidates the snapshot. Called the moment the node detaches; the
// cached addresses must not outlive the attachment they were resolved for.
func (a *attachment) clear() {
	*a = attachment{}
}

// propagate composes the parent's already-updated world transform with the
// node's local offset and writes the node's world fields.
//
// Rigid 2D transform (rotation policy):
//
//	global = parent_global + R(parent_rotation) * local
//	global_rotation = parent_rotation + local_rotation
//
// Translation-only policy: a plain vector add.
func (a *attachment) propagate() {
	if a.pr != nil {
		sin, cos := math.Sincos(*a.pr)
		*a.gx = *a.px + *a.ox*cos - *a.oy*sin
		*a.gy = *a.py + *a.ox*sin + *a.oy*cos
		*a.gr = *a.pr + *a.or
		return
	}
	*a.gx = *a.px + *a.ox
	*a.gy = *a.py + *a.oy
}
