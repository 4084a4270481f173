package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/pkg/errors"
)

// TweenGroup animates up to 4 float64 component fields of a single entity
// simultaneously. Create one via the convenience constructors (TweenOffset,
// TweenOffsetRotation, TweenPosition) and call Update(dt) each frame. If the
// target entity leaves the hierarchy, the group stops immediately.
//
// There is no global animation manager — users call Update themselves.
//
// The group caches direct field pointers the same way attachments do, so it
// must not outlive the component records it was created for: removing the
// target's components while keeping it in the hierarchy leaves the group
// writing to a recycled slot.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	owner  *Hierarchy
	entity EntityID
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target entity has left the hierarchy, Done is set to true
// and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if !g.owner.Contains(g.entity) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenOffset creates a TweenGroup that animates the entity's local Offset.X
// and Offset.Y to the given values over the specified duration using the
// easing function. Fails if the entity is not in the hierarchy or has no
// Offset component.
func TweenOffset(h *Hierarchy, e EntityID, toX, toY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if !h.Contains(e) {
		return nil, errors.Wrapf(ErrInvalidOperation, "tween: entity %d is not in the hierarchy", e)
	}
	idx := h.cfg.Offsets.IndexOf(e)
	if idx == NoComponent {
		return nil, errors.Wrapf(ErrMissingDependency, "tween: entity %d has no Offset", e)
	}
	off := h.cfg.Offsets.Get(idx)
	g := &TweenGroup{count: 2, owner: h, entity: e}
	g.tweens[0] = gween.New(float32(off.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(off.Y), float32(toY), duration, fn)
	g.fields[0] = &off.X
	g.fields[1] = &off.Y
	return g, nil
}

// TweenOffsetRotation creates a TweenGroup that animates the entity's local
// Offset.Rotation to the given value over the specified duration using the
// easing function.
func TweenOffsetRotation(h *Hierarchy, e EntityID, to float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if !h.Contains(e) {
		return nil, errors.Wrapf(ErrInvalidOperation, "tween: entity %d is not in the hierarchy", e)
	}
	idx := h.cfg.Offsets.IndexOf(e)
	if idx == NoComponent {
		return nil, errors.Wrapf(ErrMissingDependency, "tween: entity %d has no Offset", e)
	}
	off := h.cfg.Offsets.Get(idx)
	g := &TweenGroup{count: 1, owner: h, entity: e}
	g.tweens[0] = gween.New(float32(off.Rotation), float32(to), duration, fn)
	g.fields[0] = &off.Rotation
	return g, nil
}

// TweenPosition creates a TweenGroup that animates the entity's world
// Position to the given coordinates. Intended for roots, whose Position is
// authoritative; tweening an attached entity's Position is pointless because
// the propagation pass overwrites it every tick.
func TweenPosition(h *Hierarchy, e EntityID, toX, toY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if !h.Contains(e) {
		return nil, errors.Wrapf(ErrInvalidOperation, "tween: entity %d is not in the hierarchy", e)
	}
	idx := h.cfg.Positions.IndexOf(e)
	if idx == NoComponent {
		return nil, errors.Wrapf(ErrMissingDependency, "tween: entity %d has no Position", e)
	}
	pos := h.cfg.Positions.Get(idx)
	g := &TweenGroup{count: 2, owner: h, entity: e}
	g.tweens[0] = gween.New(float32(pos.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(pos.Y), float32(toY), duration, fn)
	g.fields[0] = &pos.X
	g.fields[1] = &pos.Y
	return g, nil
}
