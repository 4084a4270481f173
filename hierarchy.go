package arbor

import "github.com/pkg/errors"

// Config wires the component pools that play the transform roles during
// propagation. It is validated by NewHierarchy and fixed from the moment the
// hierarchy contains a node (see Reconfigure).
type Config struct {
	// Positions holds world positions. Required.
	Positions *Pool[Position]
	// Rotations holds world rotations. nil selects the translation-only
	// policy; non-nil selects the rigid-transform policy.
	Rotations *Pool[Rotation]
	// Offsets holds the local frames of attached entities. Required.
	Offsets *Pool[Offset]
}

// validate checks the config against the world the hierarchy is built on.
func (c Config) validate(w *World) error {
	if c.Positions == nil {
		return errors.Wrap(ErrMissingDependency, "config: Positions pool is required")
	}
	if c.Offsets == nil {
		return errors.Wrap(ErrMissingDependency, "config: Offsets pool is required")
	}
	if c.Positions.world != w || c.Offsets.world != w ||
		(c.Rotations != nil && c.Rotations.world != w) {
		return errors.Wrap(ErrInvalidOperation, "config: pool registered on a different World")
	}
	return nil
}

// Hierarchy is the attachment subsystem: it owns the relation forest, the
// cached traversal order, and the parent-field snapshots, and exposes the
// attach/detach/remove/query API. All methods are single-threaded and run
// synchronously inside the per-tick update step; structural mutations
// requested during a tick are visible to that tick's Update pass.
type Hierarchy struct {
	world  *World
	cfg    Config
	forest forest
	cache  orderCache
	aux    *Pool[attachment]
	sink   EventSink
}

// NewHierarchy creates a hierarchy on the given world with the given role
// configuration. It reserves one auxiliary pool on the world for parent-field
// snapshots.
func NewHierarchy(w *World, cfg Config) (*Hierarchy, error) {
	if err := cfg.validate(w); err != nil {
		return nil, err
	}
	return &Hierarchy{
		world: w,
		cfg:   cfg,
		aux:   RegisterPool[attachment](w),
	}, nil
}

// Reconfigure replaces the role configuration. Allowed only while the
// hierarchy is empty; once any entity has been added the configuration is
// locked and ErrConfigurationLocked is returned, leaving the prior
// configuration in place.
func (h *Hierarchy) Reconfigure(cfg Config) error {
	if h.forest.count > 0 {
		return errors.Wrapf(ErrConfigurationLocked, "hierarchy still contains %d nodes", h.forest.count)
	}
	if err := cfg.validate(h.world); err != nil {
		return err
	}
	h.cfg = cfg
	return nil
}

// SetEventSink sets the optional ECS bridge. Pass nil to disable.
func (h *Hierarchy) SetEventSink(sink EventSink) {
	h.sink = sink
}

func (h *Hierarchy) emit(ev Event) {
	if h.sink != nil {
		h.sink.EmitEvent(ev)
	}
}

// rigid reports whether the rotation policy is configured.
func (h *Hierarchy) rigid() bool {
	return h.cfg.Rotations != nil
}

// --- Node lifecycle ---

// Add creates a root node for the entity and reserves its auxiliary record.
// The entity needs no transform components until it is attached or used as a
// parent. Fails with ErrInvalidOperation if the entity is dead or already
// managed.
func (h *Hierarchy) Add(e EntityID) error {
	if !h.world.Valid(e) {
		return errors.Wrapf(ErrInvalidOperation, "add: entity %d is not alive", e)
	}
	if h.forest.lookup(e) != noNode {
		return errors.Wrapf(ErrInvalidOperation, "add: entity %d is already in the hierarchy", e)
	}
	_, auxIdx := h.aux.Add(e)
	h.forest.add(e, auxIdx)
	return nil
}

// Remove destroys the entity's node. Children are detached in place and
// become roots; they are NOT removed, and their entities are untouched. The
// entity itself stays alive in the world — only its hierarchy membership
// ends. Fails with ErrInvalidOperation if the entity has no node
// (double-remove included).
func (h *Hierarchy) Remove(e EntityID) error {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return errors.Wrapf(ErrInvalidOperation, "remove: entity %d is not in the hierarchy", e)
	}
	for _, c := range h.forest.nodes[idx].children {
		cn := &h.forest.nodes[c]
		h.aux.Get(cn.aux).clear()
		h.emit(Event{Type: EventDetached, Entity: cn.entity})
	}
	h.forest.remove(idx)
	h.aux.Remove(e)
	h.emit(Event{Type: EventRemoved, Entity: e})
	return nil
}

// RemoveSubtree destroys the entity, every descendant entity, and all of
// their component records, in true post-order (children strictly before
// parents, the named entity last). Fails with ErrInvalidOperation if the
// entity has no node; otherwise exactly K+1 entities die for K descendants.
func (h *Hierarchy) RemoveSubtree(e EntityID) error {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return errors.Wrapf(ErrInvalidOperation, "remove subtree: entity %d is not in the hierarchy", e)
	}
	h.forest.destroySubtree(idx, func(dead EntityID) {
		h.world.RemoveEntity(dead) // frees the aux record and all components
		h.emit(Event{Type: EventRemoved, Entity: dead})
	})
	h.emit(Event{Type: EventSubtreeRemoved, Entity: e})
	return nil
}

// --- Attachment ---

// Attach makes child a child of parent, implicitly detaching the child from
// its current parent first. The parent-field snapshot is resolved before any
// structural change, so on error (ErrInvalidOperation for unmanaged
// entities, ErrMissingDependency for absent components) the forest is
// untouched — including the implicit detach.
//
// Attach performs NO cycle check: attaching an entity to its own descendant
// (or to itself) corrupts the forest. Call AttachChecked when the tree shape
// is not known to be safe.
func (h *Hierarchy) Attach(parent, child EntityID) error {
	return h.attach(parent, child, false)
}

// AttachChecked is Attach with a cycle check: it fails with
// ErrInvalidOperation if child is the parent or an ancestor of it, leaving
// the forest unchanged.
func (h *Hierarchy) AttachChecked(parent, child EntityID) error {
	return h.attach(parent, child, true)
}

func (h *Hierarchy) attach(parent, child EntityID, checked bool) error {
	pIdx := h.forest.lookup(parent)
	if pIdx == noNode {
		return errors.Wrapf(ErrInvalidOperation, "attach: parent %d is not in the hierarchy", parent)
	}
	cIdx := h.forest.lookup(child)
	if cIdx == noNode {
		return errors.Wrapf(ErrInvalidOperation, "attach: child %d is not in the hierarchy", child)
	}
	if checked && h.forest.hasAncestor(pIdx, child) {
		return errors.Wrapf(ErrInvalidOperation, "attach: %d -> %d would create a cycle", parent, child)
	}
	snap, err := h.resolveAttachment(parent, child)
	if err != nil {
		return err
	}
	h.forest.attach(pIdx, cIdx)
	*h.aux.Get(h.forest.nodes[cIdx].aux) = snap
	if globalDebug {
		debugCheckDepth(&h.forest, cIdx)
		debugCheckChildren(&h.forest, pIdx)
	}
	h.emit(Event{Type: EventAttached, Entity: child, Parent: parent})
	return nil
}

// resolveAttachment builds the parent-field snapshot for child under parent:
// direct pointers into the parent's world fields and the child's own local
// and world fields. Re-resolved on every (re)attach — after reparenting the
// old snapshot would reference the wrong entity's record.
func (h *Hierarchy) resolveAttachment(parent, child EntityID) (attachment, error) {
	var a attachment
	pp := h.cfg.Positions.IndexOf(parent)
	if pp == NoComponent {
		return a, errors.Wrapf(ErrMissingDependency, "attach: parent %d has no Position", parent)
	}
	cp := h.cfg.Positions.IndexOf(child)
	if cp == NoComponent {
		return a, errors.Wrapf(ErrMissingDependency, "attach: child %d has no Position", child)
	}
	co := h.cfg.Offsets.IndexOf(child)
	if co == NoComponent {
		return a, errors.Wrapf(ErrMissingDependency, "attach: child %d has no Offset", child)
	}
	ppos := h.cfg.Positions.Get(pp)
	cpos := h.cfg.Positions.Get(cp)
	coff := h.cfg.Offsets.Get(co)
	a.px, a.py = &ppos.X, &ppos.Y
	a.gx, a.gy = &cpos.X, &cpos.Y
	a.ox, a.oy = &coff.X, &coff.Y
	if h.rigid() {
		pr := h.cfg.Rotations.IndexOf(parent)
		if pr == NoComponent {
			return attachment{}, errors.Wrapf(ErrMissingDependency, "attach: parent %d has no Rotation", parent)
		}
		cr := h.cfg.Rotations.IndexOf(child)
		if cr == NoComponent {
			return attachment{}, errors.Wrapf(ErrMissingDependency, "attach: child %d has no Rotation", child)
		}
		a.pr = &h.cfg.Rotations.Get(pr).Angle
		a.gr = &h.cfg.Rotations.Get(cr).Angle
		a.or = &coff.Rotation
	}
	return a, nil
}

// Detach unlinks the entity from its parent; it becomes a root and its
// snapshot is invalidated. Detaching an entity that is already a root is a
// caller error and fails with ErrInvalidOperation — this is a deliberate
// contract, not a best-effort no-op — leaving root set and change counter
// untouched.
func (h *Hierarchy) Detach(child EntityID) error {
	idx := h.forest.lookup(child)
	if idx == noNode {
		return errors.Wrapf(ErrInvalidOperation, "detach: entity %d is not in the hierarchy", child)
	}
	if h.forest.nodes[idx].parent == noNode {
		return errors.Wrapf(ErrInvalidOperation, "detach: entity %d is a root", child)
	}
	h.forest.detach(idx)
	h.aux.Get(h.forest.nodes[idx].aux).clear()
	h.emit(Event{Type: EventDetached, Entity: child})
	return nil
}

// --- Queries ---

// Contains reports whether the entity has a node in the hierarchy.
func (h *Hierarchy) Contains(e EntityID) bool {
	return h.forest.lookup(e) != noNode
}

// Len returns the number of nodes in the hierarchy.
func (h *Hierarchy) Len() int {
	return h.forest.count
}

// IsRoot reports whether the entity is a managed node with no parent.
// O(1) via the node's root-set position.
func (h *Hierarchy) IsRoot(e EntityID) bool {
	idx := h.forest.lookup(e)
	return idx != noNode && h.forest.isRoot(idx)
}

// ParentOf returns the entity's parent, or NoEntity for roots and unmanaged
// entities.
func (h *Hierarchy) ParentOf(e EntityID) EntityID {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return NoEntity
	}
	p := h.forest.nodes[idx].parent
	if p == noNode {
		return NoEntity
	}
	return h.forest.nodes[p].entity
}

// ChildrenOf returns the entity's direct children in attachment order.
// Returns nil for leaves and unmanaged entities. The slice is freshly
// allocated and owned by the caller.
func (h *Hierarchy) ChildrenOf(e EntityID) []EntityID {
	idx := h.forest.lookup(e)
	if idx == noNode || len(h.forest.nodes[idx].children) == 0 {
		return nil
	}
	kids := h.forest.nodes[idx].children
	out := make([]EntityID, len(kids))
	for i, c := range kids {
		out[i] = h.forest.nodes[c].entity
	}
	return out
}

// DescendantsOf returns every transitive child of the entity in top-down
// order (each entity strictly after its parent). Returns nil for leaves and
// unmanaged entities. The slice is freshly allocated and owned by the caller.
func (h *Hierarchy) DescendantsOf(e EntityID) []EntityID {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return nil
	}
	order := h.forest.descendantsInto(nil, idx)
	if len(order) == 0 {
		return nil
	}
	out := make([]EntityID, len(order))
	for i, n := range order {
		out[i] = h.forest.nodes[n].entity
	}
	return out
}

// Roots returns the current root entities. Order is not meaningful. The
// slice is freshly allocated and owned by the caller.
func (h *Hierarchy) Roots() []EntityID {
	out := make([]EntityID, len(h.forest.roots))
	for i, r := range h.forest.roots {
		out[i] = h.forest.nodes[r].entity
	}
	return out
}

// HasAncestor reports whether the entity itself or any of its ancestors is
// candidate. This is the cycle-safety query: call it with (prospective
// parent, child-to-be) before Attach, or use AttachChecked.
func (h *Hierarchy) HasAncestor(e, candidate EntityID) bool {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return false
	}
	return h.forest.hasAncestor(idx, candidate)
}

// UserData returns the opaque payload stored on the entity's node.
func (h *Hierarchy) UserData(e EntityID) any {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return nil
	}
	return h.forest.nodes[idx].userData
}

// SetUserData stores an opaque payload on the entity's node for specialized
// subsystems. Returns false if the entity is unmanaged.
func (h *Hierarchy) SetUserData(e EntityID, v any) bool {
	idx := h.forest.lookup(e)
	if idx == noNode {
		return false
	}
	h.forest.nodes[idx].userData = v
	return true
}

// OrderRebuilds returns how many times the traversal order has been rebuilt.
// Exposed for instrumentation: two Updates with no mutation in between must
// not change this value.
func (h *Hierarchy) OrderRebuilds() uint64 {
	return h.cache.rebuilds
}

// --- Tick ---

// Update runs the propagation pass: it reads the cached top-down order
// (rebuilding it if the forest changed since the last read) and composes
// every attached entity's world transform from its parent's already-updated
// world fields. Roots are never touched. Call exactly once per frame, after
// all structural mutations for the tick.
//
// dt is accepted to match the runtime's system signature; propagation is
// positional and does not integrate over time.
func (h *Hierarchy) Update(dt float64) {
	_ = dt
	order := h.cache.order(&h.forest)
	for _, n := range order {
		a := h.aux.Get(h.forest.nodes[n].aux)
		if globalDebug && !a.valid() {
			debugCheckSnapshot(&h.forest, n)
		}
		a.propagate()
	}
	if globalDebug {
		debugLogUpdate(len(order), h.cache.rebuilds)
	}
}
