// Package arbor provides an entity attachment hierarchy ("relation forest")
// with order-cached world-transform propagation for entity-component game
// runtimes.
//
// Arbor answers one question fast, every tick: given entities positioned
// relative to parent entities, what are their world transforms? Attachments
// form a forest (disjoint trees of entities), and a cached top-down traversal
// order guarantees every parent is resolved before its children without
// re-deriving the order on ticks where nothing changed.
//
// # Quick start
//
// Register the transform component pools on a [World], build a [Hierarchy],
// and call [Hierarchy.Update] once per frame:
//
//	world := arbor.NewWorld(1024)
//	positions := arbor.RegisterPool[arbor.Position](world)
//	rotations := arbor.RegisterPool[arbor.Rotation](world)
//	offsets := arbor.RegisterPool[arbor.Offset](world)
//
//	h, err := arbor.NewHierarchy(world, arbor.Config{
//		Positions: positions,
//		Rotations: rotations, // nil for the translation-only policy
//		Offsets:   offsets,
//	})
//
//	sun := world.NewEntity()
//	positions.Add(sun)
//	rotations.Add(sun)
//	h.Add(sun)
//
//	planet := world.NewEntity()
//	positions.Add(planet)
//	rotations.Add(planet)
//	off, _ := offsets.Add(planet)
//	off.X = 120
//	h.Add(planet)
//	h.Attach(sun, planet)
//
//	// each frame:
//	h.Update(dt)
//
// # Attachment model
//
// Every entity managed by the hierarchy owns a node in the forest. A node
// with no parent is a root; its [Position] (and [Rotation]) are authoritative
// and never written by the propagation pass. Attached nodes compose their
// [Offset] with the parent's world transform each tick, parents strictly
// before children.
//
// [Hierarchy.Attach] does not check for cycles — that keeps the mutation
// path cheap when the caller already knows the shape of the tree. Use
// [Hierarchy.AttachChecked] (or [Hierarchy.HasAncestor] yourself) when the
// parent may already be a descendant of the child.
//
// # Storage
//
// Components live in chunked fixed-slot pools ([Pool]) whose record addresses
// are stable for the lifetime of the record. On attachment arbor caches
// direct field pointers into the parent's and child's records, so the
// per-tick pass is a straight walk over the cached order with no lookups.
//
// # Key features
//
// Arbor includes iterative (stack-based) subtree destruction safe at any
// depth, change-counter order-cache invalidation, tweens over local offsets
// (via [gween]), and ECS event integration (via [Donburi] adapter in
// arbor/ecs).
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package arbor
