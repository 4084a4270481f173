// Package ecs provides ECS adapters for arbor's hierarchy event system.
//
// The primary adapter is [NewDonburiSink], which bridges arbor hierarchy
// events (attach, detach, remove, subtree removal) into a [Donburi] world as
// typed events. Subscribe to [HierarchyEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	h.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
