package arbor

// EntityID identifies a logical game object. IDs are allocated by
// [World.NewEntity] starting at 1 and are recycled after
// [World.RemoveEntity]; 0 is reserved for NoEntity.
type EntityID uint32

// NoEntity is the zero EntityID, used where an entity reference is absent
// (for example the parent of a root node).
const NoEntity EntityID = 0

// Kind identifies a registered component pool within a World. Kinds are
// assigned sequentially by [RegisterPool] in registration order.
type Kind uint8

// NoComponent is the sentinel component index returned by lookups when the
// entity has no record of the requested kind.
const NoComponent int32 = -1

// EventType identifies a kind of hierarchy event.
type EventType uint8

const (
	EventAttached       EventType = iota // fires after a child is attached to a parent
	EventDetached                        // fires after a child becomes a root again
	EventRemoved                         // fires after a node leaves the hierarchy
	EventSubtreeRemoved                  // fires once after RemoveSubtree destroys a whole subtree
)

// Event carries hierarchy change data for the ECS bridge.
// Parent is NoEntity for every type except EventAttached.
type Event struct {
	Type   EventType
	Entity EntityID
	Parent EntityID
}

// EventSink is the interface for optional ECS integration.
// When set on a Hierarchy, structural changes are forwarded to the ECS.
type EventSink interface {
	EmitEvent(event Event)
}
