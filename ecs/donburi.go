package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// HierarchyEventType is the Donburi event type for arbor hierarchy events.
// Subscribe to this in your ECS systems to react to attachment changes.
var HierarchyEventType = events.NewEventType[arbor.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Hierarchy
// events are published to HierarchyEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) arbor.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event arbor.Event) {
	HierarchyEventType.Publish(s.world, event)
}
