package metrics

import (
	"context"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
)

// EventCollector subscribes to simulation events and records metrics
type EventCollector struct{}

// NewEventCollector creates a new event metrics collector
func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

// Register subscribes to all events the collector cares about
func (c *EventCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		domain.EventTypeNodeCompleted,
		domain.EventTypeVillageDonated,
		domain.EventTypeResourceSold,
		domain.EventTypeToolBought,
		domain.EventTypeToolBroken,
		domain.EventTypeSkillLeveledUp,
		domain.EventTypePlayerEvicted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, c.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (c *EventCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch payload := evt.Payload.(type) {
	case domain.NodeCompletedPayload:
		NodesCompleted.WithLabelValues(string(payload.Kind)).Inc()
		if payload.PlayerID != "" && payload.Yield > 0 {
			profile, ok := domain.ProfileFor(payload.Kind)
			if ok {
				ResourcesGranted.WithLabelValues(string(profile.Yield)).Add(float64(payload.Yield))
			}
		}
	case domain.VillageDonatedPayload:
		ResourcesDonated.WithLabelValues(string(payload.Resource)).Add(float64(payload.Amount))
	case domain.ToolBrokenPayload:
		ToolsBroken.WithLabelValues(string(payload.Tool)).Inc()
	case domain.SkillLeveledUpPayload:
		SkillLevelUps.WithLabelValues(string(payload.Skill)).Inc()
	case domain.PlayerEvictedPayload:
		PlayersEvicted.Inc()
	}

	return nil
}
