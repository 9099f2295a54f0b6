// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"roofline_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// LeadCreated is published when a new lead is created from intake answers.
// The notification module uses it to alert the sales team about HOT leads.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	LeadScore int       `json:"leadScore"`
	LeadTier  string    `json:"leadTier"`
	Source    string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// StageChanged is published when a lead moves to a different funnel stage
// through the engine's own stage endpoint.
type StageChanged struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	PreviousStage string    `json:"previousStage"`
	NewStage      string    `json:"newStage"`
}

func (e StageChanged) EventName() string { return "leads.stage.changed" }
