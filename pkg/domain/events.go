package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventScenarioResolved  EventType = "scenario_resolved"
	EventScenarioMissing   EventType = "scenario_missing"
	EventContentMissing    EventType = "content_missing"
	EventCarryoverExpanded EventType = "carryover_expanded"
	EventStartSave         EventType = "start_save"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// ScenarioEvent reports the outcome of a scenario lookup.
type ScenarioEvent struct {
	EventBase
	ScenarioID string `json:"scenario_id"`
	CatalogTag string `json:"catalog_tag"`
	Hash       string `json:"hash,omitempty"`
}

// ContentEvent reports a mod, era or option block that could not be found.
type ContentEvent struct {
	EventBase
	Kind    string `json:"kind"` // modification, era, multiplayer, campaign
	ID      string `json:"id"`
	Catalog string `json:"catalog"` // "game" or "options"
}

// CarryoverEvent reports a carryover merge.
type CarryoverEvent struct {
	EventBase
	ScenarioID string `json:"scenario_id"`
	Residual   int    `json:"residual"` // sides left in the carryover block afterwards
}

// LifecycleHooks defines callbacks for pipeline observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnScenarioResolved  func(*ScenarioEvent)
	OnScenarioMissing   func(*ScenarioEvent)
	OnContentMissing    func(*ContentEvent)
	OnCarryoverExpanded func(*CarryoverEvent)
	OnStartSave         func(*CarryoverEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnScenarioResolved:  chain(h.OnScenarioResolved, other.OnScenarioResolved),
		OnScenarioMissing:   chain(h.OnScenarioMissing, other.OnScenarioMissing),
		OnContentMissing:    chain(h.OnContentMissing, other.OnContentMissing),
		OnCarryoverExpanded: chain(h.OnCarryoverExpanded, other.OnCarryoverExpanded),
		OnStartSave:         chain(h.OnStartSave, other.OnStartSave),
	}
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
