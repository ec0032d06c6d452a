// Package queue defines message payloads exchanged over the message broker
// and the AMQP publisher/consumer pair that moves them.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/learning-hub/internal/model"
)

// Action names what happened to an entity.
type Action string

const (
	ActionCreated    Action = "created"
	ActionUpdated    Action = "updated"
	ActionDeleted    Action = "deleted"
	ActionRegistered Action = "registered"
	ActionSubmitted  Action = "submitted"
	ActionRoleSet    Action = "role_set"
)

// Event is published after every successful mutation of the registry.  It
// carries enough information for downstream consumers to audit or notify
// without querying the service.
type Event struct {
	ID         string         `json:"id"`
	Entity     string         `json:"entity"`
	Action     Action         `json:"action"`
	EntityID   string         `json:"entity_id"`
	Actor      model.Identity `json:"actor"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent stamps a fresh event with a random id and the current UTC time.
func NewEvent(entity string, action Action, entityID string, actor model.Identity) Event {
	return Event{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
}
