// Package queue defines the activity events exchanged over RabbitMQ together
// with their publisher and the background consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// ActivityQueue is the durable queue every activity event is routed to.
const ActivityQueue = "workout.activity"

// EventType names what happened to which kind of record.
type EventType string

const (
	UserRegistered  EventType = "user.registered"
	WorkoutCreated  EventType = "workout.created"
	WorkoutDeleted  EventType = "workout.deleted"
	ExerciseCreated EventType = "exercise.created"
	ExerciseUpdated EventType = "exercise.updated"
	ExerciseDeleted EventType = "exercise.deleted"
	SetCreated      EventType = "set.created"
	SetUpdated      EventType = "set.updated"
	SetDeleted      EventType = "set.deleted"
)

// ActivityEvent is published after a user's write has been committed. It
// carries enough for downstream consumers to log or aggregate activity
// without querying the primary database.
type ActivityEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	ResourceID int64     `json:"resource_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewActivityEvent stamps a fresh id and the current UTC time.
func NewActivityEvent(t EventType, userID, resourceID int64) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
}
