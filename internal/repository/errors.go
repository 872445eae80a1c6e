// Package repository implements MySQL persistence for users, workouts,
// exercises and exercise sets. Every resource query is scoped by owner:
// a row that belongs to someone else is reported exactly like a row that
// does not exist.
package repository

import "errors"

// Not-found sentinels. Handlers translate these into HTTP 404 responses
// with the resource-specific message.
var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("exercise set not found")
)
