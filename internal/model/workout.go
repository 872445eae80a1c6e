package model

import "time"

// Workout is a training session owned by a single user. It carries no
// payload of its own; exercises hang off it.
type Workout struct {
	ID          int64     `json:"id"`           // workouts.id
	DateCreated time.Time `json:"date_created"` // workouts.date_created
	UserID      int64     `json:"user_id"`      // workouts.user_id
}

// Exercise is a named movement performed inside a workout.
//
// Fields:
//
//	ID           – primary key identifier.
//	ExerciseName – free text supplied by the user; sanitized on output.
//	DateCreated  – timestamp of creation.
//	DateModified – last PATCH time, nil when never modified.
//	WorkoutID    – parent workout.
//	UserID       – owner, always equal to the parent workout's owner.
type Exercise struct {
	ID           int64      // exercises.id
	ExerciseName string     // exercises.exercise_name
	DateCreated  time.Time  // exercises.date_created
	DateModified *time.Time // exercises.date_modified (nullable)
	WorkoutID    int64      // exercises.workout_id
	UserID       int64      // exercises.user_id
}

// ExerciseSet is one set of an exercise: a weight lifted for a number of
// repetitions.
type ExerciseSet struct {
	ID            int64      // exercise_sets.id
	SetWeight     float64    // exercise_sets.set_weight
	SetRepetition int        // exercise_sets.set_repetition
	DateCreated   time.Time  // exercise_sets.date_created
	DateModified  *time.Time // exercise_sets.date_modified (nullable)
	ExerciseID    int64      // exercise_sets.exercise_id
	UserID        int64      // exercise_sets.user_id
}
