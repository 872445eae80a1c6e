package router

import (
	"github.com/labstack/echo/v4"

	"github.com/liftlog/workout-api/internal/handler"
)

// Resources groups the handlers mounted under /api.
type Resources struct {
	Workouts  *handler.WorkoutHandler
	Exercises *handler.ExerciseHandler
	Sets      *handler.SetHandler
}

// RegisterResources registers the workout, exercise and set routes. mws run
// in order before every handler; the auth middleware must come first so the
// ones after it can rely on the caller's identity. mws are attached per route
// rather than to the group so unmatched /api paths still answer 404.
func RegisterResources(e *echo.Echo, r Resources, mws ...echo.MiddlewareFunc) {
	g := &routes{g: e.Group("/api"), mws: mws}

	// ---- Workouts ----
	g.GET("/workout", r.Workouts.List)
	g.POST("/workout", r.Workouts.Create)
	g.GET("/workout/:workout_id", r.Workouts.Get)
	g.DELETE("/workout/:workout_id", r.Workouts.Delete)

	// ---- Exercises ----
	g.GET("/exercise", r.Exercises.List)
	g.POST("/exercise", r.Exercises.Create)
	g.GET("/exercise/:exercise_id", r.Exercises.Get)
	g.PATCH("/exercise/:exercise_id", r.Exercises.Update)
	g.DELETE("/exercise/:exercise_id", r.Exercises.Delete)

	// ---- Sets ----
	g.GET("/set", r.Sets.List)
	g.POST("/set", r.Sets.Create)
	g.GET("/set/:set_id", r.Sets.Get)
	g.PATCH("/set/:set_id", r.Sets.Update)
	g.DELETE("/set/:set_id", r.Sets.Delete)
}

type routes struct {
	g   *echo.Group
	mws []echo.MiddlewareFunc
}

func (r *routes) GET(path string, h echo.HandlerFunc) { r.g.GET(path, h, r.mws...) }
func (r *routes) POST(path string, h echo.HandlerFunc) { r.g.POST(path, h, r.mws...) }
func (r *routes) PATCH(path string, h echo.HandlerFunc) { r.g.PATCH(path, h, r.mws...) }
func (r *routes) DELETE(path string, h echo.HandlerFunc) { r.g.DELETE(path, h, r.mws...) }
