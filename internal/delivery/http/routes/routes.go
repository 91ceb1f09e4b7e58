package routes

import (
	"jobtrail/internal/delivery/http/handler"
	"jobtrail/internal/delivery/http/middleware"
	v1 "jobtrail/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health     *handler.HealthHandler
	jobs       *handler.JobHandler
	interviews *handler.InterviewHandler
	profile    *handler.ProfileHandler
	auth       *middleware.AuthMiddleware
}

func NewRegistry(
	jobs *handler.JobHandler,
	interviews *handler.InterviewHandler,
	profile *handler.ProfileHandler,
	auth *middleware.AuthMiddleware,
) *Registry {
	return &Registry{
		health:     handler.NewHealthHandler(),
		jobs:       jobs,
		interviews: interviews,
		profile:    profile,
		auth:       auth,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), v1.Handlers{
		Jobs:       r.jobs,
		Interviews: r.interviews,
		Profile:    r.profile,
		Auth:       r.auth,
	})
}
