package v1

import (
	"jobtrail/internal/delivery/http/handler"
	"jobtrail/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Jobs       *handler.JobHandler
	Interviews *handler.InterviewHandler
	Profile    *handler.ProfileHandler
	Auth       *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.Auth == nil {
		return
	}

	protected := r.Group("", h.Auth.Middleware())

	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(protected.Group("/jobs"))
	}
	if h.Interviews != nil {
		h.Interviews.RegisterRoutes(protected.Group("/interviews"))
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(protected.Group("/profile"))
	}
}
