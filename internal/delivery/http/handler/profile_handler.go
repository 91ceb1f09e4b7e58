package handler

import (
	"jobtrail/internal/delivery/http/dto"
	"jobtrail/internal/delivery/http/middleware"
	"jobtrail/internal/pkg/response"
	"jobtrail/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Get)
	r.Post("/", h.Update)
	r.Post("/re-evaluate", h.ReEvaluate)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.Update(c.Context(), userID, usecase.UpdateProfileInput{
		Skills:      req.Skills,
		Experience:  req.Experience,
		Preferences: req.Preferences,
		Seniority:   req.Seniority,
		TechStack:   req.TechStack,

		LinkedinLink: req.LinkedinLink,
		GithubLink:   req.GithubLink,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", dto.NewProfileResponse(p))
}

func (h *ProfileHandler) ReEvaluate(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.ReEvaluate(c.Context(), userID)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile re-evaluated successfully", dto.NewProfileResponse(p))
}
