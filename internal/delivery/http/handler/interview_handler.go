package handler

import (
	"jobtrail/internal/delivery/http/dto"
	"jobtrail/internal/delivery/http/middleware"
	"jobtrail/internal/pkg/response"
	"jobtrail/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type InterviewHandler struct {
	uc usecase.InterviewUsecase
}

func NewInterviewHandler(uc usecase.InterviewUsecase) *InterviewHandler {
	return &InterviewHandler{uc: uc}
}

func (h *InterviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	// check-company must come before the id routes so fiber does not
	// swallow it as an :id match.
	r.Get("/check-company", h.CheckCompany)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

func (h *InterviewHandler) Create(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.CreateInterviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	iv, created, err := h.uc.Create(c.Context(), userID, usecase.CreateInterviewInput{
		JobApplicationID: req.JobApplicationID,
		CompanyName:      req.CompanyName,
		Position:         req.Position,
		InterviewLink:    req.InterviewLink,
		MailContent:      req.MailContent,
		Notes:            req.Notes,
		Status:           req.Status,
		ScheduledAt:      req.ScheduledAt,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}

	status := fiber.StatusOK
	msg := "Interview linked to existing record"
	if created {
		status = fiber.StatusCreated
		msg = "Interview created successfully"
	}
	return response.Success(c, status, msg, dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) List(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInterviewListResponse(items))
}

func (h *InterviewHandler) Get(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	iv, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) Update(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateInterviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	iv, err := h.uc.Update(c.Context(), userID, id, usecase.UpdateInterviewInput{
		CompanyName:   req.CompanyName,
		Position:      req.Position,
		InterviewLink: req.InterviewLink,
		MailContent:   req.MailContent,
		Notes:         req.Notes,
		Status:        req.Status,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Interview updated successfully", dto.NewInterviewResponse(iv))
}

func (h *InterviewHandler) Delete(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Interview deleted successfully", nil)
}

func (h *InterviewHandler) CheckCompany(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	check, err := h.uc.CheckCompany(c.Context(), userID, c.Query("name"))
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, check)
}
