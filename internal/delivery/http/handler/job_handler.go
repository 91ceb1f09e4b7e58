package handler

import (
	"errors"

	"jobtrail/internal/delivery/http/dto"
	"jobtrail/internal/delivery/http/middleware"
	"jobtrail/internal/pkg/response"
	"jobtrail/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Delete("/bulk-delete", h.BulkDelete)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Post("/:id/reanalyze", h.Reanalyze)
	r.Post("/:id/generate-docs", h.GenerateDocs)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	app, created, err := h.uc.Create(c.Context(), userID, req.ApplyLink)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	status := fiber.StatusOK
	msg := "Job re-analyzed successfully"
	if created {
		status = fiber.StatusCreated
		msg = "Job analyzed and saved successfully"
	}
	return response.Success(c, status, msg, dto.NewJobResponse(app))
}

func (h *JobHandler) List(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	apps, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListResponse(apps))
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	app, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(app))
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	app, err := h.uc.Update(c.Context(), userID, id, usecase.UpdateJobInput{
		CompanyName: req.CompanyName,
		Position:    req.Position,
		ApplyLink:   req.ApplyLink,
		Status:      req.Status,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job updated successfully", dto.NewJobResponse(app))
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
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
	return response.Success(c, fiber.StatusOK, "Job deleted successfully", nil)
}

func (h *JobHandler) BulkDelete(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.BulkDeleteJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.BulkDelete(c.Context(), userID, req.IDs); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Jobs deleted successfully", nil)
}

func (h *JobHandler) Reanalyze(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	app, err := h.uc.Reanalyze(c.Context(), userID, id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job re-analyzed successfully", dto.NewJobResponse(app))
}

func (h *JobHandler) GenerateDocs(c fiber.Ctx) error {
	userID, ok := authUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	userName, _ := c.Locals(middleware.CtxNameKey).(string)
	if userName == "" {
		userName = "Applicant"
	}

	app, err := h.uc.GenerateDocs(c.Context(), userID, id, userName)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Documents generated successfully", dto.NewJobResponse(app))
}

func authUserID(c fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var conflict *usecase.ConflictError
	switch {
	case errors.As(err, &conflict):
		data := fiber.Map{"error_type": conflict.Conflict.Type}
		if conflict.Interview != nil {
			data["interview"] = dto.NewInterviewResponse(conflict.Interview)
		}
		return middleware.NewAppError(fiber.StatusConflict, conflict.Conflict.Message, data, err)
	case errors.Is(err, usecase.ErrInvalidLink):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
