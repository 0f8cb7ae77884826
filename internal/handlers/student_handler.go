package handlers

import (
	"fmt"

	"scholarsync/internal/apperrors"
	"scholarsync/internal/middleware"
	"scholarsync/internal/models"
	"scholarsync/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StudentHandler handles HTTP requests for student records.
type StudentHandler struct {
	service *services.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(service *services.StudentService) *StudentHandler {
	return &StudentHandler{
		service: service,
	}
}

// RegisterRoutes registers the student routes on a router that already
// enforces the session and role checks.
func (h *StudentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stats/overview", h.HandleStats)
	router.Post("/bulk-delete", h.HandleBulkDelete)
	router.Get("/", h.HandleList)
	router.Post("/", h.HandleCreate)
	router.Get("/:id", h.HandleGet)
	router.Put("/:id", h.HandleUpdate)
	router.Delete("/:id", h.HandleDelete)
}

// StudentData is the data of single-student responses.
type StudentData struct {
	Student *models.Student `json:"student"`
}

// BulkDeleteRequest accepts the identifiers under either name.
type BulkDeleteRequest struct {
	StudentIDs []string `json:"studentIds"`
	IDs        []string `json:"ids"`
}

// BulkDeleteData is the data of a bulk delete response.
type BulkDeleteData struct {
	DeletedCount int64 `json:"deletedCount"`
}

// HandleList returns a filtered, sorted page of students.
func (h *StudentHandler) HandleList(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), services.ListStudentsParams{
		Grade:      c.Query("grade"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		Order:      c.Query("order"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", services.DefaultPageLimit),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Students retrieved successfully", page)
}

// HandleGet returns a single student.
func (h *StudentHandler) HandleGet(c *fiber.Ctx) error {
	student, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Student retrieved successfully", StudentData{Student: student})
}

// HandleCreate creates a student owned by the signed-in user.
func (h *StudentHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.CreateStudentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthenticatedError("Unauthorized, please login")
	}

	student, err := h.service.Create(c.UserContext(), req, user.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, "Student created successfully", StudentData{Student: student})
}

// HandleUpdate applies a partial update to a student.
func (h *StudentHandler) HandleUpdate(c *fiber.Ctx) error {
	var req services.UpdateStudentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	student, err := h.service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Student updated successfully", StudentData{Student: student})
}

// HandleDelete deletes a student.
func (h *StudentHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Student deleted successfully", nil)
}

// HandleBulkDelete deletes every listed student.
func (h *StudentHandler) HandleBulkDelete(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	ids := req.StudentIDs
	if ids == nil {
		ids = req.IDs
	}

	deleted, err := h.service.BulkDelete(c.UserContext(), ids)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("%d students deleted successfully", deleted), BulkDeleteData{DeletedCount: deleted})
}

// HandleStats returns the dashboard aggregates.
func (h *StudentHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Statistics retrieved successfully", stats)
}
