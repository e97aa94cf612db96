package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type ProjectHandler struct {
	projectSvc ProjectServiceInterface
}

func NewProjectHandler(projectSvc ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{
		projectSvc: projectSvc,
	}
}

// @Summary Create Project
// @Description Create a mini project with an optional task list
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectRequest body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} shared.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.projectSvc.CreateProject(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Get Projects
// @Description List the caller's mini projects with tasks
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=[]dto.ProjectResponse}
// @Router /api/v1/projects [get]
func (h *ProjectHandler) GetProjects(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.projectSvc.GetStudentProjects(c.Context(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Update Project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param projectRequest body dto.UpdateProjectRequest true "Project data"
// @Success 200 {object} shared.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects/{projectId} [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.projectSvc.UpdateProject(c.Context(), userID, c.Params("projectId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Delete Project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/projects/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.projectSvc.DeleteProject(c.Context(), userID, c.Params("projectId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

type toggleTaskRequest struct {
	Completed bool `json:"completed"`
}

// @Summary Toggle Task
// @Description Mark a project task complete or incomplete; project progress is recomputed
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} shared.Response{data=dto.ProjectResponse}
// @Router /api/v1/projects/{projectId}/tasks/{taskId} [put]
func (h *ProjectHandler) ToggleTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req toggleTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.projectSvc.ToggleTask(c.Context(), userID, c.Params("projectId"), c.Params("taskId"), req.Completed)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
