package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get Content Tree
// @Description Get the section/topic/lesson tree for a grade with the caller's progress
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param grade query int true "Grade level"
// @Success 200 {object} shared.Response{data=dto.ContentTreeResponse}
// @Router /api/v1/content/tree [get]
func (h *ContentHandler) GetContentTree(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	role, _ := c.Locals(shared.UserRole).(string)

	grade, err := strconv.Atoi(c.Query("grade"))
	if err != nil || grade < 1 || grade > 12 {
		return shared.NewBadRequestError(err, "A grade between 1 and 12 is required")
	}

	tree, err := h.contentSvc.GetContentTree(c.Context(), userID, grade, role)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tree)
}

// @Summary Get Lesson
// @Description Get one lesson with its ordered media
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/content/lessons/{lessonId} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lesson, err := h.contentSvc.GetLesson(c.Params("lessonId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}

// ==================== SECTION MANAGEMENT ====================

// @Summary Create Section
// @Description Create a curriculum section (teacher/admin)
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionRequest body dto.CreateSectionRequest true "Section data"
// @Success 201 {object} shared.Response{data=model.Section}
// @Router /api/v1/content/sections [post]
func (h *ContentHandler) CreateSection(c *fiber.Ctx) error {
	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	section, err := h.contentSvc.CreateSection(c.Context(), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", section)
}

// @Summary Update Section
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param sectionRequest body dto.UpdateSectionRequest true "Section data"
// @Success 200 {object} shared.Response{data=model.Section}
// @Router /api/v1/content/sections/{sectionId} [put]
func (h *ContentHandler) UpdateSection(c *fiber.Ctx) error {
	var req dto.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	section, err := h.contentSvc.UpdateSection(c.Context(), c.Params("sectionId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", section)
}

// @Summary Delete Section
// @Description Delete a section. Returns 409 with the affected progress count unless force=true
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path string true "Section ID"
// @Param force query bool false "Skip the progress confirmation check"
// @Success 200 {object} shared.Response
// @Router /api/v1/content/sections/{sectionId} [delete]
func (h *ContentHandler) DeleteSection(c *fiber.Ctx) error {
	force := c.QueryBool("force")

	if err := h.contentSvc.DeleteSection(c.Context(), c.Params("sectionId"), force); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// ==================== TOPIC MANAGEMENT ====================

// @Summary Create Topic
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicRequest body dto.CreateTopicRequest true "Topic data"
// @Success 201 {object} shared.Response{data=model.Topic}
// @Router /api/v1/content/topics [post]
func (h *ContentHandler) CreateTopic(c *fiber.Ctx) error {
	var req dto.CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	topic, err := h.contentSvc.CreateTopic(c.Context(), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", topic)
}

// @Summary Update Topic
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicId path string true "Topic ID"
// @Param topicRequest body dto.UpdateTopicRequest true "Topic data"
// @Success 200 {object} shared.Response{data=model.Topic}
// @Router /api/v1/content/topics/{topicId} [put]
func (h *ContentHandler) UpdateTopic(c *fiber.Ctx) error {
	var req dto.UpdateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	topic, err := h.contentSvc.UpdateTopic(c.Context(), c.Params("topicId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", topic)
}

// @Summary Delete Topic
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topicId path string true "Topic ID"
// @Param force query bool false "Skip the progress confirmation check"
// @Success 200 {object} shared.Response
// @Router /api/v1/content/topics/{topicId} [delete]
func (h *ContentHandler) DeleteTopic(c *fiber.Ctx) error {
	force := c.QueryBool("force")

	if err := h.contentSvc.DeleteTopic(c.Context(), c.Params("topicId"), force); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// ==================== LESSON MANAGEMENT ====================

// @Summary Create Lesson
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonRequest body dto.CreateLessonRequest true "Lesson data"
// @Success 201 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/content/lessons [post]
func (h *ContentHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.contentSvc.CreateLesson(c.Context(), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", lesson)
}

// @Summary Update Lesson
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Param lessonRequest body dto.UpdateLessonRequest true "Lesson data"
// @Success 200 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/content/lessons/{lessonId} [put]
func (h *ContentHandler) UpdateLesson(c *fiber.Ctx) error {
	var req dto.UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.contentSvc.UpdateLesson(c.Context(), c.Params("lessonId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}

// @Summary Delete Lesson
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Param force query bool false "Skip the progress confirmation check"
// @Success 200 {object} shared.Response
// @Router /api/v1/content/lessons/{lessonId} [delete]
func (h *ContentHandler) DeleteLesson(c *fiber.Ctx) error {
	force := c.QueryBool("force")

	if err := h.contentSvc.DeleteLesson(c.Context(), c.Params("lessonId"), force); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
