package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type ExamHandler struct {
	examSvc ExamServiceInterface
}

func NewExamHandler(examSvc ExamServiceInterface) *ExamHandler {
	return &ExamHandler{
		examSvc: examSvc,
	}
}

// @Summary Create Exam Draft
// @Description Start a new exam builder draft at step 1
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} shared.Response{data=dto.ExamDraftResponse}
// @Router /api/v1/exams/drafts [post]
func (h *ExamHandler) CreateDraft(c *fiber.Ctx) error {
	teacherID := c.Locals(shared.UserID).(string)

	resp, err := h.examSvc.CreateDraft(teacherID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Get Exam Draft
// @Description Get a draft with its current step and available question count
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Success 200 {object} shared.Response{data=dto.ExamDraftResponse}
// @Router /api/v1/exams/drafts/{draftId} [get]
func (h *ExamHandler) GetDraft(c *fiber.Ctx) error {
	teacherID := c.Locals(shared.UserID).(string)

	resp, err := h.examSvc.GetDraft(c.Params("draftId"), teacherID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Update Exam Step
// @Description Save one builder step; the step only advances when its checks pass
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Param stepRequest body dto.ExamStepUpdateRequest true "Step fields"
// @Success 200 {object} shared.Response{data=dto.ExamStepResult}
// @Router /api/v1/exams/drafts/{draftId}/steps [put]
func (h *ExamHandler) UpdateStep(c *fiber.Ctx) error {
	teacherID := c.Locals(shared.UserID).(string)

	var req dto.ExamStepUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.examSvc.UpdateStep(c.Params("draftId"), teacherID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Submit Exam
// @Description Run the full validation and freeze the draft into an exam
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Success 201 {object} shared.Response{data=dto.ExamResponse}
// @Router /api/v1/exams/drafts/{draftId}/submit [post]
func (h *ExamHandler) Submit(c *fiber.Ctx) error {
	teacherID := c.Locals(shared.UserID).(string)

	resp, err := h.examSvc.Submit(c.Params("draftId"), teacherID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Delete Exam Draft
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/exams/drafts/{draftId} [delete]
func (h *ExamHandler) DeleteDraft(c *fiber.Ctx) error {
	teacherID := c.Locals(shared.UserID).(string)

	if err := h.examSvc.DeleteDraft(c.Params("draftId"), teacherID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Get Teacher Exams
// @Description List the caller's submitted exams
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=[]dto.ExamResponse}
// @Router /api/v1/exams [get]
func (h *ExamHandler) GetExams(c *fiber.Ctx) error {
	teacherID := c.Locals(shared.UserID).(string)

	resp, err := h.examSvc.GetTeacherExams(teacherID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
