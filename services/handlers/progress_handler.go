package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type ProgressHandler struct {
	progressSvc    ProgressServiceInterface
	achievementSvc AchievementServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface, achievementSvc AchievementServiceInterface) *ProgressHandler {
	return &ProgressHandler{
		progressSvc:    progressSvc,
		achievementSvc: achievementSvc,
	}
}

// @Summary Update Progress
// @Description Upsert the caller's progress for one piece of content
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param progressRequest body dto.UpdateProgressRequest true "Progress data"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress [post]
func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.progressSvc.UpdateProgress(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Get Progress
// @Description Get all progress records for the caller
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=[]dto.ProgressResponse}
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressSvc.GetStudentProgress(c.Context(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Get Achievements
// @Description Get the achievement catalog with the caller's progress toward each entry
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.AchievementCollectionResponse}
// @Router /api/v1/achievements [get]
func (h *ProgressHandler) GetAchievements(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.achievementSvc.GetAchievements(c.Context(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
