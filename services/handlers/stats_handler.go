package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/shared"
)

type StatsHandler struct {
	statsSvc StatsServiceInterface
}

func NewStatsHandler(statsSvc StatsServiceInterface) *StatsHandler {
	return &StatsHandler{
		statsSvc: statsSvc,
	}
}

// @Summary Dashboard Stats
// @Description Completion, points, streak and rank for the caller
// @Tags stats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.DashboardStatsResponse}
// @Router /api/v1/stats/dashboard [get]
func (h *StatsHandler) GetDashboardStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.statsSvc.GetDashboardStats(c.Context(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Leaderboard
// @Description Top students for a grade by points, viewer marked
// @Tags stats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param grade query int true "Grade level"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/stats/leaderboard [get]
func (h *StatsHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	grade, err := strconv.Atoi(c.Query("grade"))
	if err != nil || grade < 1 || grade > 12 {
		return shared.NewBadRequestError(err, "A grade between 1 and 12 is required")
	}

	resp, err := h.statsSvc.GetLeaderboard(c.Context(), userID, grade)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
