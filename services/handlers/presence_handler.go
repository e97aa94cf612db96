package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type PresenceHandler struct {
	presenceSvc     PresenceServiceInterface
	notificationSvc NotificationServiceInterface
}

func NewPresenceHandler(presenceSvc PresenceServiceInterface, notificationSvc NotificationServiceInterface) *PresenceHandler {
	return &PresenceHandler{
		presenceSvc:     presenceSvc,
		notificationSvc: notificationSvc,
	}
}

// ==================== PRESENCE ====================

// @Summary Heartbeat
// @Description Record a presence heartbeat for the caller
// @Tags presence
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param heartbeatRequest body dto.HeartbeatRequest true "Heartbeat data"
// @Success 200 {object} shared.Response
// @Router /api/v1/presence/heartbeat [post]
func (h *PresenceHandler) Heartbeat(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.presenceSvc.Heartbeat(c.Context(), userID, req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Go Offline
// @Description Graceful disconnect: clear the caller's online flag
// @Tags presence
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response
// @Router /api/v1/presence/offline [post]
func (h *PresenceHandler) GoOffline(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.presenceSvc.GoOffline(c.Context(), userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Get Grade Presence
// @Description Who is online in a grade (teacher/admin)
// @Tags presence
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param grade query int true "Grade level"
// @Success 200 {object} shared.Response{data=dto.PresenceCollectionResponse}
// @Router /api/v1/presence [get]
func (h *PresenceHandler) GetGradePresence(c *fiber.Ctx) error {
	grade, err := strconv.Atoi(c.Query("grade"))
	if err != nil || grade < 1 || grade > 12 {
		return shared.NewBadRequestError(err, "A grade between 1 and 12 is required")
	}

	resp, err := h.presenceSvc.GetGradePresence(grade)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// ==================== NOTIFICATIONS ====================

// @Summary Get Notifications
// @Description List the caller's recent notifications with the unread count
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.NotificationListResponse}
// @Router /api/v1/notifications [get]
func (h *PresenceHandler) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.notificationSvc.GetNotifications(c.Context(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Mark Notification Read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notificationId path string true "Notification ID"
// @Success 200 {object} shared.Response{data=dto.NotificationListResponse}
// @Router /api/v1/notifications/{notificationId}/read [put]
func (h *PresenceHandler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.notificationSvc.MarkRead(c.Context(), userID, c.Params("notificationId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Mark All Notifications Read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} shared.Response{data=dto.NotificationListResponse}
// @Router /api/v1/notifications/read-all [put]
func (h *PresenceHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.notificationSvc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
