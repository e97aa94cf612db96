package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type AdminHandler struct {
	authSvc AuthServiceInterface
}

func NewAdminHandler(authSvc AuthServiceInterface) *AdminHandler {
	return &AdminHandler{
		authSvc: authSvc,
	}
}

// @Summary List Users
// @Description Paginated user list with optional search (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Match against email and username"
// @Success 200 {object} shared.Response{data=dto.AdminUserListResponse}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	resp, err := h.authSvc.ListUsers(page, limit, c.Query("search"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Update User
// @Description Change a user's role, grade or school (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param updateRequest body dto.AdminUpdateUserRequest true "Fields to change"
// @Success 200 {object} shared.Response{data=dto.UserInfo}
// @Router /api/v1/admin/users/{userId} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.authSvc.AdminUpdateUser(c.Params("userId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
