package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Attach Media
// @Description Attach a media asset to a lesson. File-backed types take a multipart file; code embeds only metadata
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Param media_type formData string true "video, image, lottie, code or 3d_model"
// @Param file_name formData string false "Original file name"
// @Param metadata formData string false "Type-dependent metadata JSON"
// @Param order_index formData int false "Position within the lesson"
// @Param file formData file false "Media file"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/content/lessons/{lessonId}/media [post]
func (h *MediaHandler) AttachMedia(c *fiber.Ctx) error {
	req := dto.AttachMediaRequest{
		MediaType: c.FormValue("media_type"),
		FileName:  c.FormValue("file_name"),
	}

	if raw := c.FormValue("metadata"); raw != "" {
		req.Metadata = json.RawMessage(raw)
	}
	if raw := c.FormValue("order_index"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid order index")
		}
		req.OrderIndex = idx
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	// Missing file is fine for code media; the service enforces the rest.
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}

	resp, err := h.mediaSvc.AttachMedia(c.Context(), c.Params("lessonId"), req, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Delete Media
// @Tags media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mediaId path string true "Media ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/content/media/{mediaId} [delete]
func (h *MediaHandler) DeleteMedia(c *fiber.Ctx) error {
	if err := h.mediaSvc.DeleteMedia(c.Context(), c.Params("mediaId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
