package dto

import "encoding/json"

// ==================== MEDIA DTOs ====================

// Metadata bags are tagged by media_type. Only the variant matching the
// declared type is honored; unknown keys are rejected at upload.

type LottieMetadata struct {
	Speed float64 `json:"speed" validate:"omitempty,gt=0,lte=5"`
	Loop  bool    `json:"loop"`
}

func (m LottieMetadata) Validate() error {
	return GetValidator().Struct(m)
}

type ModelMetadata struct {
	AutoRotate bool `json:"autoRotate"`
}

type CodeMetadata struct {
	CodeContent string `json:"code_content" validate:"required"`
	Language    string `json:"language" validate:"required,max=40"`
}

func (m CodeMetadata) Validate() error {
	return GetValidator().Struct(m)
}

type AttachMediaRequest struct {
	MediaType  string          `json:"media_type" validate:"required,oneof=video image lottie code 3d_model"`
	FileName   string          `json:"file_name" validate:"required_unless=MediaType code"`
	Metadata   json.RawMessage `json:"metadata"`
	OrderIndex int             `json:"order_index" validate:"gte=0"`
}

func (r AttachMediaRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MediaUploadResponse struct {
	ID        string `json:"id"`
	LessonID  string `json:"lesson_id"`
	MediaType string `json:"media_type"`
	FilePath  string `json:"file_path"`
	FileName  string `json:"file_name"`
	URL       string `json:"url"`
	Size      int64  `json:"size"`
}
