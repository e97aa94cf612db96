package services

import (
	"testing"

	"github.com/lumina-edu/lumina_api/shared"
)

func TestValidateMediaMetadata(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		metadata  string
		valid     bool
	}{
		{"video without metadata", shared.MediaTypeVideo, "", true},
		{"video with metadata", shared.MediaTypeVideo, `{"speed": 1}`, false},
		{"image without metadata", shared.MediaTypeImage, "", true},
		{"image with metadata", shared.MediaTypeImage, `{}`, false},

		{"lottie without metadata", shared.MediaTypeLottie, "", true},
		{"lottie valid", shared.MediaTypeLottie, `{"speed": 1.5, "loop": true}`, true},
		{"lottie speed too high", shared.MediaTypeLottie, `{"speed": 9.0}`, false},
		{"lottie malformed", shared.MediaTypeLottie, `{speed}`, false},

		{"3d model without metadata", shared.MediaType3D, "", true},
		{"3d model valid", shared.MediaType3D, `{"autoRotate": true}`, true},
		{"3d model malformed", shared.MediaType3D, `[broken`, false},

		{"code requires metadata", shared.MediaTypeCode, "", false},
		{"code valid", shared.MediaTypeCode, `{"code_content": "print(1)", "language": "python"}`, true},
		{"code missing language", shared.MediaTypeCode, `{"code_content": "print(1)"}`, false},
		{"code missing content", shared.MediaTypeCode, `{"language": "python"}`, false},

		{"unknown type", "gif", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var raw []byte
			if tc.metadata != "" {
				raw = []byte(tc.metadata)
			}

			err := ValidateMediaMetadata(tc.mediaType, raw)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected a validation error")
			}
			if !tc.valid && err != nil && !shared.IsClientError(err) {
				t.Errorf("metadata failures must be client errors, got %v", err)
			}
		})
	}
}
