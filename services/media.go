package services

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type MediaService struct {
	appContext.DefaultService

	db    *PostgresService
	cache *CacheService
	minio *MinIOService
}

const MEDIA_SVC = "media_svc"

// 100 MB covers lesson videos; everything else is far smaller.
const maxUploadBytes = 100 << 20

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.minio = ctx.Service(MINIO_SVC).(*MinIOService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	return nil
}

// ==================== ATTACH ====================

// AttachMedia validates the type-dependent metadata bag, stores the file
// for file-backed media, and creates the LessonMedia row. Code embeds
// carry their content in metadata and skip storage entirely.
func (svc *MediaService) AttachMedia(ctx context.Context, lessonID string, req dto.AttachMediaRequest, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	lesson, err := svc.db.Content().GetLesson(lessonID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if err := ValidateMediaMetadata(req.MediaType, req.Metadata); err != nil {
		return nil, err
	}

	media := &model.LessonMedia{
		ID:         uuid.Must(uuid.NewV7()).String(),
		LessonID:   lesson.ID,
		MediaType:  req.MediaType,
		FileName:   req.FileName,
		Metadata:   req.Metadata,
		OrderIndex: req.OrderIndex,
	}

	var size int64
	if req.MediaType != shared.MediaTypeCode {
		if file == nil {
			return nil, shared.NewBadRequestError(nil, "A file is required for "+req.MediaType+" media")
		}
		if file.Size > maxUploadBytes {
			return nil, shared.NewBadRequestError(nil, "File exceeds the "+strconv.Itoa(maxUploadBytes>>20)+" MB limit")
		}

		src, err := file.Open()
		if err != nil {
			return nil, shared.NewBadRequestError(err, "Unable to read uploaded file")
		}
		defer src.Close()

		objectName, err := svc.minio.UploadLessonMedia(lesson.ID, req.FileName, src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to store media file")
		}

		media.FilePath = objectName
		size = file.Size
	}

	created, err := svc.db.Content().CreateMedia(media)
	if err != nil {
		// Orphaned object if the row failed; clean it up.
		if media.FilePath != "" {
			if rmErr := svc.minio.DeleteFile(media.FilePath); rmErr != nil {
				log.WithError(rmErr).WithField("object", media.FilePath).Warn("Failed to remove orphaned media object")
			}
		}
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateLessonTree(ctx, lesson.TopicID)

	resp := &dto.MediaUploadResponse{
		ID:        created.ID,
		LessonID:  created.LessonID,
		MediaType: created.MediaType,
		FilePath:  created.FilePath,
		FileName:  created.FileName,
		Size:      size,
	}
	if created.FilePath != "" {
		if url, err := svc.minio.GetFileURL(created.FilePath, MediaURLExpiry); err == nil {
			resp.URL = url
		}
	}

	return resp, nil
}

// ValidateMediaMetadata checks the metadata bag against the declared
// media type. Types without a bag must not carry one.
func ValidateMediaMetadata(mediaType string, metadata []byte) error {
	switch mediaType {
	case shared.MediaTypeLottie:
		if len(metadata) == 0 {
			return nil
		}
		var m dto.LottieMetadata
		if err := sonic.Unmarshal(metadata, &m); err != nil {
			return shared.NewBadRequestError(err, "Invalid lottie metadata")
		}
		if err := m.Validate(); err != nil {
			return shared.NewBadRequestError(err, "Invalid lottie metadata")
		}
	case shared.MediaType3D:
		if len(metadata) == 0 {
			return nil
		}
		var m dto.ModelMetadata
		if err := sonic.Unmarshal(metadata, &m); err != nil {
			return shared.NewBadRequestError(err, "Invalid 3d model metadata")
		}
	case shared.MediaTypeCode:
		if len(metadata) == 0 {
			return shared.NewBadRequestError(nil, "Code media requires metadata with code content")
		}
		var m dto.CodeMetadata
		if err := sonic.Unmarshal(metadata, &m); err != nil {
			return shared.NewBadRequestError(err, "Invalid code metadata")
		}
		if err := m.Validate(); err != nil {
			return shared.NewBadRequestError(err, "Invalid code metadata")
		}
	case shared.MediaTypeVideo, shared.MediaTypeImage:
		if len(metadata) > 0 {
			return shared.NewBadRequestError(nil, mediaType+" media does not accept metadata")
		}
	default:
		return shared.NewBadRequestError(nil, "Unknown media type: "+mediaType)
	}

	return nil
}

// ==================== DELETE ====================

func (svc *MediaService) DeleteMedia(ctx context.Context, mediaID string) error {
	media, err := svc.db.Content().GetMedia(mediaID)
	if err != nil {
		return svc.db.HandleError(err)
	}

	lesson, err := svc.db.Content().GetLesson(media.LessonID)
	if err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.db.Content().DeleteMedia(mediaID); err != nil {
		return svc.db.HandleError(err)
	}

	if media.FilePath != "" {
		if err := svc.minio.DeleteFile(media.FilePath); err != nil {
			log.WithError(err).WithField("object", media.FilePath).Warn("Failed to remove media object")
		}
	}

	svc.invalidateLessonTree(ctx, lesson.TopicID)
	return nil
}

func (svc *MediaService) invalidateLessonTree(ctx context.Context, topicID string) {
	topic, err := svc.db.Content().GetTopic(topicID)
	if err != nil {
		log.WithError(err).WithField("topic_id", topicID).Warn("Failed to resolve topic for invalidation")
		return
	}
	section, err := svc.db.Content().GetSection(topic.SectionID)
	if err != nil {
		log.WithError(err).WithField("section_id", topic.SectionID).Warn("Failed to resolve section for invalidation")
		return
	}
	if err := svc.cache.Invalidate(ctx, "content", strconv.Itoa(section.GradeLevel)); err != nil {
		log.WithError(err).WithField("grade", section.GradeLevel).Warn("Content cache invalidation failed")
	}
}
