package services

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type ContentService struct {
	appContext.DefaultService

	db    *PostgresService
	cache *CacheService
	minio *MinIOService
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.minio = ctx.Service(MINIO_SVC).(*MinIOService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	return nil
}

// ==================== CONTENT TREE ====================

// GetContentTree returns the assembled Section→Topic→Lesson→Media tree
// for a grade, annotated with the requesting student's progress. Cached
// per grade and user; one batched query resolves progress for every
// lesson in the tree.
func (svc *ContentService) GetContentTree(ctx context.Context, userID string, gradeLevel int, role string) (*dto.ContentTreeResponse, error) {
	scope := strconv.Itoa(gradeLevel) + ":" + userID

	var tree dto.ContentTreeResponse
	err := svc.cache.GetOrFetch(ctx, "content", scope, TierMedium, &tree, func(ctx context.Context) (interface{}, error) {
		return svc.fetchTree(userID, gradeLevel, role)
	})
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

func (svc *ContentService) fetchTree(userID string, gradeLevel int, role string) (*dto.ContentTreeResponse, error) {
	includeInactive := role != shared.RoleStudent

	sections, err := svc.db.Content().GetSectionTree(gradeLevel, includeInactive)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	lessonIDs := collectLessonIDs(sections)

	progressByLesson := map[string]*model.StudentProgress{}
	if role == shared.RoleStudent && len(lessonIDs) > 0 {
		rows, err := svc.db.Progress().GetProgressForContentIDs(userID, shared.ContentTypeLesson, lessonIDs)
		if err != nil {
			return nil, svc.db.HandleError(err)
		}
		for i := range rows {
			progressByLesson[rows[i].ContentID] = &rows[i]
		}
	}

	tree := BuildContentTree(sections, progressByLesson, svc.resolveMediaURL)
	return &tree, nil
}

func collectLessonIDs(sections []model.Section) []string {
	var ids []string
	for _, s := range sections {
		for _, t := range s.Topics {
			for _, l := range t.Lessons {
				ids = append(ids, l.ID)
			}
		}
	}
	return ids
}

func (svc *ContentService) resolveMediaURL(media model.LessonMedia) string {
	// Code embeds carry their content in metadata, nothing stored.
	if media.MediaType == shared.MediaTypeCode || media.FilePath == "" {
		return ""
	}

	url, err := svc.minio.GetFileURL(media.FilePath, MediaURLExpiry)
	if err != nil {
		log.WithError(err).WithField("media_id", media.ID).Warn("Failed to presign media URL")
		return ""
	}
	return url
}

// BuildContentTree assembles the response tree and computes the per-topic
// and per-section completion rollups. Pure; progress is keyed by lesson id.
func BuildContentTree(sections []model.Section, progress map[string]*model.StudentProgress, resolveURL func(model.LessonMedia) string) dto.ContentTreeResponse {
	out := dto.ContentTreeResponse{Sections: make([]dto.SectionTreeResponse, 0, len(sections))}

	for _, s := range sections {
		sectionResp := dto.SectionTreeResponse{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			OrderIndex:  s.OrderIndex,
			Topics:      make([]dto.TopicTreeResponse, 0, len(s.Topics)),
		}

		for _, t := range s.Topics {
			topicResp := dto.TopicTreeResponse{
				ID:         t.ID,
				SectionID:  t.SectionID,
				Title:      t.Title,
				Content:    t.Content,
				OrderIndex: t.OrderIndex,
				Lessons:    make([]dto.LessonTreeResponse, 0, len(t.Lessons)),
			}

			for _, l := range t.Lessons {
				lessonResp := dto.LessonTreeResponse{
					ID:         l.ID,
					TopicID:    l.TopicID,
					Title:      l.Title,
					Content:    l.Content,
					OrderIndex: l.OrderIndex,
					IsActive:   l.IsActive,
					Media:      make([]dto.LessonMediaResponse, 0, len(l.Media)),
				}

				for _, m := range l.Media {
					mediaResp := dto.LessonMediaResponse{
						ID:         m.ID,
						LessonID:   m.LessonID,
						MediaType:  m.MediaType,
						FilePath:   m.FilePath,
						FileName:   m.FileName,
						Metadata:   m.Metadata,
						OrderIndex: m.OrderIndex,
					}
					if resolveURL != nil {
						mediaResp.URL = resolveURL(m)
					}
					lessonResp.Media = append(lessonResp.Media, mediaResp)
				}

				if p, ok := progress[l.ID]; ok {
					lessonResp.Progress = &dto.LessonProgressSnapshot{
						ProgressPercentage: p.ProgressPercentage,
						PointsEarned:       p.PointsEarned,
						TimeSpentMinutes:   p.TimeSpentMinutes,
						CompletedAt:        p.CompletedAt,
					}
					topicResp.TotalLessons++
					if p.CompletedAt != nil {
						topicResp.CompletedLessons++
					}
				} else {
					topicResp.TotalLessons++
				}

				topicResp.Lessons = append(topicResp.Lessons, lessonResp)
			}

			topicResp.ProgressPercentage = roundPercent(topicResp.CompletedLessons, topicResp.TotalLessons)

			sectionResp.TotalLessons += topicResp.TotalLessons
			sectionResp.CompletedLessons += topicResp.CompletedLessons
			sectionResp.Topics = append(sectionResp.Topics, topicResp)
		}

		sectionResp.ProgressPercentage = roundPercent(sectionResp.CompletedLessons, sectionResp.TotalLessons)

		out.Sections = append(out.Sections, sectionResp)
	}

	return out
}

// roundPercent is completed/total as a percentage rounded to the nearest
// integer. Zero total is 0.
func roundPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return (completed*100 + total/2) / total
}

// ==================== SECTION CRUD ====================

func (svc *ContentService) CreateSection(ctx context.Context, req dto.CreateSectionRequest) (*model.Section, error) {
	section := &model.Section{
		ID:          uuid.Must(uuid.NewV7()).String(),
		GradeLevel:  req.GradeLevel,
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
	}

	created, err := svc.db.Content().CreateSection(section)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateGrade(ctx, section.GradeLevel)
	return created, nil
}

func (svc *ContentService) UpdateSection(ctx context.Context, id string, req dto.UpdateSectionRequest) (*model.Section, error) {
	section, err := svc.db.Content().GetSection(id)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if req.Title != "" {
		section.Title = req.Title
	}
	if req.Description != "" {
		section.Description = req.Description
	}
	if req.OrderIndex != nil {
		section.OrderIndex = *req.OrderIndex
	}

	if err := svc.db.Content().UpdateSection(section); err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateGrade(ctx, section.GradeLevel)
	return section, nil
}

// DeleteSection refuses when students hold progress under the section,
// unless force is set. The conflict response carries the affected count
// so the caller can confirm deliberately.
func (svc *ContentService) DeleteSection(ctx context.Context, id string, force bool) error {
	section, err := svc.db.Content().GetSection(id)
	if err != nil {
		return svc.db.HandleError(err)
	}

	lessonIDs, err := svc.db.Content().LessonIDsUnderSection(id)
	if err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.guardProgressDelete(lessonIDs, force); err != nil {
		return err
	}

	if err := svc.db.Content().DeleteSection(id); err != nil {
		return svc.db.HandleError(err)
	}

	svc.invalidateGrade(ctx, section.GradeLevel)
	return nil
}

// ==================== TOPIC CRUD ====================

func (svc *ContentService) CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*model.Topic, error) {
	section, err := svc.db.Content().GetSection(req.SectionID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	topic := &model.Topic{
		ID:         uuid.Must(uuid.NewV7()).String(),
		SectionID:  req.SectionID,
		Title:      req.Title,
		Content:    req.Content,
		OrderIndex: req.OrderIndex,
	}

	created, err := svc.db.Content().CreateTopic(topic)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateGrade(ctx, section.GradeLevel)
	return created, nil
}

func (svc *ContentService) UpdateTopic(ctx context.Context, id string, req dto.UpdateTopicRequest) (*model.Topic, error) {
	topic, err := svc.db.Content().GetTopic(id)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if req.Title != "" {
		topic.Title = req.Title
	}
	if req.Content != "" {
		topic.Content = req.Content
	}
	if req.OrderIndex != nil {
		topic.OrderIndex = *req.OrderIndex
	}

	if err := svc.db.Content().UpdateTopic(topic); err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateTopicGrade(ctx, topic.SectionID)
	return topic, nil
}

func (svc *ContentService) DeleteTopic(ctx context.Context, id string, force bool) error {
	topic, err := svc.db.Content().GetTopic(id)
	if err != nil {
		return svc.db.HandleError(err)
	}

	lessonIDs, err := svc.db.Content().LessonIDsUnderTopic(id)
	if err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.guardProgressDelete(lessonIDs, force); err != nil {
		return err
	}

	if err := svc.db.Content().DeleteTopic(id); err != nil {
		return svc.db.HandleError(err)
	}

	svc.invalidateTopicGrade(ctx, topic.SectionID)
	return nil
}

// ==================== LESSON CRUD ====================

func (svc *ContentService) CreateLesson(ctx context.Context, req dto.CreateLessonRequest) (*model.Lesson, error) {
	topic, err := svc.db.Content().GetTopic(req.TopicID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	lesson := &model.Lesson{
		ID:         uuid.Must(uuid.NewV7()).String(),
		TopicID:    req.TopicID,
		Title:      req.Title,
		Content:    req.Content,
		OrderIndex: req.OrderIndex,
		IsActive:   true,
	}
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}

	created, err := svc.db.Content().CreateLesson(lesson)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateTopicGrade(ctx, topic.SectionID)
	return created, nil
}

func (svc *ContentService) GetLesson(id string) (*model.Lesson, error) {
	lesson, err := svc.db.Content().GetLesson(id)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return lesson, nil
}

func (svc *ContentService) UpdateLesson(ctx context.Context, id string, req dto.UpdateLessonRequest) (*model.Lesson, error) {
	lesson, err := svc.db.Content().GetLesson(id)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if req.Title != "" {
		lesson.Title = req.Title
	}
	if req.Content != "" {
		lesson.Content = req.Content
	}
	if req.OrderIndex != nil {
		lesson.OrderIndex = *req.OrderIndex
	}
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}

	if err := svc.db.Content().UpdateLesson(lesson); err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.invalidateLessonGrade(ctx, lesson.TopicID)
	return lesson, nil
}

func (svc *ContentService) DeleteLesson(ctx context.Context, id string, force bool) error {
	lesson, err := svc.db.Content().GetLesson(id)
	if err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.guardProgressDelete([]string{id}, force); err != nil {
		return err
	}

	if err := svc.db.Content().DeleteLesson(id); err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.minio.DeleteLessonFiles(id); err != nil {
		log.WithError(err).WithField("lesson_id", id).Warn("Failed to remove lesson media objects")
	}

	svc.invalidateLessonGrade(ctx, lesson.TopicID)
	return nil
}

// ==================== HELPERS ====================

func (svc *ContentService) guardProgressDelete(lessonIDs []string, force bool) error {
	if force || len(lessonIDs) == 0 {
		return nil
	}

	count, err := svc.db.Progress().CountProgressForContentIDs(lessonIDs)
	if err != nil {
		return svc.db.HandleError(err)
	}
	if count > 0 {
		return shared.NewConflictError("Students have recorded progress under this content", map[string]interface{}{
			"progress_records": count,
		})
	}
	return nil
}

// invalidateGrade drops every user's cached tree for a grade. The scope
// prefix matches Key("content", "<grade>:<user>").
func (svc *ContentService) invalidateGrade(ctx context.Context, gradeLevel int) {
	if err := svc.cache.Invalidate(ctx, "content", strconv.Itoa(gradeLevel)); err != nil {
		log.WithError(err).WithField("grade", gradeLevel).Warn("Content cache invalidation failed")
	}
}

func (svc *ContentService) invalidateTopicGrade(ctx context.Context, sectionID string) {
	section, err := svc.db.Content().GetSection(sectionID)
	if err != nil {
		log.WithError(err).WithField("section_id", sectionID).Warn("Failed to resolve section for invalidation")
		return
	}
	svc.invalidateGrade(ctx, section.GradeLevel)
}

func (svc *ContentService) invalidateLessonGrade(ctx context.Context, topicID string) {
	topic, err := svc.db.Content().GetTopic(topicID)
	if err != nil {
		log.WithError(err).WithField("topic_id", topicID).Warn("Failed to resolve topic for invalidation")
		return
	}
	svc.invalidateTopicGrade(ctx, topic.SectionID)
}
