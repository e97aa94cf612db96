package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type ProgressService struct {
	appContext.DefaultService

	db           *PostgresService
	cache        *CacheService
	achievements *AchievementService
	monitoring   *MonitoringService
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.achievements = ctx.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.monitoring = ctx.Service(MONITORING_SVC).(*MonitoringService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	return nil
}

// ==================== PROGRESS WRITES ====================

// UpdateProgress upserts the student's progress row for one piece of
// content. Percentage is clamped to [0,100]; completed_at is stamped
// exactly when the clamped value reaches 100 and cleared otherwise. The
// activity log write is best effort and never fails the request.
func (svc *ProgressService) UpdateProgress(ctx context.Context, studentID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error) {
	pct := ClampPercentage(req.ProgressPercentage)

	progress := &model.StudentProgress{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		StudentID:          studentID,
		ContentID:          req.ContentID,
		ContentType:        req.ContentType,
		ProgressPercentage: pct,
		PointsEarned:       req.PointsEarned,
		TimeSpentMinutes:   req.TimeSpentMinutes,
	}
	if pct >= 100 {
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := svc.db.Progress().UpsertProgress(progress); err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.monitoring.RecordProgressWrite(req.ContentType)
	svc.logActivity(studentID, req)

	svc.invalidateAfterWrite(ctx, studentID)

	// Re-evaluate achievements off the request path; a new completion or
	// point total may cross a threshold.
	go func() {
		if err := svc.achievements.Evaluate(context.Background(), studentID); err != nil {
			log.WithError(err).WithField("student_id", studentID).Warn("Achievement evaluation failed")
		}
	}()

	return &dto.ProgressResponse{
		StudentID:          studentID,
		ContentID:          req.ContentID,
		ContentType:        req.ContentType,
		ProgressPercentage: pct,
		PointsEarned:       req.PointsEarned,
		TimeSpentMinutes:   req.TimeSpentMinutes,
		CompletedAt:        progress.CompletedAt,
	}, nil
}

// ClampPercentage bounds a raw progress value to [0,100].
func ClampPercentage(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ActivityTypeFor maps a content type to its activity log category.
// Lessons count as document reads; unknown types are not logged.
func ActivityTypeFor(contentType string) string {
	switch contentType {
	case shared.ContentTypeVideo:
		return shared.ActivityVideoWatch
	case shared.ContentTypeDocument, shared.ContentTypeLesson:
		return shared.ActivityDocumentRead
	case shared.ContentTypeProject:
		return shared.ActivityProjectSubmit
	case shared.ContentTypeGame:
		return shared.ActivityGamePlay
	default:
		return ""
	}
}

func (svc *ProgressService) logActivity(studentID string, req dto.UpdateProgressRequest) {
	activityType := ActivityTypeFor(req.ContentType)
	if activityType == "" {
		return
	}

	entry := &model.ActivityLog{
		ID:              uuid.Must(uuid.NewV7()).String(),
		StudentID:       studentID,
		ActivityType:    activityType,
		ContentID:       req.ContentID,
		DurationMinutes: req.TimeSpentMinutes,
		Points:          req.PointsEarned,
	}

	go func() {
		if err := svc.db.Progress().CreateActivityLog(entry); err != nil {
			log.WithError(err).WithField("student_id", studentID).Warn("Activity log write failed")
		}
	}()
}

func (svc *ProgressService) invalidateAfterWrite(ctx context.Context, studentID string) {
	svc.cache.InvalidateFamilies(ctx, studentID, "progress", "stats", "achievements")

	// Content trees are scoped by grade and user; resolve the grade so
	// only this student's tree is dropped.
	user, err := svc.db.Users().GetUser(studentID)
	if err != nil {
		log.WithError(err).WithField("student_id", studentID).Warn("Failed to resolve user for invalidation")
		return
	}
	scope := strconv.Itoa(user.GradeLevel) + ":" + studentID
	if err := svc.cache.Invalidate(ctx, "content", scope); err != nil {
		log.WithError(err).WithField("student_id", studentID).Warn("Content cache invalidation failed")
	}
}

// ==================== PROGRESS READS ====================

func (svc *ProgressService) GetStudentProgress(ctx context.Context, studentID string) ([]dto.ProgressResponse, error) {
	var out []dto.ProgressResponse
	err := svc.cache.GetOrFetch(ctx, "progress", studentID, TierShort, &out, func(ctx context.Context) (interface{}, error) {
		rows, err := svc.db.Progress().GetStudentProgress(studentID)
		if err != nil {
			return nil, svc.db.HandleError(err)
		}

		resp := make([]dto.ProgressResponse, 0, len(rows))
		for _, row := range rows {
			resp = append(resp, dto.ProgressResponse{
				StudentID:          row.StudentID,
				ContentID:          row.ContentID,
				ContentType:        row.ContentType,
				ProgressPercentage: row.ProgressPercentage,
				PointsEarned:       row.PointsEarned,
				TimeSpentMinutes:   row.TimeSpentMinutes,
				CompletedAt:        row.CompletedAt,
			})
		}
		return resp, nil
	})
	return out, err
}

// ==================== STREAK ====================

// CurrentStreak counts consecutive days with at least one logged
// activity, ending today. Only the trailing 30 days are considered.
func (svc *ProgressService) CurrentStreak(studentID string) (int, error) {
	since := time.Now().AddDate(0, 0, -30)
	dates, err := svc.db.Progress().ActivityDatesSince(studentID, since)
	if err != nil {
		return 0, svc.db.HandleError(err)
	}
	return ComputeStreak(dates, time.Now()), nil
}

// ComputeStreak walks distinct activity dates, newest first, counting
// consecutive days back from today. The chain must include today; a gap
// of even one day ends it.
func ComputeStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	today := now.Truncate(24 * time.Hour)
	day := func(t time.Time) time.Time { return t.Truncate(24 * time.Hour) }

	expected := today
	streak := 0
	for _, d := range dates {
		d = day(d)
		if d.Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
			continue
		}
		if d.Before(expected) {
			break
		}
	}

	return streak
}
