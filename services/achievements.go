package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type AchievementService struct {
	appContext.DefaultService

	db         *PostgresService
	cache      *CacheService
	monitoring *MonitoringService
}

const ACHIEVEMENT_SVC = "achievement_svc"

func (svc AchievementService) Id() string {
	return ACHIEVEMENT_SVC
}

func (svc *AchievementService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.monitoring = ctx.Service(MONITORING_SVC).(*MonitoringService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AchievementService) Start() error {
	return nil
}

// ==================== CATALOG ====================

// Achievement is a catalog entry. Progress is measured against Target
// using one of the metrics collected per student.
type Achievement struct {
	ID          string
	Title       string
	Description string
	PointsValue int
	Target      int
	Metric      func(m AchievementMetrics) int
}

// AchievementMetrics is the snapshot the evaluator runs against.
type AchievementMetrics struct {
	CompletedLessons  int
	CompletedVideos   int
	CompletedProjects int
	TotalPoints       int
	StreakDays        int
	ActivityTypes     int
}

// Catalog is fixed; achievements are defined in code, not rows.
var Catalog = []Achievement{
	{
		ID: "first_steps", Title: "First Steps",
		Description: "Complete your first lesson", PointsValue: 10, Target: 1,
		Metric: func(m AchievementMetrics) int { return m.CompletedLessons },
	},
	{
		ID: "lesson_master", Title: "Lesson Master",
		Description: "Complete 10 lessons", PointsValue: 50, Target: 10,
		Metric: func(m AchievementMetrics) int { return m.CompletedLessons },
	},
	{
		ID: "movie_buff", Title: "Movie Buff",
		Description: "Watch 5 videos to the end", PointsValue: 25, Target: 5,
		Metric: func(m AchievementMetrics) int { return m.CompletedVideos },
	},
	{
		ID: "builder", Title: "Builder",
		Description: "Finish a mini project", PointsValue: 30, Target: 1,
		Metric: func(m AchievementMetrics) int { return m.CompletedProjects },
	},
	{
		ID: "week_streak", Title: "On Fire",
		Description: "Learn 7 days in a row", PointsValue: 70, Target: 7,
		Metric: func(m AchievementMetrics) int { return m.StreakDays },
	},
	{
		ID: "explorer", Title: "Explorer",
		Description: "Try every activity type", PointsValue: 40, Target: 4,
		Metric: func(m AchievementMetrics) int { return m.ActivityTypes },
	},
	{
		ID: "point_collector", Title: "Point Collector",
		Description: "Earn 1000 points", PointsValue: 100, Target: 1000,
		Metric: func(m AchievementMetrics) int { return m.TotalPoints },
	},
}

// ==================== EVALUATION ====================

// Evaluate recomputes the student's metrics, earns any newly crossed
// achievements and notifies them. Earning is idempotent; a re-run never
// duplicates rows or notifications.
func (svc *AchievementService) Evaluate(ctx context.Context, studentID string) error {
	metrics, err := svc.collectMetrics(studentID)
	if err != nil {
		return err
	}

	earned, err := svc.earnedSet(studentID)
	if err != nil {
		return err
	}

	for _, a := range Catalog {
		if earned[a.ID] || a.Metric(metrics) < a.Target {
			continue
		}

		row := &model.StudentAchievement{
			ID:            uuid.Must(uuid.NewV7()).String(),
			StudentID:     studentID,
			AchievementID: a.ID,
			PointsValue:   a.PointsValue,
			EarnedAt:      time.Now(),
		}
		if err := svc.db.Progress().CreateStudentAchievement(row); err != nil {
			log.WithError(err).WithField("achievement", a.ID).Warn("Failed to record achievement")
			continue
		}

		svc.monitoring.RecordAchievementEarned()
		svc.notifyEarned(studentID, a)
	}

	svc.cache.InvalidateFamilies(ctx, studentID, "achievements", "notifications")
	return nil
}

func (svc *AchievementService) collectMetrics(studentID string) (AchievementMetrics, error) {
	var m AchievementMetrics

	lessons, err := svc.db.Progress().CountCompletedByType(studentID, shared.ContentTypeLesson)
	if err != nil {
		return m, svc.db.HandleError(err)
	}
	videos, err := svc.db.Progress().CountCompletedByType(studentID, shared.ContentTypeVideo)
	if err != nil {
		return m, svc.db.HandleError(err)
	}
	projects, err := svc.db.Progress().CountCompletedByType(studentID, shared.ContentTypeProject)
	if err != nil {
		return m, svc.db.HandleError(err)
	}
	points, err := svc.db.Progress().TotalPoints(studentID)
	if err != nil {
		return m, svc.db.HandleError(err)
	}
	activityTypes, err := svc.db.Progress().CountDistinctActivityTypes(studentID)
	if err != nil {
		return m, svc.db.HandleError(err)
	}

	dates, err := svc.db.Progress().ActivityDatesSince(studentID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return m, svc.db.HandleError(err)
	}

	m.CompletedLessons = int(lessons)
	m.CompletedVideos = int(videos)
	m.CompletedProjects = int(projects)
	m.TotalPoints = int(points)
	m.ActivityTypes = int(activityTypes)
	m.StreakDays = ComputeStreak(dates, time.Now())
	return m, nil
}

func (svc *AchievementService) earnedSet(studentID string) (map[string]bool, error) {
	rows, err := svc.db.Progress().GetStudentAchievements(studentID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	earned := make(map[string]bool, len(rows))
	for _, row := range rows {
		earned[row.AchievementID] = true
	}
	return earned, nil
}

func (svc *AchievementService) notifyEarned(studentID string, a Achievement) {
	n := &model.Notification{
		ID:     uuid.Must(uuid.NewV7()).String(),
		UserID: studentID,
		Title:  "Achievement unlocked: " + a.Title,
		Body:   a.Description,
	}
	if _, err := svc.db.Presence().CreateNotification(n); err != nil {
		log.WithError(err).WithField("achievement", a.ID).Warn("Failed to create achievement notification")
	}
}

// ==================== READS ====================

// GetAchievements returns the full catalog with the student's progress
// toward each entry.
func (svc *AchievementService) GetAchievements(ctx context.Context, studentID string) (*dto.AchievementCollectionResponse, error) {
	var out dto.AchievementCollectionResponse
	err := svc.cache.GetOrFetch(ctx, "achievements", studentID, TierMedium, &out, func(ctx context.Context) (interface{}, error) {
		metrics, err := svc.collectMetrics(studentID)
		if err != nil {
			return nil, err
		}

		rows, err := svc.db.Progress().GetStudentAchievements(studentID)
		if err != nil {
			return nil, svc.db.HandleError(err)
		}
		earnedAt := make(map[string]time.Time, len(rows))
		for _, row := range rows {
			earnedAt[row.AchievementID] = row.EarnedAt
		}

		resp := BuildAchievementStatuses(metrics, earnedAt)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildAchievementStatuses evaluates the catalog against a metrics
// snapshot. Pure; earnedAt holds persisted earn timestamps.
func BuildAchievementStatuses(metrics AchievementMetrics, earnedAt map[string]time.Time) dto.AchievementCollectionResponse {
	out := dto.AchievementCollectionResponse{
		Achievements: make([]dto.AchievementStatus, 0, len(Catalog)),
	}

	for _, a := range Catalog {
		progress := a.Metric(metrics)
		if progress > a.Target {
			progress = a.Target
		}

		status := dto.AchievementStatus{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			PointsValue: a.PointsValue,
			MaxProgress: a.Target,
			Progress:    progress,
		}

		if at, ok := earnedAt[a.ID]; ok {
			t := at
			status.Earned = true
			status.EarnedAt = &t
			out.EarnedCount++
			out.TotalPoints += a.PointsValue
		} else if progress >= a.Target {
			// Metric crossed but the async earn hasn't landed yet; show it
			// earned so the display never lags the numbers it sits next to.
			status.Earned = true
			out.EarnedCount++
			out.TotalPoints += a.PointsValue
		}

		out.Achievements = append(out.Achievements, status)
	}

	return out
}
