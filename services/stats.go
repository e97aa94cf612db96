package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/services/repositories"
	"github.com/lumina-edu/lumina_api/shared"
)

type StatsService struct {
	appContext.DefaultService

	db       *PostgresService
	cache    *CacheService
	progress *ProgressService
}

const STATS_SVC = "stats_svc"

const leaderboardSize = 20

func (svc StatsService) Id() string {
	return STATS_SVC
}

func (svc *StatsService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.progress = ctx.Service(PROGRESS_SVC).(*ProgressService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *StatsService) Start() error {
	return nil
}

// ==================== DASHBOARD ====================

func (svc *StatsService) GetDashboardStats(ctx context.Context, studentID string) (*dto.DashboardStatsResponse, error) {
	var out dto.DashboardStatsResponse
	err := svc.cache.GetOrFetch(ctx, "stats", studentID, TierMedium, &out, func(ctx context.Context) (interface{}, error) {
		return svc.fetchDashboardStats(studentID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (svc *StatsService) fetchDashboardStats(studentID string) (*dto.DashboardStatsResponse, error) {
	user, err := svc.db.Users().GetUser(studentID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	totalLessons, err := svc.db.Content().CountActiveLessonsForGrade(user.GradeLevel)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	completed, err := svc.db.Progress().CountCompletedByType(studentID, shared.ContentTypeLesson)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	points, err := svc.db.Progress().TotalPoints(studentID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	timeSpent, err := svc.db.Progress().TotalTimeSpent(studentID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	streak, err := svc.progress.CurrentStreak(studentID)
	if err != nil {
		return nil, err
	}

	rows, err := svc.db.Progress().PointsLeaderboard(user.GradeLevel, 0)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	stats := &dto.DashboardStatsResponse{
		TotalLessons:     int(totalLessons),
		CompletedLessons: int(completed),
		TotalPoints:      int(points),
		TimeSpentMinutes: int(timeSpent),
		CurrentStreak:    streak,
		Rank:             RankOf(rows, studentID),
	}
	stats.ProgressPercentage = roundPercent(stats.CompletedLessons, stats.TotalLessons)

	return stats, nil
}

// RankOf finds the student's 1-based position in a points-ordered list.
// 0 means no recorded points yet.
func RankOf(rows []repositories.PointsRow, studentID string) int {
	for i, row := range rows {
		if row.StudentID == studentID {
			return i + 1
		}
	}
	return 0
}

// ==================== LEADERBOARD ====================

// GetLeaderboard returns the top students for the viewer's grade, with
// the viewer marked if present.
func (svc *StatsService) GetLeaderboard(ctx context.Context, viewerID string, gradeLevel int) (*dto.LeaderboardResponse, error) {
	scope := viewerID

	var out dto.LeaderboardResponse
	err := svc.cache.GetOrFetch(ctx, "leaderboard", scope, TierShort, &out, func(ctx context.Context) (interface{}, error) {
		rows, err := svc.db.Progress().PointsLeaderboard(gradeLevel, leaderboardSize)
		if err != nil {
			return nil, svc.db.HandleError(err)
		}
		return BuildLeaderboard(rows, viewerID), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func BuildLeaderboard(rows []repositories.PointsRow, viewerID string) *dto.LeaderboardResponse {
	resp := &dto.LeaderboardResponse{
		Entries: make([]dto.LeaderboardEntry, 0, len(rows)),
		Total:   len(rows),
	}

	for i, row := range rows {
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   row.StudentID,
			Username: row.Username,
			Points:   row.Points,
			IsViewer: row.StudentID == viewerID,
		})
	}

	return resp
}
