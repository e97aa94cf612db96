package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// UpsertProgress writes the progress row keyed by (student_id, content_id,
// content_type): conflict-on-upsert, never insert-then-update.
func (ds *ProgressRepository) UpsertProgress(progress *model.StudentProgress) error {
	if progress.ID == "" {
		id, _ := uuid.NewV7()
		progress.ID = id.String()
	}
	now := time.Now()
	progress.CreatedAt = now
	progress.UpdatedAt = now

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "content_id"},
			{Name: "content_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress_percentage",
			"points_earned",
			"time_spent_minutes",
			"completed_at",
			"updated_at",
		}),
	}).Create(progress).Error
}

// GetProgressForContentIDs is the single batched lookup the tree fetch
// uses: one IN query for every lesson collected, never one per lesson.
func (ds *ProgressRepository) GetProgressForContentIDs(studentID, contentType string, contentIDs []string) ([]model.StudentProgress, error) {
	if len(contentIDs) == 0 {
		return []model.StudentProgress{}, nil
	}

	var rows []model.StudentProgress
	err := ds.db.
		Where("student_id = ? AND content_type = ? AND content_id IN ?", studentID, contentType, contentIDs).
		Find(&rows).Error
	return rows, err
}

func (ds *ProgressRepository) GetStudentProgress(studentID string) ([]model.StudentProgress, error) {
	var rows []model.StudentProgress
	err := ds.db.Where("student_id = ?", studentID).Find(&rows).Error
	return rows, err
}

// CountProgressForContentIDs backs the data-integrity pre-check before a
// content delete.
func (ds *ProgressRepository) CountProgressForContentIDs(contentIDs []string) (int64, error) {
	if len(contentIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := ds.db.Model(&model.StudentProgress{}).
		Where("content_id IN ?", contentIDs).
		Count(&count).Error
	return count, err
}

// ==================== ACTIVITY LOG METHODS ====================

func (ds *ProgressRepository) CreateActivityLog(entry *model.ActivityLog) error {
	if entry.ID == "" {
		id, _ := uuid.NewV7()
		entry.ID = id.String()
	}
	entry.CreatedAt = time.Now()
	return ds.db.Create(entry).Error
}

// ActivityDatesSince returns the distinct activity calendar dates for the
// streak walk, newest first.
func (ds *ProgressRepository) ActivityDatesSince(studentID string, since time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := ds.db.Model(&model.ActivityLog{}).
		Where("student_id = ? AND created_at >= ?", studentID, since).
		Select("DISTINCT DATE(created_at) AS day").
		Order("day DESC").
		Pluck("day", &dates).Error
	return dates, err
}

func (ds *ProgressRepository) CountDistinctActivityTypes(studentID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.ActivityLog{}).
		Where("student_id = ?", studentID).
		Distinct("activity_type").
		Count(&count).Error
	return count, err
}

// ==================== ACHIEVEMENT COUNTERS ====================

func (ds *ProgressRepository) CountCompletedByType(studentID, contentType string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.StudentProgress{}).
		Where("student_id = ? AND content_type = ? AND completed_at IS NOT NULL", studentID, contentType).
		Count(&count).Error
	return count, err
}

func (ds *ProgressRepository) TotalPoints(studentID string) (int64, error) {
	var total int64
	err := ds.db.Model(&model.StudentProgress{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(points_earned), 0)").
		Scan(&total).Error
	return total, err
}

func (ds *ProgressRepository) GetStudentAchievements(studentID string) ([]model.StudentAchievement, error) {
	var rows []model.StudentAchievement
	err := ds.db.Where("student_id = ?", studentID).Find(&rows).Error
	return rows, err
}

// CreateStudentAchievement is idempotent per (student, achievement): the
// unique index turns a re-earn into a no-op.
func (ds *ProgressRepository) CreateStudentAchievement(row *model.StudentAchievement) error {
	if row.ID == "" {
		id, _ := uuid.NewV7()
		row.ID = id.String()
	}
	row.CreatedAt = time.Now()

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "achievement_id"},
		},
		DoNothing: true,
	}).Create(row).Error
}

// ==================== AGGREGATE / LEADERBOARD METHODS ====================

type PointsRow struct {
	StudentID string
	Username  string
	Points    int
}

// PointsLeaderboard sums earned points per student for a grade, highest
// first. Rank is assigned by the caller.
func (ds *ProgressRepository) PointsLeaderboard(gradeLevel, limit int) ([]PointsRow, error) {
	query := ds.db.Model(&model.StudentProgress{}).
		Select("student_progresses.student_id AS student_id, users.username AS username, COALESCE(SUM(student_progresses.points_earned), 0) AS points").
		Joins("JOIN users ON users.id = student_progresses.student_id").
		Where("users.grade_level = ? AND users.role = ?", gradeLevel, shared.RoleStudent).
		Group("student_progresses.student_id, users.username").
		Order("points DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []PointsRow
	err := query.Scan(&rows).Error
	return rows, err
}

func (ds *ProgressRepository) TotalTimeSpent(studentID string) (int64, error) {
	var total int64
	err := ds.db.Model(&model.StudentProgress{}).
		Where("student_id = ?", studentID).
		Select("COALESCE(SUM(time_spent_minutes), 0)").
		Scan(&total).Error
	return total, err
}
