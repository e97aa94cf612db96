package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumina-edu/lumina_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PresenceRepository struct {
	BaseRepository
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// UpsertHeartbeat is keyed per user, so concurrent tabs for the same user
// collapse into one row and the write stays idempotent.
func (ds *PresenceRepository) UpsertHeartbeat(userID, currentPage string, at time.Time) error {
	record := model.PresenceRecord{
		UserID:      userID,
		IsOnline:    true,
		LastSeenAt:  at,
		CurrentPage: currentPage,
		UpdatedAt:   at,
	}

	return ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_online",
			"last_seen_at",
			"current_page",
			"updated_at",
		}),
	}).Create(&record).Error
}

func (ds *PresenceRepository) SetOffline(userID string, at time.Time) error {
	return ds.db.Model(&model.PresenceRecord{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_online":  false,
			"updated_at": at,
		}).Error
}

// SweepStale clears the online flag on rows whose last heartbeat is older
// than the cutoff. Backstop for clients that never sent a final offline
// write.
func (ds *PresenceRepository) SweepStale(cutoff time.Time) (int64, error) {
	result := ds.db.Model(&model.PresenceRecord{}).
		Where("is_online = ? AND last_seen_at < ?", true, cutoff).
		Updates(map[string]interface{}{
			"is_online":  false,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (ds *PresenceRepository) GetPresence(userID string) (*model.PresenceRecord, error) {
	var record model.PresenceRecord
	if err := ds.db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

type PresenceRow struct {
	model.PresenceRecord
	Username string
	Role     string
}

// GetGradePresence lists presence rows joined with usernames for a grade's
// monitoring dashboard.
func (ds *PresenceRepository) GetGradePresence(gradeLevel int) ([]PresenceRow, error) {
	var rows []PresenceRow
	err := ds.db.Model(&model.PresenceRecord{}).
		Select("presence_records.*, users.username AS username, users.role AS role").
		Joins("JOIN users ON users.id = presence_records.user_id").
		Where("users.grade_level = ?", gradeLevel).
		Order("presence_records.last_seen_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ==================== NOTIFICATION METHODS ====================

func (ds *PresenceRepository) CreateNotification(n *model.Notification) (*model.Notification, error) {
	if n.ID == "" {
		id, _ := uuid.NewV7()
		n.ID = id.String()
	}
	n.CreatedAt = time.Now()

	if err := ds.db.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (ds *PresenceRepository) GetUserNotifications(userID string, limit int) ([]model.Notification, error) {
	var rows []model.Notification
	err := ds.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (ds *PresenceRepository) MarkNotificationRead(userID, notificationID string) error {
	return ds.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

func (ds *PresenceRepository) MarkAllNotificationsRead(userID string) error {
	return ds.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
