package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumina-edu/lumina_api/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *UserRepository) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := ds.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ds *UserRepository) GetUser(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) GetUserByEmailOrUsername(identifier string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ? OR username = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *UserRepository) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	return ds.db.Save(user).Error
}

func (ds *UserRepository) DeleteUser(id string) error {
	return ds.db.Delete(&model.User{}, "id = ?", id).Error
}

func (ds *UserRepository) ListUsers(page, limit int, search string) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := ds.db.Model(&model.User{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// ==================== SESSION METHODS ====================

func (ds *UserRepository) CreateSession(session *model.UserSession) (*model.UserSession, error) {
	if session.ID == "" {
		id, _ := uuid.NewV7()
		session.ID = id.String()
	}
	session.CreatedAt = time.Now()

	if err := ds.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (ds *UserRepository) GetSessionByRefreshToken(refreshToken string) (*model.UserSession, error) {
	var session model.UserSession
	if err := ds.db.Where("refresh_token = ? AND revoked_at IS NULL", refreshToken).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (ds *UserRepository) RevokeSession(sessionID string) error {
	now := time.Now()
	return ds.db.Model(&model.UserSession{}).
		Where("id = ?", sessionID).
		Update("revoked_at", now).Error
}

func (ds *UserRepository) RevokeAllUserSessions(userID string) error {
	now := time.Now()
	return ds.db.Model(&model.UserSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// ==================== SECURITY EVENT METHODS ====================

func (ds *UserRepository) CreateSecurityEvent(event *model.SecurityEvent) error {
	if event.ID == "" {
		id, _ := uuid.NewV7()
		event.ID = id.String()
	}
	event.CreatedAt = time.Now()
	return ds.db.Create(event).Error
}
