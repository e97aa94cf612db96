package dto

import "time"

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email" example:"student@example.com"`
	Username   string `json:"username" validate:"required,min=3,max=30,alphanum" example:"janedoe"`
	Password   string `json:"password" validate:"required,strong_password" example:"SecurePass123!"`
	Role       string `json:"role" validate:"omitempty,oneof=student teacher" example:"student"`
	GradeLevel int    `json:"grade_level" validate:"omitempty,gte=1,lte=12" example:"7"`
	SchoolID   string `json:"school_id" validate:"omitempty,max=64"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required" example:"student@example.com"`
	Password        string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r RefreshTokenRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

func (c ChangePasswordRequest) Validate() error {
	return GetValidator().Struct(c)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	SessionID    string   `json:"session_id"`
	User         UserInfo `json:"user"`
}

type UserInfo struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	GradeLevel int        `json:"grade_level,omitempty"`
	SchoolID   string     `json:"school_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// ==================== ADMIN DTOs ====================

type AdminUpdateUserRequest struct {
	Role       string `json:"role" validate:"omitempty,oneof=student teacher admin"`
	GradeLevel int    `json:"grade_level" validate:"omitempty,gte=1,lte=12"`
}

func (a AdminUpdateUserRequest) Validate() error {
	return GetValidator().Struct(a)
}

type AdminUserListResponse struct {
	Users []UserInfo `json:"users"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
