package handlers

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest, clientIP, userAgent string) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	RefreshToken(req dto.RefreshTokenRequest, clientIP, userAgent string) (*dto.TokenPair, error)
	Logout(userID string) error
	ChangePassword(userID string, req dto.ChangePasswordRequest, clientIP, userAgent string) error
	GetProfile(userID string) (*dto.UserInfo, error)
	ListUsers(page, limit int, search string) (*dto.AdminUserListResponse, error)
	AdminUpdateUser(userID string, req dto.AdminUpdateUserRequest) (*dto.UserInfo, error)
	RequiredAuth() fiber.Handler
	RequireRole(roles ...string) fiber.Handler
}

type ContentServiceInterface interface {
	GetContentTree(ctx context.Context, userID string, gradeLevel int, role string) (*dto.ContentTreeResponse, error)
	GetLesson(id string) (*model.Lesson, error)
	CreateSection(ctx context.Context, req dto.CreateSectionRequest) (*model.Section, error)
	UpdateSection(ctx context.Context, id string, req dto.UpdateSectionRequest) (*model.Section, error)
	DeleteSection(ctx context.Context, id string, force bool) error
	CreateTopic(ctx context.Context, req dto.CreateTopicRequest) (*model.Topic, error)
	UpdateTopic(ctx context.Context, id string, req dto.UpdateTopicRequest) (*model.Topic, error)
	DeleteTopic(ctx context.Context, id string, force bool) error
	CreateLesson(ctx context.Context, req dto.CreateLessonRequest) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, id string, req dto.UpdateLessonRequest) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, id string, force bool) error
}

type ProgressServiceInterface interface {
	UpdateProgress(ctx context.Context, studentID string, req dto.UpdateProgressRequest) (*dto.ProgressResponse, error)
	GetStudentProgress(ctx context.Context, studentID string) ([]dto.ProgressResponse, error)
}

type AchievementServiceInterface interface {
	GetAchievements(ctx context.Context, studentID string) (*dto.AchievementCollectionResponse, error)
}

type ProjectServiceInterface interface {
	CreateProject(ctx context.Context, studentID string, req dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetStudentProjects(ctx context.Context, studentID string) ([]dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, studentID, projectID string, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, studentID, projectID string) error
	ToggleTask(ctx context.Context, studentID, projectID, taskID string, completed bool) (*dto.ProjectResponse, error)
}

type PresenceServiceInterface interface {
	Heartbeat(ctx context.Context, userID string, req dto.HeartbeatRequest) error
	GoOffline(ctx context.Context, userID string) error
	GetGradePresence(gradeLevel int) (*dto.PresenceCollectionResponse, error)
}

type NotificationServiceInterface interface {
	GetNotifications(ctx context.Context, userID string) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*dto.NotificationListResponse, error)
	MarkAllRead(ctx context.Context, userID string) (*dto.NotificationListResponse, error)
}

type ExamServiceInterface interface {
	CreateDraft(teacherID string) (*dto.ExamDraftResponse, error)
	GetDraft(draftID, teacherID string) (*dto.ExamDraftResponse, error)
	DeleteDraft(draftID, teacherID string) error
	UpdateStep(draftID, teacherID string, req dto.ExamStepUpdateRequest) (*dto.ExamStepResult, error)
	Submit(draftID, teacherID string) (*dto.ExamResponse, error)
	GetTeacherExams(teacherID string) ([]dto.ExamResponse, error)
}

type MediaServiceInterface interface {
	AttachMedia(ctx context.Context, lessonID string, req dto.AttachMediaRequest, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	DeleteMedia(ctx context.Context, mediaID string) error
}

type StatsServiceInterface interface {
	GetDashboardStats(ctx context.Context, studentID string) (*dto.DashboardStatsResponse, error)
	GetLeaderboard(ctx context.Context, viewerID string, gradeLevel int) (*dto.LeaderboardResponse, error)
}

type RateLimitServiceInterface interface {
	Limit(group string, max int, window time.Duration) fiber.Handler
}
