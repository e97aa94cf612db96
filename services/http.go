package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/lumina-edu/lumina_api/docs"
	"github.com/lumina-edu/lumina_api/services/handlers"
	"github.com/lumina-edu/lumina_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc         *AuthService
	contentSvc      *ContentService
	progressSvc     *ProgressService
	achievementSvc  *AchievementService
	projectSvc      *ProjectService
	presenceSvc     *PresenceService
	notificationSvc *NotificationService
	examSvc         *ExamService
	mediaSvc        *MediaService
	statsSvc        *StatsService
	rateLimitSvc    *RateLimitService
	monitoringSvc   *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.projectSvc = svc.Service(PROJECT_SVC).(*ProjectService)
	svc.presenceSvc = svc.Service(PRESENCE_SVC).(*PresenceService)
	svc.notificationSvc = svc.Service(NOTIFICATION_SVC).(*NotificationService)
	svc.examSvc = svc.Service(EXAM_SVC).(*ExamService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.statsSvc = svc.Service(STATS_SVC).(*StatsService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		JSONEncoder:  shared.JSONEncoder,
		JSONDecoder:  shared.JSONDecoder,
		ErrorHandler: svc.handleError,
		BodyLimit:    110 << 20,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc.registerRoutes(app)

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc, svc.achievementSvc)
	projectHandler := handlers.NewProjectHandler(svc.projectSvc)
	presenceHandler := handlers.NewPresenceHandler(svc.presenceSvc, svc.notificationSvc)
	examHandler := handlers.NewExamHandler(svc.examSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)
	statsHandler := handlers.NewStatsHandler(svc.statsSvc)
	adminHandler := handlers.NewAdminHandler(svc.authSvc)

	requireAuth := svc.authSvc.RequiredAuth()
	teacherOnly := svc.authSvc.RequireRole(shared.RoleTeacher, shared.RoleAdmin)
	adminOnly := svc.authSvc.RequireRole(shared.RoleAdmin)

	v1 := app.Group("/api/v1")

	// Auth; login and register get tight rate limits.
	auth := v1.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Limit("auth", 10, time.Minute), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Limit("auth", 10, time.Minute), authHandler.Login)
	auth.Post("/refresh", svc.rateLimitSvc.Limit("auth", 30, time.Minute), authHandler.RefreshToken)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Put("/password", requireAuth, authHandler.ChangePassword)
	auth.Get("/me", requireAuth, authHandler.GetProfile)

	// Content
	content := v1.Group("/content", requireAuth)
	content.Get("/tree", contentHandler.GetContentTree)
	content.Get("/lessons/:lessonId", contentHandler.GetLesson)

	content.Post("/sections", teacherOnly, contentHandler.CreateSection)
	content.Put("/sections/:sectionId", teacherOnly, contentHandler.UpdateSection)
	content.Delete("/sections/:sectionId", teacherOnly, contentHandler.DeleteSection)
	content.Post("/topics", teacherOnly, contentHandler.CreateTopic)
	content.Put("/topics/:topicId", teacherOnly, contentHandler.UpdateTopic)
	content.Delete("/topics/:topicId", teacherOnly, contentHandler.DeleteTopic)
	content.Post("/lessons", teacherOnly, contentHandler.CreateLesson)
	content.Put("/lessons/:lessonId", teacherOnly, contentHandler.UpdateLesson)
	content.Delete("/lessons/:lessonId", teacherOnly, contentHandler.DeleteLesson)

	content.Post("/lessons/:lessonId/media", teacherOnly, mediaHandler.AttachMedia)
	content.Delete("/media/:mediaId", teacherOnly, mediaHandler.DeleteMedia)

	// Progress and achievements
	v1.Post("/progress", requireAuth, progressHandler.UpdateProgress)
	v1.Get("/progress", requireAuth, progressHandler.GetProgress)
	v1.Get("/achievements", requireAuth, progressHandler.GetAchievements)

	// Projects
	projects := v1.Group("/projects", requireAuth)
	projects.Post("/", projectHandler.CreateProject)
	projects.Get("/", projectHandler.GetProjects)
	projects.Put("/:projectId", projectHandler.UpdateProject)
	projects.Delete("/:projectId", projectHandler.DeleteProject)
	projects.Put("/:projectId/tasks/:taskId", projectHandler.ToggleTask)

	// Presence and notifications
	presence := v1.Group("/presence", requireAuth)
	presence.Post("/heartbeat", presenceHandler.Heartbeat)
	presence.Post("/offline", presenceHandler.GoOffline)
	presence.Get("/", teacherOnly, presenceHandler.GetGradePresence)

	notifications := v1.Group("/notifications", requireAuth)
	notifications.Get("/", presenceHandler.GetNotifications)
	notifications.Put("/read-all", presenceHandler.MarkAllRead)
	notifications.Put("/:notificationId/read", presenceHandler.MarkRead)

	// Exams
	exams := v1.Group("/exams", requireAuth, teacherOnly)
	exams.Get("/", examHandler.GetExams)
	exams.Post("/drafts", examHandler.CreateDraft)
	exams.Get("/drafts/:draftId", examHandler.GetDraft)
	exams.Put("/drafts/:draftId/steps", examHandler.UpdateStep)
	exams.Post("/drafts/:draftId/submit", examHandler.Submit)
	exams.Delete("/drafts/:draftId", examHandler.DeleteDraft)

	// Stats
	stats := v1.Group("/stats", requireAuth)
	stats.Get("/dashboard", statsHandler.GetDashboardStats)
	stats.Get("/leaderboard", statsHandler.GetLeaderboard)

	// Admin
	admin := v1.Group("/admin", requireAuth, adminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:userId", adminHandler.UpdateUser)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("Request failed")
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
