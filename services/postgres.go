package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/services/repositories"
	"github.com/lumina-edu/lumina_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string

	userRepo     *repositories.UserRepository
	contentRepo  *repositories.ContentRepository
	progressRepo *repositories.ProgressRepository
	projectRepo  *repositories.ProjectRepository
	presenceRepo *repositories.PresenceRepository
	examRepo     *repositories.ExamRepository
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Users() *repositories.UserRepository { return ds.userRepo }
func (ds *PostgresService) Content() *repositories.ContentRepository { return ds.contentRepo }
func (ds *PostgresService) Progress() *repositories.ProgressRepository { return ds.progressRepo }
func (ds *PostgresService) Projects() *repositories.ProjectRepository { return ds.projectRepo }
func (ds *PostgresService) Presence() *repositories.PresenceRepository { return ds.presenceRepo }
func (ds *PostgresService) Exams() *repositories.ExamRepository { return ds.examRepo }

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "lumina_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	models := []interface{}{
		&model.User{},
		&model.UserSession{},
		&model.SecurityEvent{},

		// Content hierarchy
		&model.Section{},
		&model.Topic{},
		&model.Lesson{},
		&model.LessonMedia{},

		// Progress / gamification
		&model.StudentProgress{},
		&model.ActivityLog{},
		&model.StudentAchievement{},
		&model.MiniProject{},
		&model.ProjectTask{},

		// Presence / notifications
		&model.PresenceRecord{},
		&model.Notification{},

		// Exams
		&model.BankQuestion{},
		&model.ExamDraft{},
		&model.Exam{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	ds.userRepo = repositories.NewUserRepository(ds.db)
	ds.contentRepo = repositories.NewContentRepository(ds.db)
	ds.progressRepo = repositories.NewProgressRepository(ds.db)
	ds.projectRepo = repositories.NewProjectRepository(ds.db)
	ds.presenceRepo = repositories.NewPresenceRepository(ds.db)
	ds.examRepo = repositories.NewExamRepository(ds.db)

	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		for range ticker.C {
			if err := ds.CleanupExpiredSessions(); err != nil {
				log.Printf("Failed to cleanup expired sessions: %v", err)
			}
		}
	}()

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) CleanupExpiredSessions() error {
	return ds.db.
		Where("expires_at < ?", time.Now()).
		Delete(&model.UserSession{}).Error
}

func (ds *PostgresService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// HandleError maps storage failures to the AppError taxonomy so the HTTP
// boundary renders the right status instead of a blanket 500.
func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError("Record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError("Record already exists", nil)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewBadRequestError(err, "Referenced record does not exist")
	}

	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return shared.NewConflictError("Record already exists", nil)
	}
	if strings.Contains(err.Error(), "connection refused") {
		log.WithError(err).Error("Database connection error")
		return &shared.AppError{StatusCode: http.StatusServiceUnavailable, Message: "Database unavailable", Err: err}
	}

	log.WithError(err).Error("Database error occurred")
	return shared.NewInternalError(err, "Database error")
}
