package main

import (
	"github.com/lumina-edu/lumina_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.MonitoringService{},
		&services.CacheService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.AchievementService{},
		&services.ProgressService{},
		&services.ContentService{},
		&services.ProjectService{},
		&services.PresenceService{},
		&services.NotificationService{},
		&services.ExamService{},
		&services.StatsService{},
		&services.MediaService{},
		&services.RateLimitService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
