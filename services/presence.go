package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/services/repositories"
	"github.com/lumina-edu/lumina_api/shared"
)

type PresenceService struct {
	appContext.DefaultService

	db         *PostgresService
	redis      *RedisService
	monitoring *MonitoringService

	closed chan struct{}
}

const PRESENCE_SVC = "presence_svc"

// One sweeper interval covers both roles; per-role recency windows are
// applied at read time, the sweep only clears flags past the widest
// window.
const presenceSweepInterval = 30 * time.Second

func (svc PresenceService) Id() string {
	return PRESENCE_SVC
}

func (svc *PresenceService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.redis = ctx.Service(REDIS_SVC).(*RedisService)
	svc.monitoring = ctx.Service(MONITORING_SVC).(*MonitoringService)
	svc.closed = make(chan struct{}, 1)
	return svc.DefaultService.Configure(ctx)
}

func (svc *PresenceService) Start() error {
	go svc.sweeper()
	return nil
}

func (svc *PresenceService) Shutdown() {
	svc.closed <- struct{}{}
}

// ==================== HEARTBEAT ====================

func (svc *PresenceService) Heartbeat(ctx context.Context, userID string, req dto.HeartbeatRequest) error {
	if err := svc.db.Presence().UpsertHeartbeat(userID, req.CurrentPage, time.Now()); err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.redis.Publish(ctx, "presence", map[string]interface{}{
		"user_id": userID,
		"online":  true,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish presence update")
	}

	return nil
}

// GoOffline is the graceful disconnect path. Ungraceful disconnects are
// handled by the sweeper and the read-time recency check.
func (svc *PresenceService) GoOffline(ctx context.Context, userID string) error {
	if err := svc.db.Presence().SetOffline(userID, time.Now()); err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.redis.Publish(ctx, "presence", map[string]interface{}{
		"user_id": userID,
		"online":  false,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish presence update")
	}

	return nil
}

// ==================== READS ====================

// IsOnline applies the dual test: the stored flag must be set AND the
// last heartbeat must fall inside the role's recency window. Either
// alone can lie; a stale flag survives crashes and a recent heartbeat
// can predate an explicit sign-out.
func IsOnline(isOnline bool, lastSeenAt time.Time, role string, now time.Time) bool {
	if !isOnline {
		return false
	}

	window := shared.StudentOnlineWindowSeconds
	if role == shared.RoleTeacher || role == shared.RoleAdmin {
		window = shared.TeacherOnlineWindowSeconds
	}

	return now.Sub(lastSeenAt) <= time.Duration(window)*time.Second
}

// GetGradePresence lists presence for a grade's monitoring dashboard.
// Fast-moving, so it bypasses the query cache entirely.
func (svc *PresenceService) GetGradePresence(gradeLevel int) (*dto.PresenceCollectionResponse, error) {
	rows, err := svc.db.Presence().GetGradePresence(gradeLevel)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	resp := BuildPresenceList(rows, time.Now())

	students := 0
	for _, u := range resp.Users {
		if u.IsOnline {
			students++
		}
	}
	svc.monitoring.SetOnlineUsers(shared.RoleStudent, students)

	return resp, nil
}

// BuildPresenceList resolves each row through the dual online test.
func BuildPresenceList(rows []repositories.PresenceRow, now time.Time) *dto.PresenceCollectionResponse {
	resp := &dto.PresenceCollectionResponse{
		Users: make([]dto.PresenceResponse, 0, len(rows)),
	}

	for _, row := range rows {
		online := IsOnline(row.IsOnline, row.LastSeenAt, row.Role, now)
		if online {
			resp.OnlineCount++
		}
		resp.Users = append(resp.Users, dto.PresenceResponse{
			UserID:      row.UserID,
			Username:    row.Username,
			IsOnline:    online,
			LastSeenAt:  row.LastSeenAt,
			CurrentPage: row.CurrentPage,
		})
	}

	return resp
}

// ==================== SWEEPER ====================

// sweeper is the single background timer that clears stale online flags.
// Cutoff uses the widest role window so a teacher row is never swept
// while still inside its own window.
func (svc *PresenceService) sweeper() {
	ticker := time.NewTicker(presenceSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Duration(shared.TeacherOnlineWindowSeconds) * time.Second)
			swept, err := svc.db.Presence().SweepStale(cutoff)
			if err != nil {
				log.WithError(err).Error("Presence sweep failed")
				continue
			}
			if swept > 0 {
				log.WithField("swept", swept).Debug("Cleared stale presence flags")
			}
		case <-svc.closed:
			return
		}
	}
}
