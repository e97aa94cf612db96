package services

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
)

type NotificationService struct {
	appContext.DefaultService

	db    *PostgresService
	cache *CacheService
	redis *RedisService
}

const NOTIFICATION_SVC = "notification_svc"

const notificationPageSize = 50

func (svc NotificationService) Id() string {
	return NOTIFICATION_SVC
}

func (svc *NotificationService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	svc.redis = ctx.Service(REDIS_SVC).(*RedisService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *NotificationService) Start() error {
	return nil
}

// ==================== READS ====================

func (svc *NotificationService) GetNotifications(ctx context.Context, userID string) (*dto.NotificationListResponse, error) {
	var out dto.NotificationListResponse
	err := svc.cache.GetOrFetch(ctx, "notifications", userID, TierShort, &out, func(ctx context.Context) (interface{}, error) {
		return svc.fetchNotifications(userID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (svc *NotificationService) fetchNotifications(userID string) (*dto.NotificationListResponse, error) {
	rows, err := svc.db.Presence().GetUserNotifications(userID, notificationPageSize)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(rows)),
	}
	for _, n := range rows {
		if !n.IsRead {
			resp.UnreadCount++
		}
		resp.Notifications = append(resp.Notifications, dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp, nil
}

// ==================== MUTATIONS ====================

// MarkRead persists the read flag and patches the cached list in place
// instead of invalidating it. The new state is fully known locally, so
// the next read needs no round trip.
func (svc *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*dto.NotificationListResponse, error) {
	if err := svc.db.Presence().MarkNotificationRead(userID, notificationID); err != nil {
		return nil, svc.db.HandleError(err)
	}

	return svc.patchRead(ctx, userID, func(n *dto.NotificationResponse) {
		if n.ID == notificationID {
			n.IsRead = true
		}
	})
}

func (svc *NotificationService) MarkAllRead(ctx context.Context, userID string) (*dto.NotificationListResponse, error) {
	if err := svc.db.Presence().MarkAllNotificationsRead(userID); err != nil {
		return nil, svc.db.HandleError(err)
	}

	return svc.patchRead(ctx, userID, func(n *dto.NotificationResponse) {
		n.IsRead = true
	})
}

func (svc *NotificationService) patchRead(ctx context.Context, userID string, apply func(*dto.NotificationResponse)) (*dto.NotificationListResponse, error) {
	resp, err := svc.fetchNotificationsPatched(ctx, userID, apply)
	if err != nil {
		return nil, err
	}

	if err := svc.cache.Patch(ctx, "notifications", userID, resp, TierShort); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Notification cache patch failed")
	}

	return resp, nil
}

// fetchNotificationsPatched takes the cached list when present and
// applies the local patch to it, falling back to the database when
// nothing is cached.
func (svc *NotificationService) fetchNotificationsPatched(ctx context.Context, userID string, apply func(*dto.NotificationResponse)) (*dto.NotificationListResponse, error) {
	var cached dto.NotificationListResponse
	err := svc.cache.GetOrFetch(ctx, "notifications", userID, TierShort, &cached, func(ctx context.Context) (interface{}, error) {
		return svc.fetchNotifications(userID)
	})
	if err != nil {
		return nil, err
	}

	cached.UnreadCount = 0
	for i := range cached.Notifications {
		apply(&cached.Notifications[i])
		if !cached.Notifications[i].IsRead {
			cached.UnreadCount++
		}
	}

	return &cached, nil
}

// Notify creates a notification and drops the target user's cached list
// so it shows up on their next poll.
func (svc *NotificationService) Notify(ctx context.Context, userID, title, body string) error {
	n := &model.Notification{
		ID:     uuid.Must(uuid.NewV7()).String(),
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if _, err := svc.db.Presence().CreateNotification(n); err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.cache.Invalidate(ctx, "notifications", userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Notification cache invalidation failed")
	}

	if err := svc.redis.Publish(ctx, "notifications", map[string]interface{}{
		"user_id": userID,
		"title":   title,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish notification event")
	}

	return nil
}
