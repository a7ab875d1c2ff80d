package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ihost-app/ihost-backend/config"
	"github.com/ihost-app/ihost-backend/utils"
)

type Service interface {
	// NotifyUser stores a bell notification and fans it out to the user's
	// registered devices.
	NotifyUser(ctx context.Context, userID uint, eventID *uint, title, message, category string) error

	ListByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	MarkAsRead(ctx context.Context, id uint, userID uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)

	RegisterDeviceToken(ctx context.Context, userID uint, req RegisterDeviceRequest) error
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error
}

type service struct {
	repo Repository
	fcm  Channel
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo: repo,
		fcm:  NewFCMChannel(cfg),
	}
}

// =============================
// 🔔 NotifyUser
func (s *service) NotifyUser(ctx context.Context, userID uint, eventID *uint, title, message, category string) error {
	item := &InAppNotification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Category:  category,
		EventID:   eventID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.CreateInApp(ctx, item); err != nil {
		return err
	}

	// Live fan-out for connected clients listening on the user's channel.
	if utils.RedisClient != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"id":         item.ID,
			"user_id":    item.UserID,
			"title":      item.Title,
			"message":    item.Message,
			"category":   item.Category,
			"event_id":   item.EventID,
			"is_read":    item.IsRead,
			"created_at": item.CreatedAt,
		})
		channel := fmt.Sprintf("notifications:user:%d", userID)
		_ = utils.RedisClient.Publish(utils.Ctx, channel, string(payload)).Err()
	}

	// Push delivery is best-effort; a user with no registered devices is
	// not an error.
	tokens, err := s.repo.GetUserDeviceTokens(ctx, userID)
	if err != nil {
		log.Printf("⚠️  Failed to load device tokens for user %d: %v\n", userID, err)
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}
	if err := s.fcm.Send(tokens, title, message); err != nil {
		log.Printf("❌ Push delivery failed for user %d: %v\n", userID, err)
	}
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	return s.repo.ListInAppByUser(ctx, userID, limit)
}

func (s *service) MarkAsRead(ctx context.Context, id uint, userID uint) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *service) RegisterDeviceToken(ctx context.Context, userID uint, req RegisterDeviceRequest) error {
	token := &FCMDeviceToken{
		UserID:      userID,
		DeviceToken: req.DeviceToken,
		DeviceType:  req.DeviceType,
		DeviceName:  req.DeviceName,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	return s.repo.SaveDeviceToken(ctx, token)
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	return s.repo.RemoveDeviceToken(ctx, userID, deviceToken)
}
