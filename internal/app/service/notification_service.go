package service

import (
	"errors"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotNotificationOwner = errors.New("not the notification owner")
)

type NotificationService interface {
	GetNotifications(userID uint, page, pageSize int) ([]model.Notification, int64, int64, error)
	MarkAsRead(notificationID, userID uint) error
	MarkAllAsRead(userID uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// GetNotifications 알림 목록 + 전체 건수 + 안 읽은 건수
func (s *notificationService) GetNotifications(userID uint, page, pageSize int) ([]model.Notification, int64, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	notifications, total, err := s.notificationRepo.FindByUserID(userID, pageSize, offset)
	if err != nil {
		logger.Error("Failed to fetch notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, 0, err
	}

	unread, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

func (s *notificationService) MarkAsRead(notificationID, userID uint) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != userID {
		return ErrNotNotificationOwner
	}

	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID uint) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		logger.Error("Failed to mark all notifications as read", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
