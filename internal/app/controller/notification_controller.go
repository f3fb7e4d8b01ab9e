package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ohsj/linkple-backend/internal/app/service"
	apperrors "github.com/ohsj/linkple-backend/internal/errors"
	"github.com/ohsj/linkple-backend/internal/middleware"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// GetNotifications 내 알림 목록 (안 읽은 건수 포함)
// GET /api/v1/notifications
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	notifications, total, unread, err := ctrl.notificationService.GetNotifications(userID, page, pageSize)
	if err != nil {
		log.Error("Failed to get notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"unread_count":  unread,
		"page":          page,
		"page_size":     pageSize,
	})
}

// MarkAsRead 알림 읽음 처리
// POST /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 알림 ID가 아닙니다")
		return
	}

	if err := ctrl.notificationService.MarkAsRead(uint(notificationID), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationNotFound):
			apperrors.NotFound(c, apperrors.NotificationNotFound, "알림을 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotNotificationOwner):
			apperrors.Forbidden(c, "본인의 알림만 읽음 처리할 수 있습니다")
		default:
			log.Error("Failed to mark notification as read", err, map[string]interface{}{
				"notification_id": notificationID,
				"user_id":         userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notification as read")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// MarkAllAsRead 내 알림 전체 읽음 처리
// POST /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	if err := ctrl.notificationService.MarkAllAsRead(userID); err != nil {
		log.Error("Failed to mark all notifications as read", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark all notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
