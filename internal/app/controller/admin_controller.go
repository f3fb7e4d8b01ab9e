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

// AdminController 가입 승인 등 운영용 엔드포인트
type AdminController struct {
	authService service.AuthService
}

func NewAdminController(authService service.AuthService) *AdminController {
	return &AdminController{
		authService: authService,
	}
}

type ApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// GetPendingUsers 승인 대기 중인 가입자 목록
// GET /api/v1/admin/users/pending
func (ctrl *AdminController) GetPendingUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := ctrl.authService.GetPendingUsers(limit, offset)
	if err != nil {
		log.Error("Failed to get pending users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get pending users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// SetApproval 가입 승인 또는 거절
// POST /api/v1/admin/users/:id/approval
func (ctrl *AdminController) SetApproval(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 사용자 ID가 아닙니다")
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, err := ctrl.authService.SetApproval(uint(userID), *req.Approved)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to set user approval", err, map[string]interface{}{
			"target_user_id": userID,
			"admin_id":       adminID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "set approval")
		return
	}

	log.Info("User approval updated", map[string]interface{}{
		"target_user_id": user.ID,
		"approved":       *req.Approved,
		"admin_id":       adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Approval status updated successfully",
		"user":    userResponse(user),
	})
}
