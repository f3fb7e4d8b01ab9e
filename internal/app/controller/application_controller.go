package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/service"
	apperrors "github.com/ohsj/linkple-backend/internal/errors"
	"github.com/ohsj/linkple-backend/internal/middleware"
)

type ApplicationController struct {
	applicationService service.ApplicationService
}

func NewApplicationController(applicationService service.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

type ApplyRequest struct {
	Message string `json:"message"`
}

type ChangeApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Apply submits an application to a campaign
// POST /api/v1/campaigns/:id/applications
func (ctrl *ApplicationController) Apply(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	campaignID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	// 메시지는 선택 사항이라 본문이 없어도 신청은 가능
	var req ApplyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
			return
		}
	}

	application, err := ctrl.applicationService.Apply(uint(campaignID), userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case errors.Is(err, service.ErrSelfApply):
			apperrors.BadRequest(c, apperrors.ApplicationSelfApply, "본인이 등록한 캠페인에는 신청할 수 없습니다")
		case errors.Is(err, service.ErrCampaignNotRecruiting):
			apperrors.BadRequest(c, apperrors.CampaignNotRecruiting, "모집이 마감된 캠페인입니다")
		case errors.Is(err, service.ErrApplicationExists):
			apperrors.Conflict(c, apperrors.ApplicationAlreadyExists, "이미 신청한 캠페인입니다")
		default:
			log.Error("Failed to apply to campaign", err, map[string]interface{}{
				"campaign_id": campaignID,
				"user_id":     userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "apply to campaign")
		}
		return
	}

	log.Info("Application submitted", map[string]interface{}{
		"application_id": application.ID,
		"campaign_id":    campaignID,
		"user_id":        userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

// GetCampaignApplications lists applications for a campaign (owner only)
// GET /api/v1/campaigns/:id/applications
func (ctrl *ApplicationController) GetCampaignApplications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	campaignID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	applications, total, err := ctrl.applicationService.GetCampaignApplications(uint(campaignID), userID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotCampaignOwner):
			apperrors.Forbidden(c, "본인이 등록한 캠페인의 신청만 조회할 수 있습니다")
		default:
			log.Error("Failed to get campaign applications", err, map[string]interface{}{
				"campaign_id": campaignID,
				"user_id":     userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get applications")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}

// ChangeStatus changes an application's status (owner only)
// PATCH /api/v1/campaigns/:id/applications/:applicationId
func (ctrl *ApplicationController) ChangeStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	campaignID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	applicationID, err := strconv.ParseUint(c.Param("applicationId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 신청 ID가 아닙니다")
		return
	}

	var req ChangeApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	application, err := ctrl.applicationService.ChangeStatus(
		uint(campaignID), uint(applicationID), userID, model.ApplicationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAppStatus):
			apperrors.BadRequest(c, apperrors.ApplicationInvalidStatus, "허용되지 않는 신청 상태입니다")
		case errors.Is(err, service.ErrCampaignNotFound):
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case errors.Is(err, service.ErrApplicationNotFound):
			apperrors.NotFound(c, apperrors.ApplicationNotFound, "신청 내역을 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotCampaignOwner):
			apperrors.Forbidden(c, "본인이 등록한 캠페인의 신청만 처리할 수 있습니다")
		case errors.Is(err, service.ErrApplicationCancelled):
			apperrors.Conflict(c, apperrors.ApplicationAlreadyCancelled, "이미 취소된 신청입니다")
		default:
			log.Error("Failed to change application status", err, map[string]interface{}{
				"campaign_id":    campaignID,
				"application_id": applicationID,
				"user_id":        userID,
				"status":         req.Status,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "change application status")
		}
		return
	}

	log.Info("Application status changed", map[string]interface{}{
		"application_id": application.ID,
		"status":         application.Status,
		"user_id":        userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application status changed successfully",
		"application": application,
	})
}

// Cancel cancels the caller's own application (soft cancel)
// DELETE /api/v1/campaigns/:id/applications/:applicationId
func (ctrl *ApplicationController) Cancel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	applicationID, err := strconv.ParseUint(c.Param("applicationId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 신청 ID가 아닙니다")
		return
	}

	application, err := ctrl.applicationService.Cancel(uint(applicationID), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			apperrors.NotFound(c, apperrors.ApplicationNotFound, "신청 내역을 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotApplicant):
			apperrors.Forbidden(c, "본인의 신청만 취소할 수 있습니다")
		case errors.Is(err, service.ErrApplicationCancelled):
			apperrors.Conflict(c, apperrors.ApplicationAlreadyCancelled, "이미 취소된 신청입니다")
		default:
			log.Error("Failed to cancel application", err, map[string]interface{}{
				"application_id": applicationID,
				"user_id":        userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cancel application")
		}
		return
	}

	log.Info("Application cancelled", map[string]interface{}{
		"application_id": application.ID,
		"user_id":        userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application cancelled successfully",
		"application": application,
	})
}

// GetMyApplications lists the caller's applications
// GET /api/v1/applications/me
func (ctrl *ApplicationController) GetMyApplications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	applications, total, err := ctrl.applicationService.GetMyApplications(userID, limit, offset)
	if err != nil {
		log.Error("Failed to get my applications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get my applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        total,
		"limit":        limit,
		"offset":       offset,
	})
}
