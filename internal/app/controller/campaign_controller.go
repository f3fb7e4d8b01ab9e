package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/app/service"
	apperrors "github.com/ohsj/linkple-backend/internal/errors"
	"github.com/ohsj/linkple-backend/internal/middleware"
)

type CampaignController struct {
	campaignService service.CampaignService
}

func NewCampaignController(campaignService service.CampaignService) *CampaignController {
	return &CampaignController{
		campaignService: campaignService,
	}
}

type CampaignRequest struct {
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	RecruitCount   int        `json:"recruit_count"`
	RecruitEndDate *time.Time `json:"recruit_end_date"`
	RewardType     string     `json:"reward_type"`
	PaymentAmount  int        `json:"payment_amount"`
	ProductValue   int        `json:"product_value"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements"`
	Hashtags       []string   `json:"hashtags"`
	VisitType      string     `json:"visit_type"`
	Location       string     `json:"location"`

	// 클라이언트 버전에 따라 썸네일 필드명이 다르다
	ThumbnailURL      string   `json:"thumbnail_url"`
	ThumbnailURLAlias string   `json:"thumbnailUrl"`
	Images            []string `json:"images"`
}

type SaveDraftRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// thumbnail 스네이크 케이스 > 카멜 케이스 > 이미지 배열 첫 항목 순으로 채택
func (req *CampaignRequest) thumbnail() string {
	if req.ThumbnailURL != "" {
		return req.ThumbnailURL
	}
	if req.ThumbnailURLAlias != "" {
		return req.ThumbnailURLAlias
	}
	if len(req.Images) > 0 {
		return req.Images[0]
	}
	return ""
}

func (req *CampaignRequest) toInput() service.CampaignInput {
	return service.CampaignInput{
		Title:          req.Title,
		Category:       req.Category,
		RecruitCount:   req.RecruitCount,
		RecruitEndDate: req.RecruitEndDate,
		RewardType:     model.RewardType(req.RewardType),
		PaymentAmount:  req.PaymentAmount,
		ProductValue:   req.ProductValue,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Hashtags:       req.Hashtags,
		VisitType:      req.VisitType,
		Location:       req.Location,
		ThumbnailURL:   req.thumbnail(),
	}
}

// GetCampaigns returns the campaign list with filters
// GET /api/v1/campaigns
func (ctrl *CampaignController) GetCampaigns(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := repository.CampaignFilter{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		VisitType: c.Query("visit_type"),
		Limit:     limit,
		Offset:    offset,
	}

	// mine=true면 내가 올린 캠페인만 조회 (비공개 포함)
	if c.Query("mine") == "true" {
		userID, exists := middleware.GetUserID(c)
		if !exists {
			apperrors.Unauthorized(c, "로그인이 필요합니다")
			return
		}
		filter.OwnerID = userID
	}

	campaigns, total, err := ctrl.campaignService.GetCampaigns(filter)
	if err != nil {
		log.Error("Failed to get campaigns", err, map[string]interface{}{
			"filter": filter,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get campaigns")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetCampaign returns a single campaign
// GET /api/v1/campaigns/:id
func (ctrl *CampaignController) GetCampaign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	campaign, err := ctrl.campaignService.GetCampaignByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to get campaign", err, map[string]interface{}{
			"campaign_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get campaign")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign": campaign,
	})
}

// CreateCampaign creates a new campaign
// POST /api/v1/campaigns
func (ctrl *CampaignController) CreateCampaign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid campaign creation request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	campaign, err := ctrl.campaignService.CreateCampaign(userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrCategoryRequired) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "제목과 카테고리는 필수입니다")
			return
		}
		log.Error("Failed to create campaign", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create campaign")
		return
	}

	log.Info("Campaign created", map[string]interface{}{
		"campaign_id": campaign.ID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Campaign created successfully",
		"campaign": campaign,
	})
}

// UpdateCampaign updates an existing campaign (owner only)
// PUT /api/v1/campaigns/:id
func (ctrl *CampaignController) UpdateCampaign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	campaign, err := ctrl.campaignService.UpdateCampaign(uint(id), userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
			return
		}
		if errors.Is(err, service.ErrNotCampaignOwner) {
			apperrors.Forbidden(c, "본인이 등록한 캠페인만 수정할 수 있습니다")
			return
		}
		log.Error("Failed to update campaign", err, map[string]interface{}{
			"campaign_id": id,
			"user_id":     userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update campaign")
		return
	}

	log.Info("Campaign updated", map[string]interface{}{
		"campaign_id": campaign.ID,
		"user_id":     userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Campaign updated successfully",
		"campaign": campaign,
	})
}

// CloseCampaign closes recruiting for a campaign (owner only, idempotent)
// POST /api/v1/campaigns/:id/close
func (ctrl *CampaignController) CloseCampaign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	campaign, err := ctrl.campaignService.CloseCampaign(uint(id), userID)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
			return
		}
		if errors.Is(err, service.ErrNotCampaignOwner) {
			apperrors.Forbidden(c, "본인이 등록한 캠페인만 마감할 수 있습니다")
			return
		}
		log.Error("Failed to close campaign", err, map[string]interface{}{
			"campaign_id": id,
			"user_id":     userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "close campaign")
		return
	}

	log.Info("Campaign closed", map[string]interface{}{
		"campaign_id": campaign.ID,
		"user_id":     userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Campaign closed successfully",
		"campaign": campaign,
	})
}

// SaveDraft saves the caller's campaign draft (upsert, one per user)
// PUT /api/v1/campaigns/drafts/me
func (ctrl *CampaignController) SaveDraft(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	draft, err := ctrl.campaignService.SaveDraft(userID, req.Payload)
	if err != nil {
		log.Error("Failed to save campaign draft", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save draft")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Draft saved successfully",
		"draft":   draft,
	})
}

// GetDraft returns the caller's campaign draft
// GET /api/v1/campaigns/drafts/me
func (ctrl *CampaignController) GetDraft(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	draft, err := ctrl.campaignService.GetDraft(userID)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			apperrors.NotFound(c, apperrors.CampaignDraftNotFound, "임시 저장된 캠페인이 없습니다")
			return
		}
		log.Error("Failed to get campaign draft", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get draft")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draft": draft,
	})
}

// DeleteDraft removes the caller's campaign draft
// DELETE /api/v1/campaigns/drafts/me
func (ctrl *CampaignController) DeleteDraft(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	if err := ctrl.campaignService.DeleteDraft(userID); err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			apperrors.NotFound(c, apperrors.CampaignDraftNotFound, "임시 저장된 캠페인이 없습니다")
			return
		}
		log.Error("Failed to delete campaign draft", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete draft")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Draft deleted successfully",
	})
}
