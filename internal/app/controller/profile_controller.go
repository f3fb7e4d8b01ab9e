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

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

type InfluencerProfileRequest struct {
	Bio           string   `json:"bio"`
	Categories    []string `json:"categories"`
	FollowerCount int      `json:"follower_count"`
	Region        string   `json:"region"`
	PortfolioURL  string   `json:"portfolio_url"`
}

type AdvertiserProfileRequest struct {
	CompanyName    string `json:"company_name" binding:"required"`
	BusinessNumber string `json:"business_number"`
	ContactName    string `json:"contact_name"`
	ContactPhone   string `json:"contact_phone"`
	Address        string `json:"address"`
	Introduction   string `json:"introduction"`
}

type SocialLinkRequest struct {
	Provider string `json:"provider" binding:"required"`
	Handle   string `json:"handle" binding:"required"`
}

// UpsertInfluencerProfile 내 인플루언서 프로필 등록/수정
// PUT /api/v1/profiles/influencer/me
func (ctrl *ProfileController) UpsertInfluencerProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req InfluencerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	profile, err := ctrl.profileService.UpsertInfluencerProfile(userID, service.InfluencerProfileInput{
		Bio:           req.Bio,
		Categories:    req.Categories,
		FollowerCount: req.FollowerCount,
		Region:        req.Region,
		PortfolioURL:  req.PortfolioURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongRole):
			apperrors.Forbidden(c, "인플루언서만 등록할 수 있는 프로필입니다")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		default:
			log.Error("Failed to upsert influencer profile", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save influencer profile")
		}
		return
	}

	log.Info("Influencer profile saved", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile saved successfully",
		"profile": profile,
	})
}

// GetMyInfluencerProfile 내 인플루언서 프로필 조회
// GET /api/v1/profiles/influencer/me
func (ctrl *ProfileController) GetMyInfluencerProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	ctrl.respondInfluencerProfile(c, userID)
}

// GetInfluencerProfile 인플루언서 공개 프로필 조회
// GET /api/v1/profiles/influencer/:id
func (ctrl *ProfileController) GetInfluencerProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 사용자 ID가 아닙니다")
		return
	}

	ctrl.respondInfluencerProfile(c, uint(userID))
}

func (ctrl *ProfileController) respondInfluencerProfile(c *gin.Context, userID uint) {
	log := middleware.GetLoggerFromContext(c)

	profile, err := ctrl.profileService.GetInfluencerProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			apperrors.NotFound(c, apperrors.ProfileNotFound, "등록된 프로필이 없습니다")
			return
		}
		log.Error("Failed to get influencer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get influencer profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// UpsertAdvertiserProfile 내 광고주 프로필 등록/수정
// PUT /api/v1/profiles/advertiser/me
func (ctrl *ProfileController) UpsertAdvertiserProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req AdvertiserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	profile, err := ctrl.profileService.UpsertAdvertiserProfile(userID, service.AdvertiserProfileInput{
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		ContactName:    req.ContactName,
		ContactPhone:   req.ContactPhone,
		Address:        req.Address,
		Introduction:   req.Introduction,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongRole):
			apperrors.Forbidden(c, "광고주만 등록할 수 있는 프로필입니다")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		default:
			log.Error("Failed to upsert advertiser profile", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "save advertiser profile")
		}
		return
	}

	log.Info("Advertiser profile saved", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile saved successfully",
		"profile": profile,
	})
}

// GetMyAdvertiserProfile 내 광고주 프로필 조회
// GET /api/v1/profiles/advertiser/me
func (ctrl *ProfileController) GetMyAdvertiserProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	profile, err := ctrl.profileService.GetAdvertiserProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			apperrors.NotFound(c, apperrors.ProfileNotFound, "등록된 프로필이 없습니다")
			return
		}
		log.Error("Failed to get advertiser profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get advertiser profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// LinkSocialAccount SNS 계정 연동 (연동 시 verified는 초기화)
// POST /api/v1/profiles/social
func (ctrl *ProfileController) LinkSocialAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req SocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, err := ctrl.profileService.LinkSocialAccount(userID, service.SocialLinkInput{
		Provider: req.Provider,
		Handle:   req.Handle,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to link social account", err, map[string]interface{}{
			"user_id":  userID,
			"provider": req.Provider,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "link social account")
		return
	}

	log.Info("Social account linked", map[string]interface{}{
		"user_id":  userID,
		"provider": req.Provider,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Social account linked successfully",
		"user":    userResponse(user),
	})
}
