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

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

type AddFavoriteRequest struct {
	CampaignID uint `json:"campaign_id" binding:"required"`
}

// AddFavorite 캠페인 찜하기
// POST /api/v1/favorites
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	favorite, err := ctrl.favoriteService.AddFavorite(userID, req.CampaignID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			apperrors.NotFound(c, apperrors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case errors.Is(err, service.ErrFavoriteExists):
			apperrors.Conflict(c, apperrors.FavoriteAlreadyExists, "이미 찜한 캠페인입니다")
		default:
			log.Error("Failed to add favorite", err, map[string]interface{}{
				"campaign_id": req.CampaignID,
				"user_id":     userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add favorite")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Favorite added successfully",
		"favorite": favorite,
	})
}

// RemoveFavorite 캠페인 찜 해제
// DELETE /api/v1/favorites/:campaignId
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	campaignID, err := strconv.ParseUint(c.Param("campaignId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 캠페인 ID가 아닙니다")
		return
	}

	if err := ctrl.favoriteService.RemoveFavorite(userID, uint(campaignID)); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "찜한 캠페인이 아닙니다")
			return
		}
		log.Error("Failed to remove favorite", err, map[string]interface{}{
			"campaign_id": campaignID,
			"user_id":     userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite removed successfully",
	})
}

// GetFavorites 내가 찜한 캠페인 목록
// GET /api/v1/favorites
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	favorites, total, err := ctrl.favoriteService.GetFavorites(userID, page, pageSize)
	if err != nil {
		log.Error("Failed to get favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
