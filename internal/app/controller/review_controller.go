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

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	CampaignID   uint     `json:"campaign_id" binding:"required"`
	InfluencerID uint     `json:"influencer_id" binding:"required"`
	Rating       int      `json:"rating" binding:"required"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Visible      *bool    `json:"visible"`
}

// UpdateReviewRequest 부분 수정 요청. 생략한 필드는 기존 값을 유지한다
type UpdateReviewRequest struct {
	Rating  int      `json:"rating"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Visible *bool    `json:"visible"`
}

// CreateReview 협업 완료 후 광고주가 인플루언서 리뷰 작성
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	review, err := ctrl.reviewService.CreateReview(req.CampaignID, userID, req.InfluencerID, service.ReviewInput{
		Rating:  req.Rating,
		Content: req.Content,
		Tags:    req.Tags,
		Visible: req.Visible,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점은 1점에서 5점 사이여야 합니다")
		case errors.Is(err, service.ErrReviewExists):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "이미 리뷰를 작성했습니다")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "대상 인플루언서를 찾을 수 없습니다")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"campaign_id":   req.CampaignID,
				"influencer_id": req.InfluencerID,
				"user_id":       userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		}
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"influencer_id": req.InfluencerID,
		"rating":        req.Rating,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// UpdateReview 리뷰 수정 (작성자만)
// PATCH /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 리뷰 ID가 아닙니다")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(uint(reviewID), userID, service.ReviewInput{
		Rating:  req.Rating,
		Content: req.Content,
		Tags:    req.Tags,
		Visible: req.Visible,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotReviewer):
			apperrors.Forbidden(c, "본인이 작성한 리뷰만 수정할 수 있습니다")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "평점은 1점에서 5점 사이여야 합니다")
		default:
			log.Error("Failed to update review", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update review")
		}
		return
	}

	log.Info("Review updated", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview 리뷰 삭제 (작성자만)
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 리뷰 ID가 아닙니다")
		return
	}

	if err := ctrl.reviewService.DeleteReview(uint(reviewID), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrNotReviewer):
			apperrors.Forbidden(c, "본인이 작성한 리뷰만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete review")
		}
		return
	}

	log.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// GetInfluencerReviews 인플루언서가 받은 리뷰 목록
// GET /api/v1/reviews/influencer/:id
func (ctrl *ReviewController) GetInfluencerReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	influencerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 사용자 ID가 아닙니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reviews, total, err := ctrl.reviewService.GetInfluencerReviews(uint(influencerID), page, pageSize)
	if err != nil {
		log.Error("Failed to get influencer reviews", err, map[string]interface{}{
			"influencer_id": influencerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":   reviews,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetStats 인플루언서 리뷰 통계 (평점 히스토그램 + 상위 태그)
// GET /api/v1/reviews/stats/:influencerId
func (ctrl *ReviewController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	influencerID, err := strconv.ParseUint(c.Param("influencerId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "올바른 사용자 ID가 아닙니다")
		return
	}

	stats, err := ctrl.reviewService.GetStats(uint(influencerID))
	if err != nil {
		log.Error("Failed to get review stats", err, map[string]interface{}{
			"influencer_id": influencerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get review stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
