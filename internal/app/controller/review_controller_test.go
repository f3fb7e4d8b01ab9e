package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/app/service"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/ohsj/linkple-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.User, *model.User) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	reviewRepo := repository.NewReviewRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	reviewService := service.NewReviewService(reviewRepo, userRepo, testDB)
	ctrl := NewReviewController(reviewService)

	advertiser := &model.User{
		Email:          "adv@example.com",
		PasswordHash:   "hash",
		Name:           "광고주",
		Nickname:       "광고주닉네임",
		Role:           model.RoleAdvertiser,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(advertiser)

	influencer := &model.User{
		Email:          "inf@example.com",
		PasswordHash:   "hash",
		Name:           "인플루언서",
		Nickname:       "인플닉네임",
		Role:           model.RoleInfluencer,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(influencer)

	// 로그인한 광고주로 고정
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, advertiser.ID)
		c.Next()
	})
	router.POST("/reviews", ctrl.CreateReview)
	router.PATCH("/reviews/:id", ctrl.UpdateReview)

	return router, testDB, advertiser, influencer
}

func TestReviewController_UpdateReview_ContentOnly(t *testing.T) {
	router, testDB, advertiser, influencer := setupReviewControllerTest(t)

	campaign := &model.Campaign{
		UserID:   advertiser.ID,
		Title:    "리뷰 대상 캠페인",
		Category: "맛집",
		Status:   model.CampaignStatusClosed,
	}
	require.NoError(t, testDB.Create(campaign).Error)

	review := &model.Review{
		CampaignID:   campaign.ID,
		AdvertiserID: advertiser.ID,
		InfluencerID: influencer.ID,
		Rating:       4,
		Content:      "처음 내용",
		IsVisible:    true,
	}
	require.NoError(t, testDB.Create(review).Error)

	// 평점 없이 내용만 보내는 부분 수정
	body, _ := json.Marshal(map[string]interface{}{"content": "고친 내용"})
	req := httptest.NewRequest("PATCH", fmt.Sprintf("/reviews/%d", review.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var found model.Review
	require.NoError(t, testDB.First(&found, review.ID).Error)
	assert.Equal(t, "고친 내용", found.Content)
	assert.Equal(t, 4, found.Rating)
}

func TestReviewController_CreateReview_Hidden(t *testing.T) {
	router, testDB, advertiser, influencer := setupReviewControllerTest(t)

	campaign := &model.Campaign{
		UserID:   advertiser.ID,
		Title:    "리뷰 대상 캠페인",
		Category: "맛집",
		Status:   model.CampaignStatusClosed,
	}
	require.NoError(t, testDB.Create(campaign).Error)

	body, _ := json.Marshal(map[string]interface{}{
		"campaign_id":   campaign.ID,
		"influencer_id": influencer.ID,
		"rating":        2,
		"visible":       false,
	})
	req := httptest.NewRequest("POST", "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var found model.Review
	require.NoError(t, testDB.Where("campaign_id = ?", campaign.ID).First(&found).Error)
	assert.False(t, found.IsVisible)
}
