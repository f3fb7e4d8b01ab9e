package service

import (
	"testing"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	reviewService := NewReviewService(reviewRepo, userRepo, testDB)

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

	return reviewService, testDB, advertiser, influencer
}

func createReviewCampaign(t *testing.T, testDB *gorm.DB, ownerID uint) *model.Campaign {
	campaign := &model.Campaign{
		UserID:   ownerID,
		Title:    "리뷰 대상 캠페인",
		Category: "맛집",
		Status:   model.CampaignStatusClosed,
	}
	require.NoError(t, testDB.Create(campaign).Error)
	return campaign
}

func influencerAggregate(t *testing.T, testDB *gorm.DB, influencerID uint) (float64, int) {
	var user model.User
	require.NoError(t, testDB.First(&user, influencerID).Error)
	return user.AverageRating, user.TotalReviews
}

func TestReviewService_CreateReview(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	review, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{
		Rating:  5,
		Content: "소통이 잘돼요",
		Tags:    []string{"소통이 잘돼요", "마감이 정확해요"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.True(t, review.IsVisible)

	// 생성과 함께 인플루언서 집계가 갱신됨
	average, total := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 5.0, average)
	assert.Equal(t, 1, total)
}

func TestReviewService_CreateReview_Errors(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	t.Run("Invalid rating", func(t *testing.T) {
		_, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 0})
		assert.ErrorIs(t, err, ErrInvalidRating)

		_, err = svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 6})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("Duplicate review", func(t *testing.T) {
		_, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 4})
		require.NoError(t, err)

		_, err = svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 5})
		assert.ErrorIs(t, err, ErrReviewExists)
	})
}

func TestReviewService_UpdateReview_RecomputesAggregate(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	review, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	t.Run("Not the reviewer", func(t *testing.T) {
		_, err := svc.UpdateReview(review.ID, influencer.ID, ReviewInput{Rating: 1})
		assert.ErrorIs(t, err, ErrNotReviewer)
	})

	t.Run("Rating change recomputes", func(t *testing.T) {
		_, err := svc.UpdateReview(review.ID, advertiser.ID, ReviewInput{Rating: 3})
		require.NoError(t, err)

		average, total := influencerAggregate(t, testDB, influencer.ID)
		assert.Equal(t, 3.0, average)
		assert.Equal(t, 1, total)
	})
}

func TestReviewService_DeleteReview_RecomputesAggregate(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)

	campaign1 := createReviewCampaign(t, testDB, advertiser.ID)
	campaign2 := createReviewCampaign(t, testDB, advertiser.ID)

	review1, err := svc.CreateReview(campaign1.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)
	_, err = svc.CreateReview(campaign2.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 4})
	require.NoError(t, err)

	average, total := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 4.5, average)
	assert.Equal(t, 2, total)

	err = svc.DeleteReview(review1.ID, advertiser.ID)
	require.NoError(t, err)

	average, total = influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 4.0, average)
	assert.Equal(t, 1, total)
}

func TestReviewService_DeleteLastReview_ZeroAggregate(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	review, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	err = svc.DeleteReview(review.ID, advertiser.ID)
	require.NoError(t, err)

	// 리뷰가 없으면 집계는 0/0
	average, total := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 0.0, average)
	assert.Equal(t, 0, total)
}

func TestReviewService_GetStats(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)

	t.Run("Empty stats", func(t *testing.T) {
		stats, err := svc.GetStats(influencer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.TotalReviews)
		assert.Equal(t, 0.0, stats.AverageRating)
		assert.Len(t, stats.Histogram, 5)
		assert.Empty(t, stats.TopTags)
	})

	t.Run("Single five star review", func(t *testing.T) {
		campaign := createReviewCampaign(t, testDB, advertiser.ID)
		_, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{
			Rating: 5,
			Tags:   []string{"소통이 잘돼요"},
		})
		require.NoError(t, err)

		stats, err := svc.GetStats(influencer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalReviews)
		assert.Equal(t, 5.0, stats.AverageRating)
		assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 1}, stats.Histogram)
		require.Len(t, stats.TopTags, 1)
		assert.Equal(t, "소통이 잘돼요", stats.TopTags[0].Tag)
		assert.Equal(t, 1, stats.TopTags[0].Count)
	})

	t.Run("Tag ties keep first-seen order", func(t *testing.T) {
		campaign := createReviewCampaign(t, testDB, advertiser.ID)
		_, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{
			Rating: 3,
			Tags:   []string{"마감이 정확해요", "결과물이 좋아요"},
		})
		require.NoError(t, err)

		stats, err := svc.GetStats(influencer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TotalReviews)
		assert.Equal(t, 4.0, stats.AverageRating)

		// 모두 1회씩 등장: 먼저 본 태그가 앞에 온다
		require.Len(t, stats.TopTags, 3)
		assert.Equal(t, "소통이 잘돼요", stats.TopTags[0].Tag)
		assert.Equal(t, "마감이 정확해요", stats.TopTags[1].Tag)
		assert.Equal(t, "결과물이 좋아요", stats.TopTags[2].Tag)
	})
}

func TestReviewService_AverageRounding(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)

	ratings := []int{5, 4, 4} // 평균 4.333... -> 4.3
	for _, rating := range ratings {
		campaign := createReviewCampaign(t, testDB, advertiser.ID)
		_, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{Rating: rating})
		require.NoError(t, err)
	}

	stats, err := svc.GetStats(influencer.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stats.AverageRating)

	average, _ := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 4.3, average)
}

func TestReviewService_HiddenReviewExcludedFromStatsAndAggregate(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	other := &model.User{
		Email:          "adv2@example.com",
		PasswordHash:   "hash",
		Name:           "광고주2",
		Nickname:       "광고주2닉네임",
		Role:           model.RoleAdvertiser,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(other)
	otherCampaign := createReviewCampaign(t, testDB, other.ID)

	hidden := false
	_, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{
		Rating:  1,
		Content: "비공개 리뷰",
		Tags:    []string{"응답이 느려요"},
		Visible: &hidden,
	})
	require.NoError(t, err)

	_, err = svc.CreateReview(otherCampaign.ID, other.ID, influencer.ID, ReviewInput{
		Rating: 5,
		Tags:   []string{"소통이 잘돼요"},
	})
	require.NoError(t, err)

	// 숨긴 리뷰는 집계와 통계 모두에서 빠진다
	average, total := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 5.0, average)
	assert.Equal(t, 1, total)

	stats, err := svc.GetStats(influencer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalReviews)
	assert.Equal(t, 0, stats.Histogram[1])
	assert.Equal(t, 1, stats.Histogram[5])
	require.Len(t, stats.TopTags, 1)
	assert.Equal(t, "소통이 잘돼요", stats.TopTags[0].Tag)
}

func TestReviewService_UpdateVisibilityRecomputesAggregate(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	review, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{
		Rating: 4,
	})
	require.NoError(t, err)

	hidden := false
	updated, err := svc.UpdateReview(review.ID, advertiser.ID, ReviewInput{Visible: &hidden})
	require.NoError(t, err)
	assert.False(t, updated.IsVisible)
	assert.Equal(t, 4, updated.Rating)

	average, total := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 0.0, average)
	assert.Equal(t, 0, total)

	// 다시 노출하면 집계도 복원
	shown := true
	_, err = svc.UpdateReview(review.ID, advertiser.ID, ReviewInput{Visible: &shown})
	require.NoError(t, err)

	average, total = influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 4.0, average)
	assert.Equal(t, 1, total)
}

func TestReviewService_UpdateContentOnlyKeepsRating(t *testing.T) {
	svc, testDB, advertiser, influencer := setupReviewServiceTest(t)
	campaign := createReviewCampaign(t, testDB, advertiser.ID)

	review, err := svc.CreateReview(campaign.ID, advertiser.ID, influencer.ID, ReviewInput{
		Rating:  3,
		Content: "처음 내용",
	})
	require.NoError(t, err)

	// 평점 없이 내용만 고쳐도 기존 평점과 집계는 유지
	updated, err := svc.UpdateReview(review.ID, advertiser.ID, ReviewInput{Content: "고친 내용"})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "고친 내용", updated.Content)

	average, total := influencerAggregate(t, testDB, influencer.ID)
	assert.Equal(t, 3.0, average)
	assert.Equal(t, 1, total)
}
