package service

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists")
	ErrNotReviewer    = errors.New("not the reviewer")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// ReviewInput 리뷰 생성/수정 입력. Visible이 nil이면 노출 여부를 바꾸지 않는다
type ReviewInput struct {
	Rating  int
	Content string
	Tags    []string
	Visible *bool
}

type ReviewService interface {
	CreateReview(campaignID, advertiserID, influencerID uint, input ReviewInput) (*model.Review, error)
	UpdateReview(reviewID, callerID uint, input ReviewInput) (*model.Review, error)
	DeleteReview(reviewID, callerID uint) error
	GetInfluencerReviews(influencerID uint, page, pageSize int) ([]model.Review, int64, error)
	GetStats(influencerID uint) (*model.ReviewStats, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	db         *gorm.DB
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		db:         db,
	}
}

// CreateReview 리뷰 작성. 생성과 인플루언서 집계 재계산을 한 트랜잭션으로 처리
func (s *reviewService) CreateReview(campaignID, advertiserID, influencerID uint, input ReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	existing, err := s.reviewRepo.FindByTriple(campaignID, advertiserID, influencerID)
	if err != nil {
		logger.Error("Failed to check existing review", err, map[string]interface{}{
			"campaign_id":   campaignID,
			"advertiser_id": advertiserID,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Review rejected: already written", map[string]interface{}{
			"review_id":     existing.ID,
			"campaign_id":   campaignID,
			"advertiser_id": advertiserID,
		})
		return nil, ErrReviewExists
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review create, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"campaign_id": campaignID,
			})
		}
	}()

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	review := &model.Review{
		CampaignID:   campaignID,
		AdvertiserID: advertiserID,
		InfluencerID: influencerID,
		Rating:       input.Rating,
		Content:      input.Content,
		Tags:         input.Tags,
		IsVisible:    visible,
	}

	if err := tx.Create(review).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create review", err, map[string]interface{}{
			"campaign_id":   campaignID,
			"advertiser_id": advertiserID,
		})
		return nil, err
	}

	if err := s.recomputeAggregateTx(tx, influencerID); err != nil {
		tx.Rollback()
		logger.Error("Failed to recompute review aggregate", err, map[string]interface{}{
			"influencer_id": influencerID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review transaction", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"campaign_id":   campaignID,
		"influencer_id": influencerID,
		"rating":        input.Rating,
	})

	return s.reviewRepo.FindByID(review.ID)
}

// UpdateReview 리뷰 수정 (작성자만). 평점이나 노출 여부가 바뀌면 집계 재계산
func (s *reviewService) UpdateReview(reviewID, callerID uint, input ReviewInput) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.AdvertiserID != callerID {
		logger.Warn("Review update denied: not the reviewer", map[string]interface{}{
			"review_id": reviewID,
			"caller_id": callerID,
		})
		return nil, ErrNotReviewer
	}

	aggregateChanged := false
	if input.Rating != 0 {
		if input.Rating < 1 || input.Rating > 5 {
			return nil, ErrInvalidRating
		}
		if input.Rating != review.Rating {
			review.Rating = input.Rating
			aggregateChanged = true
		}
	}
	if input.Content != "" {
		review.Content = input.Content
	}
	if input.Tags != nil {
		review.Tags = input.Tags
	}
	if input.Visible != nil && *input.Visible != review.IsVisible {
		review.IsVisible = *input.Visible
		aggregateChanged = true
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"review_id": reviewID,
			})
		}
	}()

	if err := tx.Save(review).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	if aggregateChanged {
		if err := s.recomputeAggregateTx(tx, review.InfluencerID); err != nil {
			tx.Rollback()
			logger.Error("Failed to recompute review aggregate", err, map[string]interface{}{
				"influencer_id": review.InfluencerID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review update transaction", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id": reviewID,
	})

	return review, nil
}

// DeleteReview 리뷰 삭제 (작성자만). 남은 리뷰 기준으로 집계 재계산
func (s *reviewService) DeleteReview(reviewID, callerID uint) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.AdvertiserID != callerID {
		return ErrNotReviewer
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review delete, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"review_id": reviewID,
			})
		}
	}()

	if err := tx.Delete(&model.Review{}, reviewID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	if err := s.recomputeAggregateTx(tx, review.InfluencerID); err != nil {
		tx.Rollback()
		logger.Error("Failed to recompute review aggregate", err, map[string]interface{}{
			"influencer_id": review.InfluencerID,
		})
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review delete transaction", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":     reviewID,
		"influencer_id": review.InfluencerID,
	})

	return nil
}

func (s *reviewService) GetInfluencerReviews(influencerID uint, page, pageSize int) ([]model.Review, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	return s.reviewRepo.FindByInfluencerID(influencerID, pageSize, offset)
}

// GetStats 인플루언서 리뷰 통계.
// 히스토그램은 1~5 모든 칸을 채우고 태그 동률은 먼저 등장한 순서를 유지
func (s *reviewService) GetStats(influencerID uint) (*model.ReviewStats, error) {
	reviews, err := s.reviewRepo.FindVisibleByInfluencerID(influencerID)
	if err != nil {
		logger.Error("Failed to fetch reviews for stats", err, map[string]interface{}{
			"influencer_id": influencerID,
		})
		return nil, err
	}

	stats := &model.ReviewStats{
		TotalReviews: int64(len(reviews)),
		Histogram:    map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		TopTags:      []model.TagCount{},
	}

	if len(reviews) == 0 {
		return stats, nil
	}

	sum := 0
	tagCounts := make(map[string]int)
	tagOrder := make([]string, 0)

	for _, review := range reviews {
		sum += review.Rating
		if review.Rating >= 1 && review.Rating <= 5 {
			stats.Histogram[review.Rating]++
		}
		for _, tag := range review.Tags {
			if _, seen := tagCounts[tag]; !seen {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
	}

	stats.AverageRating = roundRating(float64(sum) / float64(len(reviews)))

	// 빈도 내림차순, 동률은 먼저 등장한 태그 우선
	sort.SliceStable(tagOrder, func(i, j int) bool {
		return tagCounts[tagOrder[i]] > tagCounts[tagOrder[j]]
	})

	limit := 5
	if len(tagOrder) < limit {
		limit = len(tagOrder)
	}
	for _, tag := range tagOrder[:limit] {
		stats.TopTags = append(stats.TopTags, model.TagCount{Tag: tag, Count: tagCounts[tag]})
	}

	return stats, nil
}

// recomputeAggregateTx 인플루언서의 평균 평점/리뷰 수를 노출 리뷰 전체에서 다시 계산
func (s *reviewService) recomputeAggregateTx(tx *gorm.DB, influencerID uint) error {
	var reviews []model.Review
	if err := tx.
		Where("influencer_id = ? AND is_visible = ?", influencerID, true).
		Find(&reviews).Error; err != nil {
		return err
	}

	average := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		average = roundRating(float64(sum) / float64(len(reviews)))
	}

	return tx.Model(&model.User{}).
		Where("id = ?", influencerID).
		Updates(map[string]interface{}{
			"average_rating": average,
			"total_reviews":  len(reviews),
		}).Error
}

// roundRating 소수점 1자리 반올림
func roundRating(value float64) float64 {
	return math.Round(value*10) / 10
}
