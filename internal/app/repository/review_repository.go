package repository

import (
	"github.com/ohsj/linkple-backend/internal/app/model"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByInfluencerID(influencerID uint, limit, offset int) ([]model.Review, int64, error)
	FindByTriple(campaignID, advertiserID, influencerID uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
	FindVisibleByInfluencerID(influencerID uint) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.
		Preload("Advertiser").
		Preload("Campaign").
		First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByInfluencerID 인플루언서가 받은 리뷰 목록 조회 (최신순, 노출 리뷰만)
func (r *reviewRepository) FindByInfluencerID(influencerID uint, limit, offset int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).
		Where("influencer_id = ? AND is_visible = ?", influencerID, true).
		Preload("Advertiser").
		Preload("Campaign")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// FindByTriple (캠페인, 광고주, 인플루언서) 조합으로 기존 리뷰 조회 (중복 작성 방지)
// 없으면 (nil, nil) 반환
func (r *reviewRepository) FindByTriple(campaignID, advertiserID, influencerID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.
		Where("campaign_id = ? AND advertiser_id = ? AND influencer_id = ?",
			campaignID, advertiserID, influencerID).
		First(&review).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(id uint) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// FindVisibleByInfluencerID 집계 재계산용 전체 노출 리뷰 조회 (작성 순)
func (r *reviewRepository) FindVisibleByInfluencerID(influencerID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.
		Where("influencer_id = ? AND is_visible = ?", influencerID, true).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
