package repository

import (
	"github.com/ohsj/linkple-backend/internal/app/model"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(favorite *model.FavoriteCampaign) error
	Delete(userID, campaignID uint) error
	Exists(userID, campaignID uint) (bool, error)
	FindByUserID(userID uint, limit, offset int) ([]model.FavoriteCampaign, int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.FavoriteCampaign) error {
	return r.db.Create(favorite).Error
}

func (r *favoriteRepository) Delete(userID, campaignID uint) error {
	return r.db.
		Where("user_id = ? AND campaign_id = ?", userID, campaignID).
		Delete(&model.FavoriteCampaign{}).Error
}

func (r *favoriteRepository) Exists(userID, campaignID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.FavoriteCampaign{}).
		Where("user_id = ? AND campaign_id = ?", userID, campaignID).
		Count(&count).Error
	return count > 0, err
}

// FindByUserID 사용자의 찜 목록 조회 (캠페인 정보 포함, 최신순)
func (r *favoriteRepository) FindByUserID(userID uint, limit, offset int) ([]model.FavoriteCampaign, int64, error) {
	var favorites []model.FavoriteCampaign
	var total int64

	query := r.db.Model(&model.FavoriteCampaign{}).
		Where("user_id = ?", userID).
		Preload("Campaign").
		Preload("Campaign.User")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&favorites).Error; err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}
