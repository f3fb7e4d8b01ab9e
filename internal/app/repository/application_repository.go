package repository

import (
	"github.com/ohsj/linkple-backend/internal/app/model"

	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(application *model.CampaignApplication) error
	FindByID(id uint) (*model.CampaignApplication, error)
	FindActiveByCampaignAndUser(campaignID, userID uint) (*model.CampaignApplication, error)
	FindByCampaignID(campaignID uint, limit, offset int) ([]model.CampaignApplication, int64, error)
	FindByUserID(userID uint, limit, offset int) ([]model.CampaignApplication, int64, error)
	Update(application *model.CampaignApplication) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(application *model.CampaignApplication) error {
	return r.db.Create(application).Error
}

func (r *applicationRepository) FindByID(id uint) (*model.CampaignApplication, error) {
	var application model.CampaignApplication
	if err := r.db.Preload("User").Preload("Campaign").First(&application, id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// FindActiveByCampaignAndUser 동일 (캠페인, 인플루언서)의 취소되지 않은 신청 조회
// 없으면 (nil, nil) 반환
func (r *applicationRepository) FindActiveByCampaignAndUser(campaignID, userID uint) (*model.CampaignApplication, error) {
	var application model.CampaignApplication
	err := r.db.
		Where("campaign_id = ? AND user_id = ? AND status <> ?",
			campaignID, userID, model.ApplicationStatusCancelled).
		First(&application).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// FindByCampaignID 캠페인의 신청 목록 조회 (광고주용, 취소 포함)
func (r *applicationRepository) FindByCampaignID(campaignID uint, limit, offset int) ([]model.CampaignApplication, int64, error) {
	var applications []model.CampaignApplication
	var total int64

	query := r.db.Model(&model.CampaignApplication{}).Where("campaign_id = ?", campaignID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Preload("User.InfluencerProfile").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// FindByUserID 인플루언서 본인의 신청 목록 조회
func (r *applicationRepository) FindByUserID(userID uint, limit, offset int) ([]model.CampaignApplication, int64, error) {
	var applications []model.CampaignApplication
	var total int64

	query := r.db.Model(&model.CampaignApplication{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Campaign").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *applicationRepository) Update(application *model.CampaignApplication) error {
	return r.db.Save(application).Error
}
