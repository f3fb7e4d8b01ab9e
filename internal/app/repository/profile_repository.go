package repository

import (
	"github.com/ohsj/linkple-backend/internal/app/model"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindInfluencerByUserID(userID uint) (*model.InfluencerProfile, error)
	FindAdvertiserByUserID(userID uint) (*model.AdvertiserProfile, error)
	SaveInfluencer(profile *model.InfluencerProfile) error
	SaveAdvertiser(profile *model.AdvertiserProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindInfluencerByUserID 없으면 (nil, nil) 반환
func (r *profileRepository) FindInfluencerByUserID(userID uint) (*model.InfluencerProfile, error) {
	var profile model.InfluencerProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindAdvertiserByUserID 없으면 (nil, nil) 반환
func (r *profileRepository) FindAdvertiserByUserID(userID uint) (*model.AdvertiserProfile, error) {
	var profile model.AdvertiserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SaveInfluencer(profile *model.InfluencerProfile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) SaveAdvertiser(profile *model.AdvertiserProfile) error {
	return r.db.Save(profile).Error
}
