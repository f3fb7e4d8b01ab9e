package service

import (
	"errors"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFavoriteExists   = errors.New("campaign already favorited")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteService interface {
	AddFavorite(userID, campaignID uint) (*model.FavoriteCampaign, error)
	RemoveFavorite(userID, campaignID uint) error
	GetFavorites(userID uint, page, pageSize int) ([]model.FavoriteCampaign, int64, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	campaignRepo repository.CampaignRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	campaignRepo repository.CampaignRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		campaignRepo: campaignRepo,
	}
}

func (s *favoriteService) AddFavorite(userID, campaignID uint) (*model.FavoriteCampaign, error) {
	if _, err := s.campaignRepo.FindByID(campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	exists, err := s.favoriteRepo.Exists(userID, campaignID)
	if err != nil {
		logger.Error("Failed to check favorite", err, map[string]interface{}{
			"user_id":     userID,
			"campaign_id": campaignID,
		})
		return nil, err
	}
	if exists {
		return nil, ErrFavoriteExists
	}

	favorite := &model.FavoriteCampaign{
		UserID:     userID,
		CampaignID: campaignID,
	}

	if err := s.favoriteRepo.Create(favorite); err != nil {
		logger.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id":     userID,
			"campaign_id": campaignID,
		})
		return nil, err
	}

	logger.Info("Campaign favorited", map[string]interface{}{
		"user_id":     userID,
		"campaign_id": campaignID,
	})

	return favorite, nil
}

func (s *favoriteService) RemoveFavorite(userID, campaignID uint) error {
	exists, err := s.favoriteRepo.Exists(userID, campaignID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFavoriteNotFound
	}

	if err := s.favoriteRepo.Delete(userID, campaignID); err != nil {
		logger.Error("Failed to remove favorite", err, map[string]interface{}{
			"user_id":     userID,
			"campaign_id": campaignID,
		})
		return err
	}

	logger.Info("Campaign unfavorited", map[string]interface{}{
		"user_id":     userID,
		"campaign_id": campaignID,
	})

	return nil
}

func (s *favoriteService) GetFavorites(userID uint, page, pageSize int) ([]model.FavoriteCampaign, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	return s.favoriteRepo.FindByUserID(userID, pageSize, offset)
}
