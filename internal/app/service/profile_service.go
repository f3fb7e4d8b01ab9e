package service

import (
	"errors"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrWrongRole       = errors.New("profile does not match user role")
)

// InfluencerProfileInput 인플루언서 프로필 입력
type InfluencerProfileInput struct {
	Bio           string
	Categories    []string
	FollowerCount int
	Region        string
	PortfolioURL  string
}

// AdvertiserProfileInput 광고주 프로필 입력
type AdvertiserProfileInput struct {
	CompanyName    string
	BusinessNumber string
	ContactName    string
	ContactPhone   string
	Address        string
	Introduction   string
}

// SocialLinkInput 소셜 계정 연동 입력
type SocialLinkInput struct {
	Provider string
	Handle   string
}

type ProfileService interface {
	UpsertInfluencerProfile(userID uint, input InfluencerProfileInput) (*model.InfluencerProfile, error)
	UpsertAdvertiserProfile(userID uint, input AdvertiserProfileInput) (*model.AdvertiserProfile, error)
	GetInfluencerProfile(userID uint) (*model.InfluencerProfile, error)
	GetAdvertiserProfile(userID uint) (*model.AdvertiserProfile, error)
	LinkSocialAccount(userID uint, input SocialLinkInput) (*model.User, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// UpsertInfluencerProfile 인플루언서 프로필 저장 (없으면 생성, 있으면 갱신)
func (s *profileService) UpsertInfluencerProfile(userID uint, input InfluencerProfileInput) (*model.InfluencerProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role != model.RoleInfluencer {
		return nil, ErrWrongRole
	}

	profile, err := s.profileRepo.FindInfluencerByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.InfluencerProfile{UserID: userID}
	}

	profile.Bio = input.Bio
	profile.Categories = input.Categories
	profile.FollowerCount = input.FollowerCount
	profile.Region = input.Region
	profile.PortfolioURL = input.PortfolioURL

	if err := s.profileRepo.SaveInfluencer(profile); err != nil {
		logger.Error("Failed to save influencer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Influencer profile saved", map[string]interface{}{
		"user_id": userID,
	})

	return profile, nil
}

// UpsertAdvertiserProfile 광고주 프로필 저장 (없으면 생성, 있으면 갱신)
func (s *profileService) UpsertAdvertiserProfile(userID uint, input AdvertiserProfileInput) (*model.AdvertiserProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role != model.RoleAdvertiser {
		return nil, ErrWrongRole
	}

	profile, err := s.profileRepo.FindAdvertiserByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.AdvertiserProfile{UserID: userID}
	}

	profile.CompanyName = input.CompanyName
	profile.BusinessNumber = input.BusinessNumber
	profile.ContactName = input.ContactName
	profile.ContactPhone = input.ContactPhone
	profile.Address = input.Address
	profile.Introduction = input.Introduction

	if err := s.profileRepo.SaveAdvertiser(profile); err != nil {
		logger.Error("Failed to save advertiser profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Advertiser profile saved", map[string]interface{}{
		"user_id": userID,
	})

	return profile, nil
}

func (s *profileService) GetInfluencerProfile(userID uint) (*model.InfluencerProfile, error) {
	profile, err := s.profileRepo.FindInfluencerByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) GetAdvertiserProfile(userID uint) (*model.AdvertiserProfile, error) {
	profile, err := s.profileRepo.FindAdvertiserByUserID(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// LinkSocialAccount 소셜 계정 연동. 연동이 바뀌면 인증 플래그는 초기화
// (실제 계정 검증은 외부 시스템이 담당)
func (s *profileService) LinkSocialAccount(userID uint, input SocialLinkInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"social_provider": input.Provider,
		"social_handle":   input.Handle,
		"is_verified":     false,
	}); err != nil {
		logger.Error("Failed to link social account", err, map[string]interface{}{
			"user_id":  userID,
			"provider": input.Provider,
		})
		return nil, err
	}

	logger.Info("Social account linked", map[string]interface{}{
		"user_id":  userID,
		"provider": input.Provider,
	})

	user.SocialProvider = input.Provider
	user.SocialHandle = input.Handle
	user.IsVerified = false
	return user, nil
}
