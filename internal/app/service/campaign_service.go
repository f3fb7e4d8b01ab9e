package service

import (
	"errors"
	"time"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNotCampaignOwner = errors.New("not the campaign owner")
	ErrDraftNotFound    = errors.New("draft not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrCategoryRequired = errors.New("category is required")
)

// CampaignInput 캠페인 생성/수정 입력
type CampaignInput struct {
	Title          string
	Category       string
	RecruitCount   int
	RecruitEndDate *time.Time
	RewardType     model.RewardType
	PaymentAmount  int
	ProductValue   int
	Description    string
	Requirements   string
	Hashtags       []string
	VisitType      string
	Location       string
	ThumbnailURL   string
}

type CampaignService interface {
	CreateCampaign(ownerID uint, input CampaignInput) (*model.Campaign, error)
	GetCampaigns(filter repository.CampaignFilter) ([]model.Campaign, int64, error)
	GetCampaignByID(id uint) (*model.Campaign, error)
	UpdateCampaign(id, callerID uint, input CampaignInput) (*model.Campaign, error)
	CloseCampaign(id, callerID uint) (*model.Campaign, error)
	CloseExpiredCampaigns() (int64, error)

	SaveDraft(userID uint, payload string) (*model.CampaignDraft, error)
	GetDraft(userID uint) (*model.CampaignDraft, error)
	DeleteDraft(userID uint) error
}

type campaignService struct {
	campaignRepo repository.CampaignRepository
}

func NewCampaignService(campaignRepo repository.CampaignRepository) CampaignService {
	return &campaignService{campaignRepo: campaignRepo}
}

func (s *campaignService) CreateCampaign(ownerID uint, input CampaignInput) (*model.Campaign, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Category == "" {
		return nil, ErrCategoryRequired
	}

	logger.Info("Creating campaign", map[string]interface{}{
		"owner_id": ownerID,
		"title":    input.Title,
		"category": input.Category,
	})

	recruitCount := input.RecruitCount
	if recruitCount <= 0 {
		recruitCount = 1
	}

	campaign := &model.Campaign{
		UserID:         ownerID,
		Title:          input.Title,
		Category:       input.Category,
		Status:         model.CampaignStatusRecruiting,
		RecruitCount:   recruitCount,
		RecruitEndDate: input.RecruitEndDate,
		RewardType:     input.RewardType,
		PaymentAmount:  input.PaymentAmount,
		ProductValue:   input.ProductValue,
		Description:    input.Description,
		Requirements:   input.Requirements,
		Hashtags:       input.Hashtags,
		VisitType:      input.VisitType,
		Location:       input.Location,
		ThumbnailURL:   input.ThumbnailURL,
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		logger.Error("Failed to create campaign", err, map[string]interface{}{
			"owner_id": ownerID,
			"title":    input.Title,
		})
		return nil, err
	}

	logger.Info("Campaign created successfully", map[string]interface{}{
		"campaign_id": campaign.ID,
		"owner_id":    ownerID,
	})

	return campaign, nil
}

func (s *campaignService) GetCampaigns(filter repository.CampaignFilter) ([]model.Campaign, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// 소유자 조회가 아니면 비공개 글은 목록에서 제외
	if filter.OwnerID == 0 {
		filter.ExcludePrivate = true
	}

	campaigns, total, err := s.campaignRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to fetch campaigns", err, map[string]interface{}{
			"status":   filter.Status,
			"category": filter.Category,
		})
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (s *campaignService) GetCampaignByID(id uint) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Campaign not found", map[string]interface{}{
				"campaign_id": id,
			})
			return nil, ErrCampaignNotFound
		}
		logger.Error("Failed to fetch campaign", err, map[string]interface{}{
			"campaign_id": id,
		})
		return nil, err
	}
	return campaign, nil
}

// UpdateCampaign 캠페인 수정 (소유 광고주만 가능)
func (s *campaignService) UpdateCampaign(id, callerID uint, input CampaignInput) (*model.Campaign, error) {
	campaign, err := s.GetCampaignByID(id)
	if err != nil {
		return nil, err
	}

	if campaign.UserID != callerID {
		logger.Warn("Campaign update denied: ownership mismatch", map[string]interface{}{
			"campaign_id": id,
			"caller_id":   callerID,
			"owner_id":    campaign.UserID,
		})
		return nil, ErrNotCampaignOwner
	}

	if input.Title != "" {
		campaign.Title = input.Title
	}
	if input.Category != "" {
		campaign.Category = input.Category
	}
	if input.RecruitCount > 0 {
		campaign.RecruitCount = input.RecruitCount
	}
	if input.RecruitEndDate != nil {
		campaign.RecruitEndDate = input.RecruitEndDate
	}
	if input.RewardType != "" {
		campaign.RewardType = input.RewardType
	}
	if input.PaymentAmount > 0 {
		campaign.PaymentAmount = input.PaymentAmount
	}
	if input.ProductValue > 0 {
		campaign.ProductValue = input.ProductValue
	}
	if input.Description != "" {
		campaign.Description = input.Description
	}
	if input.Requirements != "" {
		campaign.Requirements = input.Requirements
	}
	if input.Hashtags != nil {
		campaign.Hashtags = input.Hashtags
	}
	if input.VisitType != "" {
		campaign.VisitType = input.VisitType
	}
	if input.Location != "" {
		campaign.Location = input.Location
	}
	if input.ThumbnailURL != "" {
		campaign.ThumbnailURL = input.ThumbnailURL
	}

	if err := s.campaignRepo.Update(campaign); err != nil {
		logger.Error("Failed to update campaign", err, map[string]interface{}{
			"campaign_id": id,
		})
		return nil, err
	}

	logger.Info("Campaign updated successfully", map[string]interface{}{
		"campaign_id": id,
		"owner_id":    callerID,
	})

	return campaign, nil
}

// CloseCampaign 모집 마감 처리 (소유 광고주만, 이미 마감이어도 에러 아님)
func (s *campaignService) CloseCampaign(id, callerID uint) (*model.Campaign, error) {
	campaign, err := s.GetCampaignByID(id)
	if err != nil {
		return nil, err
	}

	if campaign.UserID != callerID {
		logger.Warn("Campaign close denied: ownership mismatch", map[string]interface{}{
			"campaign_id": id,
			"caller_id":   callerID,
			"owner_id":    campaign.UserID,
		})
		return nil, ErrNotCampaignOwner
	}

	if campaign.Status == model.CampaignStatusClosed {
		return campaign, nil
	}

	if err := s.campaignRepo.UpdateStatus(id, model.CampaignStatusClosed); err != nil {
		logger.Error("Failed to close campaign", err, map[string]interface{}{
			"campaign_id": id,
		})
		return nil, err
	}

	logger.Info("Campaign closed", map[string]interface{}{
		"campaign_id": id,
		"owner_id":    callerID,
	})

	campaign.Status = model.CampaignStatusClosed
	return campaign, nil
}

// CloseExpiredCampaigns 모집 마감일이 지난 캠페인 일괄 마감 (스케줄러 호출)
func (s *campaignService) CloseExpiredCampaigns() (int64, error) {
	closed, err := s.campaignRepo.CloseExpired(time.Now())
	if err != nil {
		logger.Error("Failed to close expired campaigns", err, nil)
		return 0, err
	}

	if closed > 0 {
		logger.Info("Expired campaigns closed", map[string]interface{}{
			"count": closed,
		})
	}
	return closed, nil
}

// SaveDraft 작성 중 캠페인 임시 저장 (광고주당 1건 upsert)
func (s *campaignService) SaveDraft(userID uint, payload string) (*model.CampaignDraft, error) {
	draft := &model.CampaignDraft{
		UserID:  userID,
		Payload: payload,
	}

	if err := s.campaignRepo.SaveDraft(draft); err != nil {
		logger.Error("Failed to save campaign draft", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return draft, nil
}

func (s *campaignService) GetDraft(userID uint) (*model.CampaignDraft, error) {
	draft, err := s.campaignRepo.FindDraftByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		logger.Error("Failed to fetch campaign draft", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return draft, nil
}

func (s *campaignService) DeleteDraft(userID uint) error {
	if err := s.campaignRepo.DeleteDraft(userID); err != nil {
		logger.Error("Failed to delete campaign draft", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
