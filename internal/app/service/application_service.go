package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrApplicationExists     = errors.New("application already exists")
	ErrApplicationCancelled  = errors.New("application already cancelled")
	ErrNotApplicant          = errors.New("not the applicant")
	ErrCampaignNotRecruiting = errors.New("campaign is not recruiting")
	ErrSelfApply             = errors.New("cannot apply to own campaign")
	ErrInvalidAppStatus      = errors.New("invalid application status")
)

type ApplicationService interface {
	Apply(campaignID, influencerID uint, message string) (*model.CampaignApplication, error)
	Cancel(applicationID, callerID uint) (*model.CampaignApplication, error)
	ChangeStatus(campaignID, applicationID, callerID uint, newStatus model.ApplicationStatus) (*model.CampaignApplication, error)
	GetCampaignApplications(campaignID, callerID uint, limit, offset int) ([]model.CampaignApplication, int64, error)
	GetMyApplications(userID uint, limit, offset int) ([]model.CampaignApplication, int64, error)
}

type applicationService struct {
	applicationRepo  repository.ApplicationRepository
	campaignRepo     repository.CampaignRepository
	notificationRepo repository.NotificationRepository
	db               *gorm.DB
}

func NewApplicationService(
	applicationRepo repository.ApplicationRepository,
	campaignRepo repository.CampaignRepository,
	notificationRepo repository.NotificationRepository,
	db *gorm.DB,
) ApplicationService {
	return &applicationService{
		applicationRepo:  applicationRepo,
		campaignRepo:     campaignRepo,
		notificationRepo: notificationRepo,
		db:               db,
	}
}

// Apply 캠페인 신청. 신청 생성과 applicants 카운터 증가를 한 트랜잭션으로 처리
func (s *applicationService) Apply(campaignID, influencerID uint, message string) (*model.CampaignApplication, error) {
	logger.Info("Applying to campaign", map[string]interface{}{
		"campaign_id":   campaignID,
		"influencer_id": influencerID,
	})

	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		logger.Error("Failed to fetch campaign for application", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	if campaign.UserID == influencerID {
		logger.Warn("Application rejected: applicant owns the campaign", map[string]interface{}{
			"campaign_id":   campaignID,
			"influencer_id": influencerID,
		})
		return nil, ErrSelfApply
	}

	if campaign.Status != model.CampaignStatusRecruiting {
		logger.Warn("Application rejected: campaign is not recruiting", map[string]interface{}{
			"campaign_id": campaignID,
			"status":      campaign.Status,
		})
		return nil, ErrCampaignNotRecruiting
	}

	// 취소된 신청만 재신청 가능
	existing, err := s.applicationRepo.FindActiveByCampaignAndUser(campaignID, influencerID)
	if err != nil {
		logger.Error("Failed to check existing application", err, map[string]interface{}{
			"campaign_id":   campaignID,
			"influencer_id": influencerID,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Application rejected: already applied", map[string]interface{}{
			"campaign_id":    campaignID,
			"influencer_id":  influencerID,
			"application_id": existing.ID,
		})
		return nil, ErrApplicationExists
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during application, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"campaign_id": campaignID,
			})
		}
	}()

	application := &model.CampaignApplication{
		CampaignID: campaignID,
		UserID:     influencerID,
		Status:     model.ApplicationStatusPending,
		Message:    message,
	}

	if err := tx.Create(application).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create application", err, map[string]interface{}{
			"campaign_id":   campaignID,
			"influencer_id": influencerID,
		})
		return nil, err
	}

	if err := s.adjustCounters(tx, campaignID, 1, 0); err != nil {
		tx.Rollback()
		logger.Error("Failed to increment applicant counter", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit application transaction", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	s.notify(&model.Notification{
		UserID:               campaign.UserID,
		Type:                 model.NotificationTypeNewApplication,
		Title:                "새 캠페인 신청",
		Content:              fmt.Sprintf("'%s' 캠페인에 새 신청이 도착했습니다.", campaign.Title),
		RelatedCampaignID:    &campaign.ID,
		RelatedApplicationID: &application.ID,
	})

	logger.Info("Application created successfully", map[string]interface{}{
		"application_id": application.ID,
		"campaign_id":    campaignID,
		"influencer_id":  influencerID,
	})

	return s.applicationRepo.FindByID(application.ID)
}

// Cancel 신청 취소 (소프트 취소). 상태 전이와 카운터 감소를 한 트랜잭션으로 처리
func (s *applicationService) Cancel(applicationID, callerID uint) (*model.CampaignApplication, error) {
	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		logger.Error("Failed to fetch application for cancel", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}

	if application.UserID != callerID {
		logger.Warn("Application cancel denied: not the applicant", map[string]interface{}{
			"application_id": applicationID,
			"caller_id":      callerID,
		})
		return nil, ErrNotApplicant
	}

	if application.Status == model.ApplicationStatusCancelled {
		return nil, ErrApplicationCancelled
	}

	oldStatus := application.Status

	applicantsDelta := 0
	confirmedDelta := 0
	if oldStatus.IsActive() {
		applicantsDelta = -1
	}
	if oldStatus.IsConfirmed() {
		confirmedDelta = -1
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during application cancel, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"application_id": applicationID,
			})
		}
	}()

	now := time.Now()
	if err := tx.Model(&model.CampaignApplication{}).
		Where("id = ?", applicationID).
		Updates(map[string]interface{}{
			"status":       model.ApplicationStatusCancelled,
			"cancelled_at": now,
		}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to cancel application", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}

	if err := s.adjustCounters(tx, application.CampaignID, applicantsDelta, confirmedDelta); err != nil {
		tx.Rollback()
		logger.Error("Failed to decrement applicant counters", err, map[string]interface{}{
			"campaign_id": application.CampaignID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit cancel transaction", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}

	logger.Info("Application cancelled", map[string]interface{}{
		"application_id": applicationID,
		"campaign_id":    application.CampaignID,
		"old_status":     oldStatus,
	})

	application.Status = model.ApplicationStatusCancelled
	application.CancelledAt = &now
	return application, nil
}

// ChangeStatus 광고주의 신청 상태 변경. 확정 카운터 변동분도 같은 트랜잭션에서 반영
func (s *applicationService) ChangeStatus(campaignID, applicationID, callerID uint, newStatus model.ApplicationStatus) (*model.CampaignApplication, error) {
	switch newStatus {
	case model.ApplicationStatusPending, model.ApplicationStatusApproved,
		model.ApplicationStatusRejected, model.ApplicationStatusConfirmed:
	default:
		return nil, ErrInvalidAppStatus
	}

	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	if campaign.UserID != callerID {
		logger.Warn("Status change denied: not the campaign owner", map[string]interface{}{
			"campaign_id": campaignID,
			"caller_id":   callerID,
		})
		return nil, ErrNotCampaignOwner
	}

	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if application.CampaignID != campaignID {
		return nil, ErrApplicationNotFound
	}

	if application.Status == model.ApplicationStatusCancelled {
		return nil, ErrApplicationCancelled
	}

	oldStatus := application.Status
	if oldStatus == newStatus {
		return application, nil
	}

	applicantsDelta := 0
	if oldStatus.IsActive() && !newStatus.IsActive() {
		applicantsDelta = -1
	} else if !oldStatus.IsActive() && newStatus.IsActive() {
		applicantsDelta = 1
	}

	confirmedDelta := 0
	if oldStatus.IsConfirmed() && !newStatus.IsConfirmed() {
		confirmedDelta = -1
	} else if !oldStatus.IsConfirmed() && newStatus.IsConfirmed() {
		confirmedDelta = 1
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during status change, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"application_id": applicationID,
			})
		}
	}()

	if err := tx.Model(&model.CampaignApplication{}).
		Where("id = ?", applicationID).
		Update("status", newStatus).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update application status", err, map[string]interface{}{
			"application_id": applicationID,
			"new_status":     newStatus,
		})
		return nil, err
	}

	if err := s.adjustCounters(tx, campaignID, applicantsDelta, confirmedDelta); err != nil {
		tx.Rollback()
		logger.Error("Failed to adjust campaign counters", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit status change transaction", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}

	s.notify(&model.Notification{
		UserID:               application.UserID,
		Type:                 model.NotificationTypeApplicationStatus,
		Title:                "신청 상태 변경",
		Content:              fmt.Sprintf("'%s' 캠페인 신청 상태가 '%s'(으)로 변경되었습니다.", campaign.Title, newStatus),
		RelatedCampaignID:    &campaign.ID,
		RelatedApplicationID: &application.ID,
	})

	logger.Info("Application status changed", map[string]interface{}{
		"application_id": applicationID,
		"campaign_id":    campaignID,
		"old_status":     oldStatus,
		"new_status":     newStatus,
	})

	application.Status = newStatus
	return application, nil
}

func (s *applicationService) GetCampaignApplications(campaignID, callerID uint, limit, offset int) ([]model.CampaignApplication, int64, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCampaignNotFound
		}
		return nil, 0, err
	}

	if campaign.UserID != callerID {
		return nil, 0, ErrNotCampaignOwner
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.applicationRepo.FindByCampaignID(campaignID, limit, offset)
}

func (s *applicationService) GetMyApplications(userID uint, limit, offset int) ([]model.CampaignApplication, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.applicationRepo.FindByUserID(userID, limit, offset)
}

// adjustCounters 캠페인 카운터 조정. 음수로 내려가지 않도록 0에서 자름
func (s *applicationService) adjustCounters(tx *gorm.DB, campaignID uint, applicantsDelta, confirmedDelta int) error {
	if applicantsDelta == 0 && confirmedDelta == 0 {
		return nil
	}

	var campaign model.Campaign
	if err := tx.First(&campaign, campaignID).Error; err != nil {
		return err
	}

	applicants := campaign.Applicants + applicantsDelta
	if applicants < 0 {
		applicants = 0
	}
	confirmed := campaign.ConfirmedApplicants + confirmedDelta
	if confirmed < 0 {
		confirmed = 0
	}

	return tx.Model(&model.Campaign{}).
		Where("id = ?", campaignID).
		Updates(map[string]interface{}{
			"applicants":           applicants,
			"confirmed_applicants": confirmed,
		}).Error
}

// notify 알림 저장 실패는 본 작업을 실패시키지 않음
func (s *applicationService) notify(notification *model.Notification) {
	if s.notificationRepo == nil {
		return
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Warn("Failed to create notification", map[string]interface{}{
			"user_id": notification.UserID,
			"type":    notification.Type,
		})
	}
}
