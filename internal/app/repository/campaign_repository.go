package repository

import (
	"time"

	"github.com/ohsj/linkple-backend/internal/app/model"

	"gorm.io/gorm"
)

// CampaignFilter 캠페인 목록 조회 필터 (정확히 일치하는 조건만 지원)
type CampaignFilter struct {
	Status         string
	Category       string
	VisitType      string
	OwnerID        uint
	ExcludePrivate bool // 비공개 글 제외 (소유자가 아닌 조회)
	Offset         int
	Limit          int
}

type CampaignRepository interface {
	Create(campaign *model.Campaign) error
	BulkCreate(campaigns []model.Campaign, batchSize int) error
	FindByID(id uint) (*model.Campaign, error)
	FindAll(filter CampaignFilter) ([]model.Campaign, int64, error)
	Update(campaign *model.Campaign) error
	UpdateStatus(id uint, status model.CampaignStatus) error
	CloseExpired(now time.Time) (int64, error)

	SaveDraft(draft *model.CampaignDraft) error
	FindDraftByUserID(userID uint) (*model.CampaignDraft, error)
	DeleteDraft(userID uint) error
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(campaign *model.Campaign) error {
	return r.db.Create(campaign).Error
}

// BulkCreate 대량 등록 (시드 도구에서 사용)
func (r *campaignRepository) BulkCreate(campaigns []model.Campaign, batchSize int) error {
	return r.db.CreateInBatches(campaigns, batchSize).Error
}

func (r *campaignRepository) FindByID(id uint) (*model.Campaign, error) {
	var campaign model.Campaign
	if err := r.db.Preload("User").First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindAll 캠페인 목록 조회 (필터 + 페이지네이션, 최신순)
func (r *campaignRepository) FindAll(filter CampaignFilter) ([]model.Campaign, int64, error) {
	var campaigns []model.Campaign
	var total int64

	query := r.db.Model(&model.Campaign{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.VisitType != "" {
		query = query.Where("visit_type = ?", filter.VisitType)
	}
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	if filter.ExcludePrivate {
		query = query.Where("status <> ?", model.CampaignStatusPrivate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *campaignRepository) Update(campaign *model.Campaign) error {
	return r.db.Save(campaign).Error
}

func (r *campaignRepository) UpdateStatus(id uint, status model.CampaignStatus) error {
	return r.db.Model(&model.Campaign{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CloseExpired 모집 마감일이 지난 모집 중 캠페인을 일괄 마감 (스케줄러용)
func (r *campaignRepository) CloseExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Campaign{}).
		Where("status = ? AND recruit_end_date IS NOT NULL AND recruit_end_date < ?",
			model.CampaignStatusRecruiting, now).
		Update("status", model.CampaignStatusClosed)
	return result.RowsAffected, result.Error
}

// SaveDraft 임시 저장본 저장 (광고주당 1건, 있으면 덮어씀)
func (r *campaignRepository) SaveDraft(draft *model.CampaignDraft) error {
	var existing model.CampaignDraft
	err := r.db.Where("user_id = ?", draft.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(draft).Error
	}
	if err != nil {
		return err
	}

	existing.Payload = draft.Payload
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	draft.ID = existing.ID
	return nil
}

func (r *campaignRepository) FindDraftByUserID(userID uint) (*model.CampaignDraft, error) {
	var draft model.CampaignDraft
	if err := r.db.Where("user_id = ?", userID).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *campaignRepository) DeleteDraft(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.CampaignDraft{}).Error
}
