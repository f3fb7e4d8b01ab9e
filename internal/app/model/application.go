package model

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string // 캠페인 신청 상태

const (
	ApplicationStatusPending   ApplicationStatus = "검토 중"   // 광고주 검토 대기
	ApplicationStatusApproved  ApplicationStatus = "승인"     // 1차 승인
	ApplicationStatusRejected  ApplicationStatus = "거절"     // 거절
	ApplicationStatusConfirmed ApplicationStatus = "협업 확정" // 협업 확정
	ApplicationStatusCancelled ApplicationStatus = "취소"     // 인플루언서 취소 (소프트 취소)
)

// IsActive 활성 상태 여부 (campaigns.applicants 카운터에 포함되는 상태)
func (s ApplicationStatus) IsActive() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusApproved || s == ApplicationStatusConfirmed
}

// IsConfirmed 협업 확정 여부 (campaigns.confirmed_applicants 카운터에 포함되는 상태)
func (s ApplicationStatus) IsConfirmed() bool {
	return s == ApplicationStatusConfirmed
}

// IsTerminal 종료 상태 여부 (거절/취소)
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusRejected || s == ApplicationStatusCancelled
}

// CampaignApplication 인플루언서의 캠페인 신청
// 동일 (인플루언서, 캠페인) 쌍에 취소되지 않은 신청은 최대 1건
type CampaignApplication struct {
	ID         uint `gorm:"primarykey" json:"id"`
	CampaignID uint `gorm:"not null;index:idx_app_campaign_user,priority:1;index" json:"campaign_id"` // 캠페인 ID
	UserID     uint `gorm:"not null;index:idx_app_campaign_user,priority:2;index" json:"user_id"`     // 신청 인플루언서 ID

	Campaign Campaign `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"campaign,omitempty"`
	User     User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`

	Status  ApplicationStatus `gorm:"type:varchar(20);default:'검토 중';index" json:"status"` // 신청 상태
	Message string            `gorm:"type:text" json:"message"`                             // 신청 메시지

	CancelledAt *time.Time `json:"cancelled_at,omitempty"` // 취소 시각

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CampaignApplication) TableName() string {
	return "campaign_applications"
}
