package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CampaignStatus string // 캠페인 모집 상태

const (
	CampaignStatusRecruiting CampaignStatus = "구인 진행 중" // 모집 중
	CampaignStatusClosed     CampaignStatus = "구인 마감"   // 모집 마감
	CampaignStatusPrivate    CampaignStatus = "비공개 글"   // 비공개
)

type RewardType string // 보상 유형

const (
	RewardTypePayment RewardType = "payment" // 원고료 지급
	RewardTypeProduct RewardType = "product" // 제품/서비스 제공
	RewardTypeBoth    RewardType = "both"    // 원고료 + 제품
)

// Campaign 광고주가 등록하는 협찬 캠페인
type Campaign struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"` // 캠페인 소유 광고주 ID
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`

	Title    string         `gorm:"not null" json:"title"`                                    // 제목
	Category string         `gorm:"not null;index" json:"category"`                           // 카테고리 (맛집, 뷰티 등)
	Status   CampaignStatus `gorm:"type:varchar(20);default:'구인 진행 중';index" json:"status"`  // 모집 상태

	// 모집 정보
	RecruitCount   int        `gorm:"default:1" json:"recruit_count"`          // 모집 인원
	RecruitEndDate *time.Time `gorm:"index" json:"recruit_end_date,omitempty"` // 모집 마감일

	// 신청자 카운터 (신청/취소/확정 시 트랜잭션 안에서 조정, 0 미만 불가)
	Applicants          int `gorm:"default:0" json:"applicants"`           // 활성 신청 수
	ConfirmedApplicants int `gorm:"default:0" json:"confirmed_applicants"` // 협업 확정 수

	// 보상 정보
	RewardType    RewardType `gorm:"type:varchar(20)" json:"reward_type"`  // 보상 유형
	PaymentAmount int        `gorm:"default:0" json:"payment_amount"`      // 원고료 (원)
	ProductValue  int        `gorm:"default:0" json:"product_value"`       // 제공 제품/서비스 가액 (원)

	// 콘텐츠 정보
	Description  string         `gorm:"type:text" json:"description"`               // 상세 설명
	Requirements string         `gorm:"type:text" json:"requirements"`              // 콘텐츠 요구사항
	Hashtags     pq.StringArray `gorm:"type:text[];default:'{}'" json:"hashtags"`   // 필수 해시태그
	VisitType    string         `gorm:"type:varchar(20);index" json:"visit_type"`   // 방문형 / 배송형 / 기자단
	Location     string         `json:"location"`                                   // 방문형일 때 주소
	ThumbnailURL string         `json:"thumbnail_url"`                              // 대표 이미지 URL

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignDraft 광고주별 작성 중 캠페인 임시 저장본 (광고주당 1건, upsert)
type CampaignDraft struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	UserID  uint   `gorm:"not null;uniqueIndex" json:"user_id"` // 광고주 ID
	Payload string `gorm:"type:text;not null" json:"payload"`   // 작성 중 내용 (JSON)

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CampaignDraft) TableName() string {
	return "campaign_drafts"
}

// FavoriteCampaign 캠페인 찜
type FavoriteCampaign struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_fav_user_campaign,unique" json:"user_id"`     // 사용자 ID
	CampaignID uint      `gorm:"not null;index:idx_fav_user_campaign,unique" json:"campaign_id"` // 캠페인 ID
	CreatedAt  time.Time `json:"created_at"`

	Campaign Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"` // 캠페인 정보
}

func (FavoriteCampaign) TableName() string {
	return "favorite_campaigns"
}
