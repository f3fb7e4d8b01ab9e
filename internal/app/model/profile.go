package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// InfluencerProfile 인플루언서 상세 프로필
type InfluencerProfile struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"` // 사용자 ID (1:1)

	Bio           string         `gorm:"type:text" json:"bio"`                            // 자기 소개
	Categories    pq.StringArray `gorm:"type:text[];default:'{}'" json:"categories"`      // 활동 카테고리 (뷰티, 맛집 등)
	FollowerCount int            `gorm:"default:0" json:"follower_count"`                 // 팔로워 수
	Region        string         `json:"region"`                                          // 주 활동 지역
	PortfolioURL  string         `json:"portfolio_url,omitempty"`                         // 포트폴리오 링크

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (InfluencerProfile) TableName() string {
	return "influencer_profiles"
}

// AdvertiserProfile 광고주 상세 프로필
type AdvertiserProfile struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"` // 사용자 ID (1:1)

	CompanyName    string `gorm:"not null" json:"company_name"`        // 업체명
	BusinessNumber string `gorm:"index" json:"business_number"`        // 사업자 등록번호
	ContactName    string `json:"contact_name"`                        // 담당자 이름
	ContactPhone   string `json:"contact_phone"`                       // 담당자 연락처
	Address        string `json:"address"`                             // 사업장 주소
	Introduction   string `gorm:"type:text" json:"introduction"`       // 업체 소개

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AdvertiserProfile) TableName() string {
	return "advertiser_profiles"
}
