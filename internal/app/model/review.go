package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Review 광고주가 협업한 인플루언서에게 남기는 리뷰
// 동일 (광고주, 인플루언서, 캠페인) 조합당 1건
type Review struct {
	ID uint `gorm:"primarykey" json:"id"`

	CampaignID   uint `gorm:"not null;index:idx_review_triple,priority:1" json:"campaign_id"`       // 캠페인 ID
	AdvertiserID uint `gorm:"not null;index:idx_review_triple,priority:2" json:"advertiser_id"`     // 작성 광고주 ID
	InfluencerID uint `gorm:"not null;index:idx_review_triple,priority:3;index" json:"influencer_id"` // 대상 인플루언서 ID

	Campaign   Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	Advertiser User     `gorm:"foreignKey:AdvertiserID" json:"advertiser,omitempty"`
	Influencer User     `gorm:"foreignKey:InfluencerID" json:"-"`

	Rating    int            `gorm:"not null" json:"rating"`                  // 평점 (1-5)
	Content   string         `gorm:"type:text" json:"content"`                // 리뷰 내용
	Tags      pq.StringArray `gorm:"type:text[];default:'{}'" json:"tags"`    // 태그 (소통이 잘돼요 등)
	IsVisible bool           `gorm:"default:true;index" json:"is_visible"`    // 공개 여부

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewStats 인플루언서 리뷰 통계
type ReviewStats struct {
	TotalReviews  int64       `json:"total_reviews"`  // 전체 리뷰 수
	AverageRating float64     `json:"average_rating"` // 평균 평점 (소수점 1자리)
	Histogram     map[int]int `json:"histogram"`      // 평점별 개수 (1~5 고정)
	TopTags       []TagCount  `json:"top_tags"`       // 상위 5개 태그
}

// TagCount 태그별 출현 횟수
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
