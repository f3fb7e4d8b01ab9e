package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 역할 타입

const (
	RoleInfluencer UserRole = "INFLUENCER" // 인플루언서
	RoleAdvertiser UserRole = "ADVERTISER" // 광고주
	RoleUnset      UserRole = ""           // 역할 미선택 (가입 직후)
)

type ApprovalStatus string // 가입 승인 상태

const (
	ApprovalPending  ApprovalStatus = "pending"  // 승인 대기
	ApprovalApproved ApprovalStatus = "approved" // 승인 완료
	ApprovalRejected ApprovalStatus = "rejected" // 승인 거절
)

type User struct {
	ID             uint           `gorm:"primarykey" json:"id"`                             // 사용자 ID
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`                // 이메일
	PasswordHash   string         `gorm:"not null" json:"-"`                                // 비밀번호 해시
	Name           string         `gorm:"not null" json:"name"`                             // 이름
	Nickname       string         `gorm:"uniqueIndex;not null" json:"nickname"`             // 닉네임 (자동 생성, 수정 가능)
	Phone          string         `json:"phone"`                                            // 전화번호 (숫자만)
	ProfileImage   string         `json:"profile_image"`                                    // 프로필 이미지 URL
	Role           UserRole       `gorm:"type:varchar(20);default:'';index" json:"role"`    // 역할 (가입 후 1회 선택)
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);default:'pending'" json:"approval_status"` // 승인 상태
	IsAdmin        bool           `gorm:"default:false" json:"is_admin"`                    // 관리자 여부

	// 소셜 계정 연동 (인플루언서 인증용)
	SocialProvider string `gorm:"type:varchar(30)" json:"social_provider,omitempty"` // instagram, youtube 등
	SocialHandle   string `json:"social_handle,omitempty"`                           // 소셜 계정 핸들
	IsVerified     bool   `gorm:"default:false" json:"is_verified"`                  // 소셜 계정 인증 여부

	// 리뷰 집계 (리뷰 생성/수정/삭제 시 재계산)
	AverageRating float64 `gorm:"default:0" json:"average_rating"` // 평균 평점 (소수점 1자리)
	TotalReviews  int     `gorm:"default:0" json:"total_reviews"`  // 받은 리뷰 수

	CreatedAt time.Time      `json:"created_at"` // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"` // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)

	InfluencerProfile *InfluencerProfile `gorm:"foreignKey:UserID" json:"influencer_profile,omitempty"` // 인플루언서 프로필
	AdvertiserProfile *AdvertiserProfile `gorm:"foreignKey:UserID" json:"advertiser_profile,omitempty"` // 광고주 프로필
}

func (User) TableName() string {
	return "users"
}
