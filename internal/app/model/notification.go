package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeNewApplication    NotificationType = "new_application"    // 내 캠페인에 새 신청
	NotificationTypeApplicationStatus NotificationType = "application_status" // 내 신청 상태 변경
	NotificationTypeChatInvite        NotificationType = "chat_invite"        // 광고주 협업 제안
	NotificationTypeChatProposal      NotificationType = "chat_proposal"      // 인플루언서 제안 도착
	NotificationTypeChatDecision      NotificationType = "chat_decision"      // 제안 수락/거절 결과
)

// Notification 알림 모델 (푸시/이메일 발송은 외부 시스템 담당)
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 알림 받을 사용자
	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`

	// 알림 내용
	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Link    string `gorm:"type:text" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// 관련 데이터 (nullable)
	RelatedCampaignID    *uint `gorm:"index" json:"related_campaign_id,omitempty"`
	RelatedApplicationID *uint `gorm:"index" json:"related_application_id,omitempty"`
	RelatedChatID        *uint `gorm:"index" json:"related_chat_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
