package model

import (
	"time"

	"gorm.io/gorm"
)

type ChatStatus string // 채팅 상태

const (
	ChatStatusPending  ChatStatus = "pending"  // 광고주 수락 대기 (인플루언서 제안)
	ChatStatusActive   ChatStatus = "active"   // 진행 중
	ChatStatusRejected ChatStatus = "rejected" // 광고주 거절
)

type ChatInitiator string // 채팅 개설 주체

const (
	InitiatedByInfluencer ChatInitiator = "influencer"
	InitiatedByAdvertiser ChatInitiator = "advertiser"
)

// Chat 캠페인 단위 1:1 협상 채팅
// (인플루언서, 광고주, 캠페인) 조합당 1건만 존재
type Chat struct {
	ID uint `gorm:"primarykey" json:"id"`

	InfluencerID uint `gorm:"not null;index:idx_chat_triple,priority:1;index" json:"influencer_id"` // 인플루언서 ID
	AdvertiserID uint `gorm:"not null;index:idx_chat_triple,priority:2;index" json:"advertiser_id"` // 광고주 ID
	CampaignID   uint `gorm:"not null;index:idx_chat_triple,priority:3;index" json:"campaign_id"`   // 캠페인 ID

	Influencer User     `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"`
	Advertiser User     `gorm:"foreignKey:AdvertiserID" json:"advertiser,omitempty"`
	Campaign   Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`

	Status      ChatStatus    `gorm:"type:varchar(10);default:'pending';index" json:"status"` // 상태
	InitiatedBy ChatInitiator `gorm:"type:varchar(10);not null" json:"initiated_by"`          // 개설 주체

	// 협업 진행 여부 (status == active 일 때만 true)
	IsActiveCollaboration bool `gorm:"default:false" json:"is_active_collaboration"`

	// 마지막 메시지 정보 (채팅 목록 정렬/미리보기용)
	LastMessageID      *uint      `json:"last_message_id,omitempty"`
	LastMessageContent string     `gorm:"type:text" json:"last_message_content,omitempty"`
	LastMessageAt      *time.Time `gorm:"index" json:"last_message_at,omitempty"`

	// 읽지 않은 메시지 수 (참여자별)
	InfluencerUnreadCount int `gorm:"default:0" json:"influencer_unread_count"`
	AdvertiserUnreadCount int `gorm:"default:0" json:"advertiser_unread_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Messages []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

func (Chat) TableName() string {
	return "chats"
}

// IsParticipant 해당 사용자가 채팅 참여자인지 확인
func (c *Chat) IsParticipant(userID uint) bool {
	return c.InfluencerID == userID || c.AdvertiserID == userID
}

// SenderTypeOf 참여자의 발신자 타입 계산
func (c *Chat) SenderTypeOf(userID uint) SenderType {
	if c.InfluencerID == userID {
		return SenderInfluencer
	}
	return SenderAdvertiser
}

type SenderType string // 메시지 발신자 타입

const (
	SenderInfluencer SenderType = "influencer"
	SenderAdvertiser SenderType = "advertiser"
	SenderSystem     SenderType = "system"
)

type MessageType string // 메시지 타입

const (
	MessageTypeText         MessageType = "text"          // 일반 텍스트
	MessageTypeSystem       MessageType = "system"        // 시스템 안내
	MessageTypeCampaignCard MessageType = "campaign_card" // 캠페인 카드 (광고주 초대)
	MessageTypeProfileCard  MessageType = "profile_card"  // 프로필 카드 (인플루언서 제안)
	MessageTypeProposal     MessageType = "proposal"      // 제안 메시지
)

// Message 채팅 메시지
type Message struct {
	ID     uint `gorm:"primarykey" json:"id"`
	ChatID uint `gorm:"not null;index:idx_msg_chat_created,priority:1;index" json:"chat_id"`
	Chat   Chat `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	SenderID   *uint      `gorm:"index" json:"sender_id,omitempty"` // 시스템 메시지는 nil
	SenderType SenderType `gorm:"type:varchar(10);not null" json:"sender_type"`

	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);default:'text'" json:"message_type"`
	Metadata    string      `gorm:"type:text" json:"metadata,omitempty"` // 구조화 페이로드 (JSON, 카드/제안용)

	IsRead bool       `gorm:"default:false;index" json:"is_read"` // 읽음 여부
	ReadAt *time.Time `json:"read_at,omitempty"`

	IsDeleted bool  `gorm:"default:false" json:"is_deleted"` // 소프트 삭제 여부
	DeletedBy *uint `json:"deleted_by,omitempty"`            // 삭제한 사용자 ID

	CreatedAt time.Time      `gorm:"index:idx_msg_chat_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// ChatWithUnread 채팅 + 현재 사용자의 읽지 않은 메시지 수
type ChatWithUnread struct {
	Chat
	UnreadCount int `json:"unread_count"` // 현재 사용자의 읽지 않은 메시지 수
}
