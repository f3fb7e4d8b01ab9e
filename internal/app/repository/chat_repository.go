package repository

import (
	"github.com/ohsj/linkple-backend/internal/app/model"

	"gorm.io/gorm"
)

type ChatRepository interface {
	// Chat operations
	Create(chat *model.Chat) error
	FindByID(id uint) (*model.Chat, error)
	FindByIDWithUsers(id uint) (*model.Chat, error)
	FindByTriple(influencerID, advertiserID, campaignID uint) (*model.Chat, error)
	FindByUserID(userID uint, limit, offset int) ([]model.Chat, int64, error)
	Update(chat *model.Chat) error
	ResetUnreadCount(chatID, userID uint) error

	// Message operations
	CreateMessage(message *model.Message) error
	FindMessageByID(id uint) (*model.Message, error)
	FindMessagesByChatID(chatID uint, limit, offset int) ([]model.Message, int64, error)
	MarkMessagesAsRead(chatID, readerID uint) error
	UnreadMessageCount(chatID, userID uint) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

func (r *chatRepository) FindByID(id uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindByIDWithUsers 채팅 조회 (참여자/캠페인 정보 포함)
func (r *chatRepository) FindByIDWithUsers(id uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.
		Preload("Influencer").
		Preload("Advertiser").
		Preload("Campaign").
		First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindByTriple (인플루언서, 광고주, 캠페인) 조합으로 기존 채팅 조회 (중복 생성 방지)
// 없으면 (nil, nil) 반환
func (r *chatRepository) FindByTriple(influencerID, advertiserID, campaignID uint) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.
		Where("influencer_id = ? AND advertiser_id = ? AND campaign_id = ?",
			influencerID, advertiserID, campaignID).
		First(&chat).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindByUserID 사용자가 참여 중인 채팅 목록 조회 (최신 메시지 순)
func (r *chatRepository) FindByUserID(userID uint, limit, offset int) ([]model.Chat, int64, error) {
	var chats []model.Chat
	var total int64

	query := r.db.Model(&model.Chat{}).
		Where("influencer_id = ? OR advertiser_id = ?", userID, userID).
		Preload("Influencer").
		Preload("Advertiser").
		Preload("Campaign")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("last_message_at DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&chats).Error; err != nil {
		return nil, 0, err
	}

	return chats, total, nil
}

func (r *chatRepository) Update(chat *model.Chat) error {
	return r.db.Save(chat).Error
}

// ResetUnreadCount 읽지 않은 메시지 수 초기화 (사용자 측 카운터만)
func (r *chatRepository) ResetUnreadCount(chatID, userID uint) error {
	var chat model.Chat
	if err := r.db.First(&chat, chatID).Error; err != nil {
		return err
	}

	field := ""
	if chat.InfluencerID == userID {
		field = "influencer_unread_count"
	} else if chat.AdvertiserID == userID {
		field = "advertiser_unread_count"
	} else {
		return nil
	}

	return r.db.Model(&model.Chat{}).
		Where("id = ?", chatID).
		Update(field, 0).Error
}

func (r *chatRepository) CreateMessage(message *model.Message) error {
	return r.db.Create(message).Error
}

func (r *chatRepository) FindMessageByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// FindMessagesByChatID 채팅의 메시지 목록 조회 (오래된 메시지부터)
func (r *chatRepository) FindMessagesByChatID(chatID uint, limit, offset int) ([]model.Message, int64, error) {
	var messages []model.Message
	var total int64

	query := r.db.Model(&model.Message{}).Where("chat_id = ?", chatID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MarkMessagesAsRead 상대방이 보낸 읽지 않은 메시지를 모두 읽음 처리
func (r *chatRepository) MarkMessagesAsRead(chatID, readerID uint) error {
	return r.db.Model(&model.Message{}).
		Where("chat_id = ? AND is_read = ? AND (sender_id IS NULL OR sender_id <> ?)",
			chatID, false, readerID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// UnreadMessageCount 사용자 기준 읽지 않은 메시지 수
func (r *chatRepository) UnreadMessageCount(chatID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("chat_id = ? AND is_read = ? AND (sender_id IS NULL OR sender_id <> ?)",
			chatID, false, userID).
		Count(&count).Error
	return count, err
}
