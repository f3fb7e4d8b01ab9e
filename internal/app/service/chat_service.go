package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/websocket"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"github.com/ohsj/linkple-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrChatNotFound      = errors.New("chat not found")
	ErrNotParticipant    = errors.New("not a chat participant")
	ErrSelfChat          = errors.New("cannot chat with yourself")
	ErrChatNotPending    = errors.New("chat is not pending")
	ErrChatStatusLocked  = errors.New("chat status cannot be changed")
	ErrInvalidChatStatus = errors.New("invalid chat status")
	ErrMessageNotFound   = errors.New("message not found")
	ErrNotMessageSender  = errors.New("not the message sender")
	ErrMessageDeleted    = errors.New("message already deleted")
)

// ChatExistsError 같은 (인플루언서, 광고주, 캠페인) 조합의 채팅이 이미 존재.
// 클라이언트가 기존 채팅으로 이동할 수 있도록 ID를 담아 반환
type ChatExistsError struct {
	ChatID uint
}

func (e *ChatExistsError) Error() string {
	return fmt.Sprintf("chat already exists: %d", e.ChatID)
}

type ChatService interface {
	FindOrCreateChat(influencerID, campaignID uint) (*model.Chat, bool, error)
	Invite(advertiserID, influencerID, campaignID uint, message string) (*model.Chat, error)
	Propose(influencerID, campaignID uint, message string) (*model.Chat, error)
	UpdateChatStatus(chatID, callerID uint, newStatus model.ChatStatus) (*model.Chat, error)
	GetUserChats(userID uint, page, pageSize int) ([]model.ChatWithUnread, int64, error)
	GetChat(chatID, userID uint) (*model.Chat, error)

	SendMessage(chatID, senderID uint, content string, messageType model.MessageType, metadata string) (*model.Message, error)
	GetChatMessages(chatID, userID uint, page, pageSize int) ([]model.Message, int64, error)
	MarkChatAsRead(chatID, userID uint) error
	DeleteMessage(messageID, userID uint) error

	GetTypingUsers(ctx context.Context, chatID, userID uint) ([]uint, error)

	JoinChat(userID, chatID uint) error
	LeaveChat(userID, chatID uint)
}

type chatService struct {
	db               *gorm.DB
	chatRepo         repository.ChatRepository
	campaignRepo     repository.CampaignRepository
	notificationRepo repository.NotificationRepository
	hub              *websocket.Hub
}

func NewChatService(
	db *gorm.DB,
	chatRepo repository.ChatRepository,
	campaignRepo repository.CampaignRepository,
	notificationRepo repository.NotificationRepository,
	hub *websocket.Hub,
) ChatService {
	return &chatService{
		db:               db,
		chatRepo:         chatRepo,
		campaignRepo:     campaignRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// FindOrCreateChat 인플루언서가 캠페인 광고주와의 채팅을 조회하거나 새로 연다.
// 같은 조합이면 항상 기존 채팅을 반환 (멱등)
func (s *chatService) FindOrCreateChat(influencerID, campaignID uint) (*model.Chat, bool, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrCampaignNotFound
		}
		return nil, false, err
	}

	if campaign.UserID == influencerID {
		return nil, false, ErrSelfChat
	}

	existing, err := s.chatRepo.FindByTriple(influencerID, campaign.UserID, campaignID)
	if err != nil {
		logger.Error("Failed to look up existing chat", err, map[string]interface{}{
			"influencer_id": influencerID,
			"campaign_id":   campaignID,
		})
		return nil, false, err
	}
	if existing != nil {
		chat, err := s.chatRepo.FindByIDWithUsers(existing.ID)
		if err != nil {
			return nil, false, err
		}
		return chat, false, nil
	}

	newChat := &model.Chat{
		InfluencerID: influencerID,
		AdvertiserID: campaign.UserID,
		CampaignID:   campaignID,
		Status:       model.ChatStatusPending,
		InitiatedBy:  model.InitiatedByInfluencer,
	}

	if err := s.chatRepo.Create(newChat); err != nil {
		logger.Error("Failed to create chat", err, map[string]interface{}{
			"influencer_id": influencerID,
			"campaign_id":   campaignID,
		})
		return nil, false, err
	}

	logger.Info("Chat created", map[string]interface{}{
		"chat_id":       newChat.ID,
		"influencer_id": influencerID,
		"campaign_id":   campaignID,
	})

	chat, err := s.chatRepo.FindByIDWithUsers(newChat.ID)
	if err != nil {
		return nil, false, err
	}
	return chat, true, nil
}

// Invite 광고주가 인플루언서에게 협업을 제안하며 채팅을 연다.
// 바로 active 상태로 시작하고 캠페인 카드를 첫 메시지로 남김
func (s *chatService) Invite(advertiserID, influencerID, campaignID uint, message string) (*model.Chat, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	if campaign.UserID != advertiserID {
		return nil, ErrNotCampaignOwner
	}

	if influencerID == advertiserID {
		return nil, ErrSelfChat
	}

	existing, err := s.chatRepo.FindByTriple(influencerID, advertiserID, campaignID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Invite rejected: chat already exists", map[string]interface{}{
			"chat_id":       existing.ID,
			"advertiser_id": advertiserID,
			"influencer_id": influencerID,
		})
		return nil, &ChatExistsError{ChatID: existing.ID}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during chat invite, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"campaign_id": campaignID,
			})
		}
	}()

	chat := &model.Chat{
		InfluencerID:          influencerID,
		AdvertiserID:          advertiserID,
		CampaignID:            campaignID,
		Status:                model.ChatStatusActive,
		InitiatedBy:           model.InitiatedByAdvertiser,
		IsActiveCollaboration: true,
	}

	if err := tx.Create(chat).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create invite chat", err, map[string]interface{}{
			"advertiser_id": advertiserID,
			"influencer_id": influencerID,
			"campaign_id":   campaignID,
		})
		return nil, err
	}

	// 어떤 캠페인에 대한 제안인지 보여주는 캠페인 카드
	cardMeta, _ := json.Marshal(map[string]interface{}{
		"campaign_id":   campaign.ID,
		"title":         campaign.Title,
		"category":      campaign.Category,
		"thumbnail_url": campaign.ThumbnailURL,
	})

	card := &model.Message{
		ChatID:      chat.ID,
		SenderType:  model.SenderSystem,
		Content:     fmt.Sprintf("'%s' 캠페인 협업 제안이 도착했습니다.", campaign.Title),
		MessageType: model.MessageTypeCampaignCard,
		Metadata:    string(cardMeta),
	}
	if err := s.appendMessageTx(tx, chat, card); err != nil {
		tx.Rollback()
		return nil, err
	}

	if message != "" {
		opening := &model.Message{
			ChatID:      chat.ID,
			SenderID:    &advertiserID,
			SenderType:  model.SenderAdvertiser,
			Content:     message,
			MessageType: model.MessageTypeText,
		}
		if err := s.appendMessageTx(tx, chat, opening); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit invite transaction", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	s.notify(&model.Notification{
		UserID:            influencerID,
		Type:              model.NotificationTypeChatInvite,
		Title:             "협업 제안 도착",
		Content:           fmt.Sprintf("'%s' 캠페인 협업 제안이 도착했습니다.", campaign.Title),
		RelatedCampaignID: &campaign.ID,
		RelatedChatID:     &chat.ID,
	})

	logger.Info("Invite chat created", map[string]interface{}{
		"chat_id":       chat.ID,
		"advertiser_id": advertiserID,
		"influencer_id": influencerID,
		"campaign_id":   campaignID,
	})

	return s.chatRepo.FindByIDWithUsers(chat.ID)
}

// Propose 인플루언서가 캠페인에 협업을 제안하며 채팅을 연다.
// pending 상태로 시작하고 프로필 카드 + 제안 메시지를 남김
func (s *chatService) Propose(influencerID, campaignID uint, message string) (*model.Chat, error) {
	campaign, err := s.campaignRepo.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	if campaign.UserID == influencerID {
		return nil, ErrSelfChat
	}

	existing, err := s.chatRepo.FindByTriple(influencerID, campaign.UserID, campaignID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Proposal rejected: chat already exists", map[string]interface{}{
			"chat_id":       existing.ID,
			"influencer_id": influencerID,
			"campaign_id":   campaignID,
		})
		return nil, &ChatExistsError{ChatID: existing.ID}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during chat proposal, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"campaign_id": campaignID,
			})
		}
	}()

	chat := &model.Chat{
		InfluencerID: influencerID,
		AdvertiserID: campaign.UserID,
		CampaignID:   campaignID,
		Status:       model.ChatStatusPending,
		InitiatedBy:  model.InitiatedByInfluencer,
	}

	if err := tx.Create(chat).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create proposal chat", err, map[string]interface{}{
			"influencer_id": influencerID,
			"campaign_id":   campaignID,
		})
		return nil, err
	}

	// 누가 제안했는지 보여주는 프로필 카드
	cardMeta, _ := json.Marshal(map[string]interface{}{
		"influencer_id": influencerID,
	})

	card := &model.Message{
		ChatID:      chat.ID,
		SenderType:  model.SenderSystem,
		Content:     "인플루언서의 협업 제안이 도착했습니다.",
		MessageType: model.MessageTypeProfileCard,
		Metadata:    string(cardMeta),
	}
	if err := s.appendMessageTx(tx, chat, card); err != nil {
		tx.Rollback()
		return nil, err
	}

	proposal := &model.Message{
		ChatID:      chat.ID,
		SenderID:    &influencerID,
		SenderType:  model.SenderInfluencer,
		Content:     message,
		MessageType: model.MessageTypeProposal,
	}
	if err := s.appendMessageTx(tx, chat, proposal); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit proposal transaction", err, map[string]interface{}{
			"campaign_id": campaignID,
		})
		return nil, err
	}

	s.notify(&model.Notification{
		UserID:            campaign.UserID,
		Type:              model.NotificationTypeChatProposal,
		Title:             "협업 제안 도착",
		Content:           fmt.Sprintf("'%s' 캠페인에 인플루언서의 제안이 도착했습니다.", campaign.Title),
		RelatedCampaignID: &campaign.ID,
		RelatedChatID:     &chat.ID,
	})

	logger.Info("Proposal chat created", map[string]interface{}{
		"chat_id":       chat.ID,
		"influencer_id": influencerID,
		"campaign_id":   campaignID,
	})

	return s.chatRepo.FindByIDWithUsers(chat.ID)
}

// UpdateChatStatus 인플루언서가 연 채팅에 대한 광고주의 수락/거절.
// 광고주가 연 채팅은 상태 변경 불가
func (s *chatService) UpdateChatStatus(chatID, callerID uint, newStatus model.ChatStatus) (*model.Chat, error) {
	if newStatus != model.ChatStatusActive && newStatus != model.ChatStatusRejected {
		return nil, ErrInvalidChatStatus
	}

	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	if chat.InitiatedBy != model.InitiatedByInfluencer {
		logger.Warn("Chat status change rejected: advertiser-initiated chat", map[string]interface{}{
			"chat_id": chatID,
		})
		return nil, ErrChatStatusLocked
	}

	if chat.AdvertiserID != callerID {
		return nil, ErrNotParticipant
	}

	if chat.Status != model.ChatStatusPending {
		return nil, ErrChatNotPending
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during chat status change, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"chat_id": chatID,
			})
		}
	}()

	isActive := newStatus == model.ChatStatusActive
	if err := tx.Model(&model.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{
			"status":                  newStatus,
			"is_active_collaboration": isActive,
		}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update chat status", err, map[string]interface{}{
			"chat_id":    chatID,
			"new_status": newStatus,
		})
		return nil, err
	}

	announcement := "협업 제안이 수락되었습니다. 대화를 시작해 보세요."
	if !isActive {
		announcement = "협업 제안이 거절되었습니다."
	}

	system := &model.Message{
		ChatID:      chatID,
		SenderType:  model.SenderSystem,
		Content:     announcement,
		MessageType: model.MessageTypeSystem,
	}
	chat.Status = newStatus
	chat.IsActiveCollaboration = isActive
	if err := s.appendMessageTx(tx, chat, system); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit chat status transaction", err, map[string]interface{}{
			"chat_id": chatID,
		})
		return nil, err
	}

	s.notify(&model.Notification{
		UserID:        chat.InfluencerID,
		Type:          model.NotificationTypeChatDecision,
		Title:         "제안 결과 도착",
		Content:       announcement,
		RelatedChatID: &chat.ID,
	})

	// 채팅에 접속 중인 참여자에게 실시간 알림
	s.hub.SendToChat(chatID, map[string]interface{}{
		"type":    "chat_status",
		"chat_id": chatID,
		"status":  newStatus,
	}, callerID)

	logger.Info("Chat status updated", map[string]interface{}{
		"chat_id":    chatID,
		"new_status": newStatus,
	})

	return s.chatRepo.FindByIDWithUsers(chatID)
}

// GetUserChats 참여 중인 채팅 목록 (각 채팅에 본인 기준 안 읽은 수 포함)
func (s *chatService) GetUserChats(userID uint, page, pageSize int) ([]model.ChatWithUnread, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	chats, total, err := s.chatRepo.FindByUserID(userID, pageSize, offset)
	if err != nil {
		logger.Error("Failed to fetch user chats", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	result := make([]model.ChatWithUnread, len(chats))
	for i, chat := range chats {
		result[i] = model.ChatWithUnread{Chat: chat}
		if chat.InfluencerID == userID {
			result[i].UnreadCount = chat.InfluencerUnreadCount
		} else {
			result[i].UnreadCount = chat.AdvertiserUnreadCount
		}
	}

	return result, total, nil
}

// GetChat 채팅 조회 (참여자 검증 포함)
func (s *chatService) GetChat(chatID, userID uint) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByIDWithUsers(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	if !chat.IsParticipant(userID) {
		logger.Warn("Chat access denied", map[string]interface{}{
			"chat_id": chatID,
			"user_id": userID,
		})
		return nil, ErrNotParticipant
	}

	return chat, nil
}

// SendMessage 메시지 전송. 메시지 저장, 마지막 메시지 갱신,
// 수신자 안 읽은 수 증가를 한 트랜잭션으로 처리한 뒤 WebSocket으로 전파
func (s *chatService) SendMessage(chatID, senderID uint, content string, messageType model.MessageType, metadata string) (*model.Message, error) {
	chat, err := s.GetChat(chatID, senderID)
	if err != nil {
		return nil, err
	}

	if messageType == "" {
		messageType = model.MessageTypeText
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during message send, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"chat_id": chatID,
			})
		}
	}()

	message := &model.Message{
		ChatID:      chatID,
		SenderID:    &senderID,
		SenderType:  chat.SenderTypeOf(senderID),
		Content:     content,
		MessageType: messageType,
		Metadata:    metadata,
	}

	if err := s.appendMessageTx(tx, chat, message); err != nil {
		tx.Rollback()
		logger.Error("Failed to send message", err, map[string]interface{}{
			"chat_id":   chatID,
			"sender_id": senderID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit message transaction", err, map[string]interface{}{
			"chat_id": chatID,
		})
		return nil, err
	}

	created, err := s.chatRepo.FindMessageByID(message.ID)
	if err != nil {
		return nil, err
	}

	// 트랜잭션 밖에서 실시간 전파 (실패해도 본 작업에 영향 없음)
	s.hub.SendToChat(chatID, map[string]interface{}{
		"type":    "new_message",
		"message": created,
	}, senderID)

	return created, nil
}

func (s *chatService) GetChatMessages(chatID, userID uint, page, pageSize int) ([]model.Message, int64, error) {
	if _, err := s.GetChat(chatID, userID); err != nil {
		return nil, 0, err
	}

	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	messages, total, err := s.chatRepo.FindMessagesByChatID(chatID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	// 삭제된 메시지는 내용을 비워서 반환
	for i := range messages {
		if messages[i].IsDeleted {
			messages[i].Content = "삭제된 메시지입니다."
			messages[i].Metadata = ""
		}
	}

	return messages, total, nil
}

// MarkChatAsRead 채팅 읽음 처리 (메시지 읽음 + 안 읽은 수 초기화)
func (s *chatService) MarkChatAsRead(chatID, userID uint) error {
	if _, err := s.GetChat(chatID, userID); err != nil {
		return err
	}

	if err := s.chatRepo.MarkMessagesAsRead(chatID, userID); err != nil {
		logger.Error("Failed to mark messages as read", err, map[string]interface{}{
			"chat_id": chatID,
			"user_id": userID,
		})
		return err
	}

	if err := s.chatRepo.ResetUnreadCount(chatID, userID); err != nil {
		logger.Error("Failed to reset unread count", err, map[string]interface{}{
			"chat_id": chatID,
			"user_id": userID,
		})
		return err
	}

	// 상대방에게 읽음 이벤트 전파
	s.hub.SendToChat(chatID, map[string]interface{}{
		"type":    "read",
		"chat_id": chatID,
		"user_id": userID,
	}, userID)

	return nil
}

// DeleteMessage 메시지 소프트 삭제 (발신자만 가능)
func (s *chatService) DeleteMessage(messageID, userID uint) error {
	message, err := s.chatRepo.FindMessageByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	if message.SenderID == nil || *message.SenderID != userID {
		return ErrNotMessageSender
	}

	if message.IsDeleted {
		return ErrMessageDeleted
	}

	message.IsDeleted = true
	message.DeletedBy = &userID
	if err := s.db.Model(&model.Message{}).
		Where("id = ?", messageID).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_by": userID,
		}).Error; err != nil {
		logger.Error("Failed to delete message", err, map[string]interface{}{
			"message_id": messageID,
		})
		return err
	}

	s.hub.SendToChat(message.ChatID, map[string]interface{}{
		"type":       "message_deleted",
		"chat_id":    message.ChatID,
		"message_id": messageID,
	}, userID)

	logger.Info("Message deleted", map[string]interface{}{
		"message_id": messageID,
		"chat_id":    message.ChatID,
		"user_id":    userID,
	})

	return nil
}

// GetTypingUsers 현재 입력 중인 상대 참여자 목록 (Redis TTL 기반)
func (s *chatService) GetTypingUsers(ctx context.Context, chatID, userID uint) ([]uint, error) {
	if _, err := s.GetChat(chatID, userID); err != nil {
		return nil, err
	}

	typing, err := redis.GetTypingUsers(ctx, chatID)
	if err != nil {
		logger.Error("Failed to fetch typing users", err, map[string]interface{}{
			"chat_id": chatID,
		})
		return nil, err
	}

	// 본인은 제외
	result := make([]uint, 0, len(typing))
	for _, id := range typing {
		if id != userID {
			result = append(result, id)
		}
	}
	return result, nil
}

// JoinChat WebSocket 채팅 참여 (참여자 검증 포함)
func (s *chatService) JoinChat(userID, chatID uint) error {
	if _, err := s.GetChat(chatID, userID); err != nil {
		return err
	}

	s.hub.JoinChat(userID, chatID)
	return nil
}

func (s *chatService) LeaveChat(userID, chatID uint) {
	s.hub.LeaveChat(userID, chatID)
}

// appendMessageTx 메시지 생성 + 마지막 메시지 갱신 + 수신자 안 읽은 수 증가.
// 시스템 메시지는 양쪽 모두의 안 읽은 수를 올림
func (s *chatService) appendMessageTx(tx *gorm.DB, chat *model.Chat, message *model.Message) error {
	if err := tx.Create(message).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"last_message_id":      message.ID,
		"last_message_content": message.Content,
		"last_message_at":      message.CreatedAt,
	}

	switch message.SenderType {
	case model.SenderInfluencer:
		updates["advertiser_unread_count"] = gorm.Expr("advertiser_unread_count + 1")
	case model.SenderAdvertiser:
		updates["influencer_unread_count"] = gorm.Expr("influencer_unread_count + 1")
	case model.SenderSystem:
		updates["influencer_unread_count"] = gorm.Expr("influencer_unread_count + 1")
		updates["advertiser_unread_count"] = gorm.Expr("advertiser_unread_count + 1")
	}

	return tx.Model(&model.Chat{}).
		Where("id = ?", chat.ID).
		Updates(updates).Error
}

// notify 알림 저장 실패는 본 작업을 실패시키지 않음
func (s *chatService) notify(notification *model.Notification) {
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
