package service

import (
	"testing"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/ohsj/linkple-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupChatServiceTest(t *testing.T) (ChatService, *gorm.DB, *model.User, *model.User, *model.Campaign) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	chatRepo := repository.NewChatRepository(testDB)
	campaignRepo := repository.NewCampaignRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	hub := websocket.NewHub()
	chatService := NewChatService(testDB, chatRepo, campaignRepo, notificationRepo, hub)

	advertiser := &model.User{
		Email:          "adv@example.com",
		PasswordHash:   "hash",
		Name:           "광고주",
		Nickname:       "광고주닉네임",
		Role:           model.RoleAdvertiser,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(advertiser)

	influencer := &model.User{
		Email:          "inf@example.com",
		PasswordHash:   "hash",
		Name:           "인플루언서",
		Nickname:       "인플닉네임",
		Role:           model.RoleInfluencer,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(influencer)

	campaign := &model.Campaign{
		UserID:   advertiser.ID,
		Title:    "강남 맛집 체험단",
		Category: "맛집",
		Status:   model.CampaignStatusRecruiting,
	}
	testDB.Create(campaign)

	return chatService, testDB, advertiser, influencer, campaign
}

func TestChatService_FindOrCreateChat_Idempotent(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, isNew, err := svc.FindOrCreateChat(influencer.ID, campaign.ID)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, model.ChatStatusPending, chat.Status)
	assert.Equal(t, model.InitiatedByInfluencer, chat.InitiatedBy)
	assert.Equal(t, advertiser.ID, chat.AdvertiserID)

	// 같은 조합으로 다시 호출하면 기존 채팅 반환
	again, isNew, err := svc.FindOrCreateChat(influencer.ID, campaign.ID)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, chat.ID, again.ID)
}

func TestChatService_FindOrCreateChat_SelfChat(t *testing.T) {
	svc, _, advertiser, _, campaign := setupChatServiceTest(t)

	_, _, err := svc.FindOrCreateChat(advertiser.ID, campaign.ID)
	assert.ErrorIs(t, err, ErrSelfChat)
}

func TestChatService_Invite(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "함께 해요")
	require.NoError(t, err)

	// 광고주 초대는 바로 active로 시작
	assert.Equal(t, model.ChatStatusActive, chat.Status)
	assert.Equal(t, model.InitiatedByAdvertiser, chat.InitiatedBy)
	assert.True(t, chat.IsActiveCollaboration)

	// 캠페인 카드 + 오프닝 메시지
	var messages []model.Message
	testDB.Where("chat_id = ?", chat.ID).Order("created_at ASC, id ASC").Find(&messages)
	require.Len(t, messages, 2)
	assert.Equal(t, model.MessageTypeCampaignCard, messages[0].MessageType)
	assert.Equal(t, model.SenderSystem, messages[0].SenderType)
	assert.Equal(t, "함께 해요", messages[1].Content)
	assert.Equal(t, model.SenderAdvertiser, messages[1].SenderType)

	// 마지막 메시지 정보가 채팅에 반영됨
	var found model.Chat
	testDB.First(&found, chat.ID)
	assert.Equal(t, "함께 해요", found.LastMessageContent)
	assert.NotNil(t, found.LastMessageAt)
}

func TestChatService_Invite_Duplicate(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	_, err = svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.Error(t, err)

	// 기존 채팅 ID를 담아 반환
	var existsErr *ChatExistsError
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, chat.ID, existsErr.ChatID)
}

func TestChatService_Invite_NotOwner(t *testing.T) {
	svc, testDB, _, influencer, campaign := setupChatServiceTest(t)

	other := &model.User{
		Email:          "other@example.com",
		PasswordHash:   "hash",
		Name:           "다른 광고주",
		Nickname:       "다른광고주",
		Role:           model.RoleAdvertiser,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(other)

	_, err := svc.Invite(other.ID, influencer.ID, campaign.ID, "")
	assert.ErrorIs(t, err, ErrNotCampaignOwner)
}

func TestChatService_Propose(t *testing.T) {
	svc, testDB, _, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Propose(influencer.ID, campaign.ID, "협업 제안드립니다")
	require.NoError(t, err)

	// 인플루언서 제안은 pending으로 시작
	assert.Equal(t, model.ChatStatusPending, chat.Status)
	assert.Equal(t, model.InitiatedByInfluencer, chat.InitiatedBy)
	assert.False(t, chat.IsActiveCollaboration)

	var messages []model.Message
	testDB.Where("chat_id = ?", chat.ID).Order("created_at ASC, id ASC").Find(&messages)
	require.Len(t, messages, 2)
	assert.Equal(t, model.MessageTypeProfileCard, messages[0].MessageType)
	assert.Equal(t, model.MessageTypeProposal, messages[1].MessageType)
	assert.Equal(t, "협업 제안드립니다", messages[1].Content)
}

func TestChatService_UpdateChatStatus(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Propose(influencer.ID, campaign.ID, "제안드립니다")
	require.NoError(t, err)

	t.Run("Influencer cannot decide", func(t *testing.T) {
		_, err := svc.UpdateChatStatus(chat.ID, influencer.ID, model.ChatStatusActive)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("Invalid status", func(t *testing.T) {
		_, err := svc.UpdateChatStatus(chat.ID, advertiser.ID, model.ChatStatusPending)
		assert.ErrorIs(t, err, ErrInvalidChatStatus)
	})

	t.Run("Advertiser accepts", func(t *testing.T) {
		updated, err := svc.UpdateChatStatus(chat.ID, advertiser.ID, model.ChatStatusActive)
		require.NoError(t, err)
		assert.Equal(t, model.ChatStatusActive, updated.Status)
		assert.True(t, updated.IsActiveCollaboration)

		// 결과를 알리는 시스템 메시지 추가
		var count int64
		testDB.Model(&model.Message{}).
			Where("chat_id = ? AND message_type = ?", chat.ID, model.MessageTypeSystem).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Already decided", func(t *testing.T) {
		_, err := svc.UpdateChatStatus(chat.ID, advertiser.ID, model.ChatStatusRejected)
		assert.ErrorIs(t, err, ErrChatNotPending)
	})
}

func TestChatService_UpdateChatStatus_AdvertiserInitiated(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	// 광고주가 연 채팅은 상태 변경 불가
	_, err = svc.UpdateChatStatus(chat.ID, advertiser.ID, model.ChatStatusRejected)
	assert.ErrorIs(t, err, ErrChatStatusLocked)
}

func TestChatService_SendMessage(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	var before model.Chat
	testDB.First(&before, chat.ID)

	message, err := svc.SendMessage(chat.ID, influencer.ID, "안녕하세요", model.MessageTypeText, "")
	require.NoError(t, err)
	assert.Equal(t, model.SenderInfluencer, message.SenderType)
	assert.Equal(t, "안녕하세요", message.Content)

	// 수신자(광고주)의 안 읽은 수만 증가
	var after model.Chat
	testDB.First(&after, chat.ID)
	assert.Equal(t, before.AdvertiserUnreadCount+1, after.AdvertiserUnreadCount)
	assert.Equal(t, before.InfluencerUnreadCount, after.InfluencerUnreadCount)
	assert.Equal(t, "안녕하세요", after.LastMessageContent)
}

func TestChatService_SendMessage_NotParticipant(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	outsider := &model.User{
		Email:          "x@example.com",
		PasswordHash:   "hash",
		Name:           "제3자",
		Nickname:       "제3자닉",
		Role:           model.RoleInfluencer,
		ApprovalStatus: model.ApprovalApproved,
	}
	testDB.Create(outsider)

	_, err = svc.SendMessage(chat.ID, outsider.ID, "끼어들기", model.MessageTypeText, "")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestChatService_MarkChatAsRead(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	_, err = svc.SendMessage(chat.ID, influencer.ID, "안녕하세요", model.MessageTypeText, "")
	require.NoError(t, err)

	err = svc.MarkChatAsRead(chat.ID, advertiser.ID)
	require.NoError(t, err)

	var found model.Chat
	testDB.First(&found, chat.ID)
	assert.Equal(t, 0, found.AdvertiserUnreadCount)
}

func TestChatService_DeleteMessage(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	message, err := svc.SendMessage(chat.ID, influencer.ID, "지울 메시지", model.MessageTypeText, "")
	require.NoError(t, err)

	// 발신자가 아니면 삭제 불가
	err = svc.DeleteMessage(message.ID, advertiser.ID)
	assert.ErrorIs(t, err, ErrNotMessageSender)

	err = svc.DeleteMessage(message.ID, influencer.ID)
	require.NoError(t, err)

	// 이미 삭제된 메시지는 다시 삭제 불가
	err = svc.DeleteMessage(message.ID, influencer.ID)
	assert.ErrorIs(t, err, ErrMessageDeleted)

	// 목록 조회에서 내용이 가려짐
	messages, _, err := svc.GetChatMessages(chat.ID, advertiser.ID, 1, 50)
	require.NoError(t, err)
	for _, m := range messages {
		if m.ID == message.ID {
			assert.True(t, m.IsDeleted)
			assert.Equal(t, "삭제된 메시지입니다.", m.Content)
		}
	}
}

func TestChatService_GetUserChats(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupChatServiceTest(t)

	chat, err := svc.Invite(advertiser.ID, influencer.ID, campaign.ID, "")
	require.NoError(t, err)

	_, err = svc.SendMessage(chat.ID, influencer.ID, "안녕하세요", model.MessageTypeText, "")
	require.NoError(t, err)

	// 광고주 기준 안 읽은 수가 함께 내려옴 (캠페인 카드 + 텍스트)
	chats, total, err := svc.GetUserChats(advertiser.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, chats, 1)
	assert.Equal(t, 2, chats[0].UnreadCount)
}
