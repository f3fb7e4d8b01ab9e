package repository

import (
	"testing"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupChatTest(t *testing.T) (*gorm.DB, ChatRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewChatRepository(testDB)
	return testDB, repo
}

func createTestChat(t *testing.T, testDB *gorm.DB, repo ChatRepository) (*model.Chat, *model.User, *model.User) {
	advertiser := createTestAdvertiser(t, testDB, "adv@test.com")
	influencer := createTestInfluencer(t, testDB, "inf@test.com")
	campaign := createTestCampaign(t, testDB, advertiser.ID)

	chat := &model.Chat{
		InfluencerID: influencer.ID,
		AdvertiserID: advertiser.ID,
		CampaignID:   campaign.ID,
		Status:       model.ChatStatusPending,
		InitiatedBy:  model.InitiatedByInfluencer,
	}
	require.NoError(t, repo.Create(chat))
	return chat, influencer, advertiser
}

func TestChatRepository_FindByTriple(t *testing.T) {
	testDB, repo := setupChatTest(t)
	defer db.CleanupTestDB(testDB)

	chat, influencer, advertiser := createTestChat(t, testDB, repo)

	// 같은 조합이면 기존 채팅 반환
	found, err := repo.FindByTriple(influencer.ID, advertiser.ID, chat.CampaignID)
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, chat.ID, found.ID)

	// 다른 캠페인이면 (nil, nil)
	found, err = repo.FindByTriple(influencer.ID, advertiser.ID, 9999)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestChatRepository_FindByUserID(t *testing.T) {
	testDB, repo := setupChatTest(t)
	defer db.CleanupTestDB(testDB)

	chat, influencer, advertiser := createTestChat(t, testDB, repo)

	// 양쪽 참여자 모두 목록에서 조회 가능
	chats, total, err := repo.FindByUserID(influencer.ID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, chat.ID, chats[0].ID)

	chats, total, err = repo.FindByUserID(advertiser.ID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, chat.ID, chats[0].ID)

	// 제3자는 조회 불가
	_, total, err = repo.FindByUserID(9999, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestChatRepository_MarkMessagesAsRead(t *testing.T) {
	testDB, repo := setupChatTest(t)
	defer db.CleanupTestDB(testDB)

	chat, influencer, advertiser := createTestChat(t, testDB, repo)

	// 인플루언서가 보낸 메시지 2건, 광고주가 보낸 메시지 1건
	messages := []model.Message{
		{ChatID: chat.ID, SenderID: &influencer.ID, SenderType: model.SenderInfluencer, Content: "안녕하세요", MessageType: model.MessageTypeText},
		{ChatID: chat.ID, SenderID: &influencer.ID, SenderType: model.SenderInfluencer, Content: "협업 제안드립니다", MessageType: model.MessageTypeText},
		{ChatID: chat.ID, SenderID: &advertiser.ID, SenderType: model.SenderAdvertiser, Content: "반갑습니다", MessageType: model.MessageTypeText},
	}
	for i := range messages {
		require.NoError(t, repo.CreateMessage(&messages[i]))
	}

	// 광고주 기준 읽지 않은 메시지는 인플루언서가 보낸 2건
	count, err := repo.UnreadMessageCount(chat.ID, advertiser.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 광고주가 읽음 처리하면 0건
	err = repo.MarkMessagesAsRead(chat.ID, advertiser.ID)
	assert.NoError(t, err)

	count, err = repo.UnreadMessageCount(chat.ID, advertiser.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 본인이 보낸 메시지는 읽음 처리에 영향받지 않음
	count, err = repo.UnreadMessageCount(chat.ID, influencer.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChatRepository_ResetUnreadCount(t *testing.T) {
	testDB, repo := setupChatTest(t)
	defer db.CleanupTestDB(testDB)

	chat, influencer, _ := createTestChat(t, testDB, repo)

	chat.InfluencerUnreadCount = 3
	chat.AdvertiserUnreadCount = 2
	require.NoError(t, repo.Update(chat))

	err := repo.ResetUnreadCount(chat.ID, influencer.ID)
	assert.NoError(t, err)

	found, err := repo.FindByID(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.InfluencerUnreadCount)
	assert.Equal(t, 2, found.AdvertiserUnreadCount)
}

func TestChatRepository_DuplicateTripleRejected(t *testing.T) {
	testDB, repo := setupChatTest(t)
	defer db.CleanupTestDB(testDB)

	chat, influencer, advertiser := createTestChat(t, testDB, repo)

	// 같은 (인플루언서, 광고주, 캠페인) 조합의 채팅은 DB 차원에서 거부된다
	duplicate := &model.Chat{
		InfluencerID: influencer.ID,
		AdvertiserID: advertiser.ID,
		CampaignID:   chat.CampaignID,
		Status:       model.ChatStatusPending,
		InitiatedBy:  model.InitiatedByAdvertiser,
	}
	assert.Error(t, repo.Create(duplicate))
}
