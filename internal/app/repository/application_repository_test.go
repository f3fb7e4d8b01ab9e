package repository

import (
	"testing"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApplicationTest(t *testing.T) (*gorm.DB, ApplicationRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewApplicationRepository(testDB)
	return testDB, repo
}

func createTestInfluencer(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:          email,
		PasswordHash:   "hashed",
		Name:           "테스트 인플루언서",
		Nickname:       "nick-" + email,
		Role:           model.RoleInfluencer,
		ApprovalStatus: model.ApprovalApproved,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestCampaign(t *testing.T, testDB *gorm.DB, ownerID uint) *model.Campaign {
	campaign := &model.Campaign{
		UserID:   ownerID,
		Title:    "테스트 캠페인",
		Category: "맛집",
		Status:   model.CampaignStatusRecruiting,
	}
	require.NoError(t, testDB.Create(campaign).Error)
	return campaign
}

func TestApplicationRepository_Create(t *testing.T) {
	testDB, repo := setupApplicationTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")
	influencer := createTestInfluencer(t, testDB, "inf@test.com")
	campaign := createTestCampaign(t, testDB, owner.ID)

	application := &model.CampaignApplication{
		CampaignID: campaign.ID,
		UserID:     influencer.ID,
		Status:     model.ApplicationStatusPending,
		Message:    "참여하고 싶습니다",
	}

	err := repo.Create(application)
	assert.NoError(t, err)
	assert.NotZero(t, application.ID)
}

func TestApplicationRepository_FindActiveByCampaignAndUser(t *testing.T) {
	testDB, repo := setupApplicationTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")
	influencer := createTestInfluencer(t, testDB, "inf@test.com")
	campaign := createTestCampaign(t, testDB, owner.ID)

	// 신청이 없으면 (nil, nil)
	found, err := repo.FindActiveByCampaignAndUser(campaign.ID, influencer.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)

	application := &model.CampaignApplication{
		CampaignID: campaign.ID,
		UserID:     influencer.ID,
		Status:     model.ApplicationStatusPending,
	}
	require.NoError(t, repo.Create(application))

	// 활성 신청이 있으면 조회됨
	found, err = repo.FindActiveByCampaignAndUser(campaign.ID, influencer.ID)
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, application.ID, found.ID)

	// 거절된 신청도 활성으로 취급 (재신청 불가)
	application.Status = model.ApplicationStatusRejected
	require.NoError(t, repo.Update(application))

	found, err = repo.FindActiveByCampaignAndUser(campaign.ID, influencer.ID)
	assert.NoError(t, err)
	assert.NotNil(t, found)

	// 취소된 신청은 제외 (재신청 가능)
	application.Status = model.ApplicationStatusCancelled
	require.NoError(t, repo.Update(application))

	found, err = repo.FindActiveByCampaignAndUser(campaign.ID, influencer.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestApplicationRepository_FindByCampaignID(t *testing.T) {
	testDB, repo := setupApplicationTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")
	campaign := createTestCampaign(t, testDB, owner.ID)

	inf1 := createTestInfluencer(t, testDB, "inf1@test.com")
	inf2 := createTestInfluencer(t, testDB, "inf2@test.com")

	apps := []model.CampaignApplication{
		{CampaignID: campaign.ID, UserID: inf1.ID, Status: model.ApplicationStatusPending},
		{CampaignID: campaign.ID, UserID: inf2.ID, Status: model.ApplicationStatusCancelled},
	}
	for i := range apps {
		require.NoError(t, repo.Create(&apps[i]))
	}

	// 취소된 신청도 광고주 목록에는 포함
	found, total, err := repo.FindByCampaignID(campaign.ID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)
	for _, app := range found {
		assert.NotZero(t, app.User.ID)
	}
}

func TestApplicationRepository_FindByUserID(t *testing.T) {
	testDB, repo := setupApplicationTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")
	influencer := createTestInfluencer(t, testDB, "inf@test.com")

	campaign1 := createTestCampaign(t, testDB, owner.ID)
	campaign2 := createTestCampaign(t, testDB, owner.ID)

	apps := []model.CampaignApplication{
		{CampaignID: campaign1.ID, UserID: influencer.ID, Status: model.ApplicationStatusPending},
		{CampaignID: campaign2.ID, UserID: influencer.ID, Status: model.ApplicationStatusConfirmed},
	}
	for i := range apps {
		require.NoError(t, repo.Create(&apps[i]))
	}

	found, total, err := repo.FindByUserID(influencer.ID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)
	for _, app := range found {
		assert.NotZero(t, app.Campaign.ID)
	}
}

func TestApplicationRepository_DuplicateActiveApplicationRejected(t *testing.T) {
	testDB, repo := setupApplicationTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")
	influencer := createTestInfluencer(t, testDB, "inf@test.com")
	campaign := createTestCampaign(t, testDB, owner.ID)

	first := &model.CampaignApplication{
		CampaignID: campaign.ID,
		UserID:     influencer.ID,
		Status:     model.ApplicationStatusPending,
	}
	require.NoError(t, repo.Create(first))

	// 같은 (인플루언서, 캠페인) 쌍의 활성 신청은 DB 차원에서 거부된다
	duplicate := &model.CampaignApplication{
		CampaignID: campaign.ID,
		UserID:     influencer.ID,
		Status:     model.ApplicationStatusPending,
	}
	assert.Error(t, repo.Create(duplicate))

	// 취소된 신청은 유일성 검사에서 제외되므로 재신청은 허용된다
	first.Status = model.ApplicationStatusCancelled
	require.NoError(t, repo.Update(first))

	again := &model.CampaignApplication{
		CampaignID: campaign.ID,
		UserID:     influencer.ID,
		Status:     model.ApplicationStatusPending,
	}
	assert.NoError(t, repo.Create(again))
}
