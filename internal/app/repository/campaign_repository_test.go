package repository

import (
	"testing"
	"time"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCampaignTest(t *testing.T) (*gorm.DB, CampaignRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCampaignRepository(testDB)
	return testDB, repo
}

func createTestAdvertiser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:          email,
		PasswordHash:   "hashed",
		Name:           "테스트 광고주",
		Nickname:       "nick-" + email,
		Role:           model.RoleAdvertiser,
		ApprovalStatus: model.ApprovalApproved,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestCampaignRepository_Create(t *testing.T) {
	testDB, repo := setupCampaignTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")

	campaign := &model.Campaign{
		UserID:       owner.ID,
		Title:        "강남 맛집 체험단 모집",
		Category:     "맛집",
		Status:       model.CampaignStatusRecruiting,
		RecruitCount: 5,
		RewardType:   model.RewardTypeProduct,
		ProductValue: 50000,
		VisitType:    "방문형",
		Location:     "서울 강남구",
	}

	err := repo.Create(campaign)
	assert.NoError(t, err)
	assert.NotZero(t, campaign.ID)
	assert.Equal(t, 0, campaign.Applicants)
}

func TestCampaignRepository_FindByID(t *testing.T) {
	testDB, repo := setupCampaignTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")

	campaign := &model.Campaign{
		UserID:   owner.ID,
		Title:    "뷰티 제품 리뷰",
		Category: "뷰티",
		Status:   model.CampaignStatusRecruiting,
	}
	require.NoError(t, repo.Create(campaign))

	tests := []struct {
		name    string
		id      uint
		wantErr bool
	}{
		{
			name:    "Existing campaign",
			id:      campaign.ID,
			wantErr: false,
		},
		{
			name:    "Non-existing campaign",
			id:      9999,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, campaign.Title, found.Title)
				assert.Equal(t, owner.ID, found.User.ID)
			}
		})
	}
}

func TestCampaignRepository_FindAll(t *testing.T) {
	testDB, repo := setupCampaignTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")
	other := createTestAdvertiser(t, testDB, "other@test.com")

	campaigns := []model.Campaign{
		{UserID: owner.ID, Title: "맛집 체험단", Category: "맛집", Status: model.CampaignStatusRecruiting, VisitType: "방문형"},
		{UserID: owner.ID, Title: "뷰티 리뷰", Category: "뷰티", Status: model.CampaignStatusClosed, VisitType: "배송형"},
		{UserID: other.ID, Title: "카페 체험단", Category: "맛집", Status: model.CampaignStatusRecruiting, VisitType: "방문형"},
	}
	for i := range campaigns {
		require.NoError(t, repo.Create(&campaigns[i]))
	}

	t.Run("No filter", func(t *testing.T) {
		found, total, err := repo.FindAll(CampaignFilter{Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, found, 3)
	})

	t.Run("Filter by status", func(t *testing.T) {
		found, total, err := repo.FindAll(CampaignFilter{
			Status: string(model.CampaignStatusRecruiting),
			Limit:  10,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, found, 2)
	})

	t.Run("Filter by category", func(t *testing.T) {
		found, total, err := repo.FindAll(CampaignFilter{Category: "뷰티", Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "뷰티 리뷰", found[0].Title)
	})

	t.Run("Filter by owner", func(t *testing.T) {
		_, total, err := repo.FindAll(CampaignFilter{OwnerID: other.ID, Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("Pagination", func(t *testing.T) {
		found, total, err := repo.FindAll(CampaignFilter{Limit: 2})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, found, 2)
	})
}

func TestCampaignRepository_UpdateStatus(t *testing.T) {
	testDB, repo := setupCampaignTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")

	campaign := &model.Campaign{
		UserID:   owner.ID,
		Title:    "맛집 체험단",
		Category: "맛집",
		Status:   model.CampaignStatusRecruiting,
	}
	require.NoError(t, repo.Create(campaign))

	err := repo.UpdateStatus(campaign.ID, model.CampaignStatusClosed)
	assert.NoError(t, err)

	updated, err := repo.FindByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusClosed, updated.Status)
}

func TestCampaignRepository_CloseExpired(t *testing.T) {
	testDB, repo := setupCampaignTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")

	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	expired := &model.Campaign{
		UserID: owner.ID, Title: "마감일 지난 캠페인", Category: "맛집",
		Status: model.CampaignStatusRecruiting, RecruitEndDate: &past,
	}
	ongoing := &model.Campaign{
		UserID: owner.ID, Title: "진행 중 캠페인", Category: "맛집",
		Status: model.CampaignStatusRecruiting, RecruitEndDate: &future,
	}
	noDeadline := &model.Campaign{
		UserID: owner.ID, Title: "마감일 없는 캠페인", Category: "맛집",
		Status: model.CampaignStatusRecruiting,
	}
	require.NoError(t, repo.Create(expired))
	require.NoError(t, repo.Create(ongoing))
	require.NoError(t, repo.Create(noDeadline))

	closed, err := repo.CloseExpired(now)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	found, err := repo.FindByID(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusClosed, found.Status)

	found, err = repo.FindByID(ongoing.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusRecruiting, found.Status)

	found, err = repo.FindByID(noDeadline.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusRecruiting, found.Status)
}

func TestCampaignRepository_SaveDraft(t *testing.T) {
	testDB, repo := setupCampaignTest(t)
	defer db.CleanupTestDB(testDB)

	owner := createTestAdvertiser(t, testDB, "owner@test.com")

	// 최초 저장
	draft := &model.CampaignDraft{
		UserID:  owner.ID,
		Payload: `{"title":"작성 중"}`,
	}
	err := repo.SaveDraft(draft)
	assert.NoError(t, err)
	assert.NotZero(t, draft.ID)

	// 같은 광고주가 다시 저장하면 덮어씀
	second := &model.CampaignDraft{
		UserID:  owner.ID,
		Payload: `{"title":"수정된 제목"}`,
	}
	err = repo.SaveDraft(second)
	assert.NoError(t, err)
	assert.Equal(t, draft.ID, second.ID)

	found, err := repo.FindDraftByUserID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"수정된 제목"}`, found.Payload)

	// 삭제 후 조회하면 not found
	err = repo.DeleteDraft(owner.ID)
	assert.NoError(t, err)

	_, err = repo.FindDraftByUserID(owner.ID)
	assert.Error(t, err)
}
