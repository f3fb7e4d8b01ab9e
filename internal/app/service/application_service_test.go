package service

import (
	"testing"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApplicationServiceTest(t *testing.T) (ApplicationService, *gorm.DB, *model.User, *model.User, *model.Campaign) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	applicationRepo := repository.NewApplicationRepository(testDB)
	campaignRepo := repository.NewCampaignRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	applicationService := NewApplicationService(applicationRepo, campaignRepo, notificationRepo, testDB)

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
		UserID:       advertiser.ID,
		Title:        "강남 맛집 체험단",
		Category:     "맛집",
		Status:       model.CampaignStatusRecruiting,
		RecruitCount: 3,
	}
	testDB.Create(campaign)

	return applicationService, testDB, advertiser, influencer, campaign
}

func campaignCounters(t *testing.T, testDB *gorm.DB, campaignID uint) (int, int) {
	var campaign model.Campaign
	require.NoError(t, testDB.First(&campaign, campaignID).Error)
	return campaign.Applicants, campaign.ConfirmedApplicants
}

func TestApplicationService_Apply(t *testing.T) {
	svc, testDB, _, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "참여하고 싶습니다")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, application.Status)
	assert.Equal(t, "참여하고 싶습니다", application.Message)

	// 신청과 함께 applicants가 1 증가
	applicants, confirmed := campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 1, applicants)
	assert.Equal(t, 0, confirmed)

	// 캠페인 소유자에게 알림 생성
	var notificationCount int64
	testDB.Model(&model.Notification{}).
		Where("type = ?", model.NotificationTypeNewApplication).
		Count(&notificationCount)
	assert.Equal(t, int64(1), notificationCount)
}

func TestApplicationService_Apply_Duplicate(t *testing.T) {
	svc, _, _, influencer, campaign := setupApplicationServiceTest(t)

	_, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	// 같은 캠페인에 두 번 신청 불가
	_, err = svc.Apply(campaign.ID, influencer.ID, "")
	assert.ErrorIs(t, err, ErrApplicationExists)
}

func TestApplicationService_Apply_Errors(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	t.Run("Campaign not found", func(t *testing.T) {
		_, err := svc.Apply(9999, influencer.ID, "")
		assert.ErrorIs(t, err, ErrCampaignNotFound)
	})

	t.Run("Self apply", func(t *testing.T) {
		_, err := svc.Apply(campaign.ID, advertiser.ID, "")
		assert.ErrorIs(t, err, ErrSelfApply)
	})

	t.Run("Campaign closed", func(t *testing.T) {
		closed := &model.Campaign{
			UserID:   advertiser.ID,
			Title:    "마감 캠페인",
			Category: "맛집",
			Status:   model.CampaignStatusClosed,
		}
		testDB.Create(closed)

		_, err := svc.Apply(closed.ID, influencer.ID, "")
		assert.ErrorIs(t, err, ErrCampaignNotRecruiting)
	})
}

func TestApplicationService_Cancel(t *testing.T) {
	svc, testDB, _, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	// 취소하면 applicants가 다시 0
	cancelled, err := svc.Cancel(application.ID, influencer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	applicants, _ := campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 0, applicants)

	// 이미 취소한 신청은 다시 취소 불가
	_, err = svc.Cancel(application.ID, influencer.ID)
	assert.ErrorIs(t, err, ErrApplicationCancelled)

	// 취소 후 재신청 가능
	_, err = svc.Apply(campaign.ID, influencer.ID, "다시 신청합니다")
	require.NoError(t, err)

	applicants, _ = campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 1, applicants)
}

func TestApplicationService_Cancel_NotApplicant(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	_, err = svc.Cancel(application.ID, advertiser.ID)
	assert.ErrorIs(t, err, ErrNotApplicant)
}

func TestApplicationService_ChangeStatus_ConfirmedRoundTrip(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	// 검토 중 -> 협업 확정: confirmed가 1 증가, applicants는 그대로
	_, err = svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusConfirmed)
	require.NoError(t, err)

	applicants, confirmed := campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 1, applicants)
	assert.Equal(t, 1, confirmed)
	assert.LessOrEqual(t, confirmed, applicants)

	// 협업 확정 -> 검토 중: confirmed가 원복
	_, err = svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusPending)
	require.NoError(t, err)

	applicants, confirmed = campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 1, applicants)
	assert.Equal(t, 0, confirmed)
}

func TestApplicationService_ChangeStatus_Rejected(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	// 거절되면 활성 신청에서 빠짐
	_, err = svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusRejected)
	require.NoError(t, err)

	applicants, confirmed := campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 0, applicants)
	assert.Equal(t, 0, confirmed)

	// 거절 상태에서는 재신청 불가 (취소만 재신청 허용)
	_, err = svc.Apply(campaign.ID, influencer.ID, "")
	assert.ErrorIs(t, err, ErrApplicationExists)
}

func TestApplicationService_ChangeStatus_Errors(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	t.Run("Not the owner", func(t *testing.T) {
		_, err := svc.ChangeStatus(campaign.ID, application.ID, influencer.ID, model.ApplicationStatusApproved)
		assert.ErrorIs(t, err, ErrNotCampaignOwner)
	})

	t.Run("Invalid status", func(t *testing.T) {
		_, err := svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidAppStatus)
	})

	t.Run("Cancelled application", func(t *testing.T) {
		_, err := svc.Cancel(application.ID, influencer.ID)
		require.NoError(t, err)

		_, err = svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusApproved)
		assert.ErrorIs(t, err, ErrApplicationCancelled)
	})
}

// 신청 -> 승인 -> 확정 -> 취소의 전체 흐름에서 카운터가 보존되는지 확인
func TestApplicationService_FullLifecycle(t *testing.T) {
	svc, testDB, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	application, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	_, err = svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusApproved)
	require.NoError(t, err)

	applicants, confirmed := campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 1, applicants)
	assert.Equal(t, 0, confirmed)

	_, err = svc.ChangeStatus(campaign.ID, application.ID, advertiser.ID, model.ApplicationStatusConfirmed)
	require.NoError(t, err)

	applicants, confirmed = campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 1, applicants)
	assert.Equal(t, 1, confirmed)

	// 확정 상태에서 취소하면 양쪽 카운터 모두 감소
	_, err = svc.Cancel(application.ID, influencer.ID)
	require.NoError(t, err)

	applicants, confirmed = campaignCounters(t, testDB, campaign.ID)
	assert.Equal(t, 0, applicants)
	assert.Equal(t, 0, confirmed)
}

func TestApplicationService_GetCampaignApplications(t *testing.T) {
	svc, _, advertiser, influencer, campaign := setupApplicationServiceTest(t)

	_, err := svc.Apply(campaign.ID, influencer.ID, "")
	require.NoError(t, err)

	// 소유 광고주는 조회 가능
	applications, total, err := svc.GetCampaignApplications(campaign.ID, advertiser.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, applications, 1)

	// 제3자는 조회 불가
	_, _, err = svc.GetCampaignApplications(campaign.ID, influencer.ID, 10, 0)
	assert.ErrorIs(t, err, ErrNotCampaignOwner)
}
