package scheduler

import (
	"github.com/ohsj/linkple-backend/internal/app/service"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CampaignScheduler 모집 기한이 지난 캠페인 자동 마감 스케줄러
type CampaignScheduler struct {
	cron            *cron.Cron
	campaignService service.CampaignService
}

// NewCampaignScheduler 캠페인 스케줄러 생성
func NewCampaignScheduler(campaignService service.CampaignService) *CampaignScheduler {
	return &CampaignScheduler{
		cron:            cron.New(),
		campaignService: campaignService,
	}
}

// Start 스케줄러 시작
func (s *CampaignScheduler) Start() error {
	// 매일 자정에 모집 기한 지난 캠페인 일괄 마감
	// cron 표현식: "0 0 * * *" = 매일 0시 0분
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		logger.Info("Starting scheduled campaign close", nil)

		closed, err := s.campaignService.CloseExpiredCampaigns()
		if err != nil {
			logger.Error("Failed to close expired campaigns from scheduler", err)
			return
		}

		logger.Info("Expired campaigns closed from scheduler", map[string]interface{}{
			"closed_count": closed,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for campaign close", err)
		return err
	}

	s.cron.Start()
	logger.Info("Campaign scheduler started successfully (daily at midnight)", nil)

	return nil
}

// Stop 스케줄러 중지
func (s *CampaignScheduler) Stop() {
	logger.Info("Stopping campaign scheduler...", nil)
	s.cron.Stop()
	logger.Info("Campaign scheduler stopped", nil)
}
