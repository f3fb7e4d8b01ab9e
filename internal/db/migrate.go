package db

import (
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.InfluencerProfile{},
		&model.AdvertiserProfile{},
		&model.Campaign{},
		&model.CampaignDraft{},
		&model.CampaignApplication{},
		&model.FavoriteCampaign{},
		&model.Chat{},
		&model.Message{},
		&model.Review{},
		&model.Notification{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := CreateConstraintIndexes(DB); err != nil {
		logger.Error("Failed to create constraint indexes", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// CreateConstraintIndexes AutoMigrate 태그로는 표현할 수 없는 부분 유니크 인덱스 생성.
// 애플리케이션 계층의 중복 검사와 별개로 동시 요청에서도 유일성을 보장한다
func CreateConstraintIndexes(db *gorm.DB) error {
	statements := []string{
		// (인플루언서, 캠페인) 쌍에 취소되지 않은 신청은 최대 1건
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_application
			ON campaign_applications (user_id, campaign_id)
			WHERE status <> '취소' AND deleted_at IS NULL`,
		// (인플루언서, 광고주, 캠페인) 조합당 채팅 1건
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_triple_unique
			ON chats (influencer_id, advertiser_id, campaign_id)
			WHERE deleted_at IS NULL`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
