package db

import (
	"fmt"
	"log"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	// 운영 마이그레이션과 같은 유니크 인덱스를 테스트에서도 적용
	if err := CreateConstraintIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create constraint indexes: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"notifications", "reviews", "messages", "chats",
		"favorite_campaigns", "campaign_applications", "campaign_drafts",
		"campaigns", "influencer_profiles", "advertiser_profiles", "users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
