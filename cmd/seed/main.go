package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ohsj/linkple-backend/config"
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/ohsj/linkple-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// 시드 캠페인을 소유할 광고주 계정
const seedOwnerEmail = "seed@linkple.io"

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	campaignRepo := repository.NewCampaignRepository(db.GetDB())

	owner, err := findOrCreateSeedOwner(userRepo)
	if err != nil {
		log.Fatal("Failed to prepare seed owner:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	campaigns, err := readCampaignsFromXLSX(filePath, owner.ID)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total campaigns to import: %d\n", len(campaigns))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := campaignRepo.BulkCreate(campaigns, batchSize); err != nil {
		log.Fatal("Failed to bulk create campaigns:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total campaigns imported: %d\n", len(campaigns))
}

func findOrCreateSeedOwner(userRepo repository.UserRepository) (*model.User, error) {
	owner, err := userRepo.FindByEmail(seedOwnerEmail)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := util.HashPassword("seed-only-account")
	if err != nil {
		return nil, err
	}

	owner = &model.User{
		Email:          seedOwnerEmail,
		PasswordHash:   hashed,
		Name:           "시드 광고주",
		Nickname:       util.GenerateNickname(),
		Role:           model.RoleAdvertiser,
		ApprovalStatus: model.ApprovalApproved,
	}
	if err := userRepo.Create(owner); err != nil {
		return nil, err
	}

	fmt.Printf("Created seed owner account: %s\n", seedOwnerEmail)
	return owner, nil
}

// 컬럼 순서:
// 0 제목 | 1 카테고리 | 2 보상유형 | 3 원고료 | 4 제품가액 | 5 모집인원
// 6 모집마감일(2006-01-02) | 7 방문유형 | 8 지역 | 9 설명 | 10 해시태그(쉼표 구분) | 11 썸네일 URL
func readCampaignsFromXLSX(filePath string, ownerID uint) ([]model.Campaign, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var campaigns []model.Campaign
	seen := make(map[string]bool) // 중복 제거용
	skippedCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		get := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		title := get(0)
		category := get(1)
		if title == "" || category == "" {
			skippedCount++
			continue
		}

		visitType := get(7)
		location := get(8)

		// 중복 체크 (제목+카테고리+지역 기준)
		key := fmt.Sprintf("%s|%s|%s", title, category, location)
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		rewardType := model.RewardType(get(2))
		switch rewardType {
		case model.RewardTypePayment, model.RewardTypeProduct, model.RewardTypeBoth:
		default:
			rewardType = model.RewardTypeProduct
		}

		paymentAmount, _ := strconv.Atoi(get(3))
		productValue, _ := strconv.Atoi(get(4))

		recruitCount, _ := strconv.Atoi(get(5))
		if recruitCount <= 0 {
			recruitCount = 1
		}

		var recruitEndDate *time.Time
		if raw := get(6); raw != "" {
			if parsed, err := time.Parse("2006-01-02", raw); err == nil {
				recruitEndDate = &parsed
			}
		}

		var hashtags pq.StringArray
		for _, tag := range strings.Split(get(10), ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				hashtags = append(hashtags, tag)
			}
		}

		campaign := model.Campaign{
			UserID:         ownerID,
			Title:          title,
			Category:       category,
			Status:         model.CampaignStatusRecruiting,
			RecruitCount:   recruitCount,
			RecruitEndDate: recruitEndDate,
			RewardType:     rewardType,
			PaymentAmount:  paymentAmount,
			ProductValue:   productValue,
			Description:    get(9),
			Hashtags:       hashtags,
			VisitType:      visitType,
			Location:       location,
			ThumbnailURL:   get(11),
		}

		campaigns = append(campaigns, campaign)

		// 진행 상황 출력 (500개마다)
		if len(campaigns)%500 == 0 {
			fmt.Printf("Processed %d campaigns...\n", len(campaigns))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid campaigns: %d\n", len(campaigns))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return campaigns, nil
}
