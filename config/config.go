package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kdteam/kd-restaurant/models"
	"github.com/kdteam/kd-restaurant/utils"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the MySQL connection described by the environment and runs
// migrations plus the baseline seed.
func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		envOr("DB_USER", "root"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_HOST", "127.0.0.1"),
		envOr("DB_PORT", "3306"),
		envOr("DB_NAME", "kd_restaurant"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db); err != nil {
		return nil, err
	}

	utils.InitDB(db)
	return db, nil
}

// AutoMigrate keeps the schema in sync with the model definitions.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Area{},
		&models.TableStatus{},
		&models.TableType{},
		&models.Table{},
		&models.BookingStatus{},
		&models.Customer{},
		&models.MembershipCard{},
		&models.PointHistory{},
		&models.Booking{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderDetail{},
		&models.OrderCancellation{},
	)
}

// Seed inserts the rows the application cannot run without: the status
// catalogues, a default branch with one area, table types and an admin user.
// Every insert is guarded so restarting the server never duplicates data.
func Seed(db *gorm.DB) error {
	tableStatuses := []models.TableStatus{
		{StatusName: "Bàn trống", Description: "Bàn chưa có khách", IsActive: true},
		{StatusName: "Bàn đã đặt", Description: "Bàn đã được đặt trước", IsActive: true},
		{StatusName: "Bàn đang phục vụ", Description: "Bàn đang có khách", IsActive: true},
		{StatusName: "Bàn bảo trì", Description: "Bàn tạm ngưng phục vụ", IsActive: true},
	}
	for _, st := range tableStatuses {
		var count int64
		db.Model(&models.TableStatus{}).Where("status_name = ?", st.StatusName).Count(&count)
		if count == 0 {
			if err := db.Create(&st).Error; err != nil {
				return err
			}
		}
	}

	bookingStatuses := []models.BookingStatus{
		{ID: models.BookingStatusPending, StatusName: "Chưa nhận bàn"},
		{ID: models.BookingStatusServing, StatusName: "Đã nhận bàn"},
		{ID: models.BookingStatusCancelled, StatusName: "Đã huỷ"},
		{ID: models.BookingStatusCompleted, StatusName: "Đã hoàn thành"},
	}
	for _, st := range bookingStatuses {
		var count int64
		db.Model(&models.BookingStatus{}).Where("id = ?", st.ID).Count(&count)
		if count == 0 {
			if err := db.Create(&st).Error; err != nil {
				return err
			}
		}
	}

	var branchCount int64
	db.Model(&models.Branch{}).Count(&branchCount)
	if branchCount == 0 {
		branch := models.Branch{
			BranchName:  "KD Restaurant Quận 1",
			Address:     "12 Nguyễn Huệ, Quận 1, TP.HCM",
			PhoneNumber: "02838221234",
			Email:       "q1@kdrestaurant.vn",
			IsActive:    true,
		}
		if err := db.Create(&branch).Error; err != nil {
			return err
		}
		area := models.Area{AreaName: "Tầng trệt", BranchID: &branch.ID, IsActive: true}
		if err := db.Create(&area).Error; err != nil {
			return err
		}
	}

	tableTypes := []models.TableType{
		{TypeName: "Bàn 2 người", MaxSeats: intPtr(2)},
		{TypeName: "Bàn 4 người", MaxSeats: intPtr(4)},
		{TypeName: "Bàn 8 người", MaxSeats: intPtr(8)},
	}
	for _, tt := range tableTypes {
		var count int64
		db.Model(&models.TableType{}).Where("type_name = ?", tt.TypeName).Count(&count)
		if count == 0 {
			if err := db.Create(&tt).Error; err != nil {
				return err
			}
		}
	}

	var tableCount int64
	db.Model(&models.Table{}).Count(&tableCount)
	if tableCount == 0 {
		var available models.TableStatus
		var area models.Area
		var smallType models.TableType
		if err := db.Where("status_name = ?", "Bàn trống").First(&available).Error; err == nil &&
			db.First(&area).Error == nil &&
			db.Where("type_name = ?", "Bàn 4 người").First(&smallType).Error == nil {
			for _, name := range []string{"T01", "T02", "T03", "T04"} {
				table := models.Table{
					TableName: name,
					AreaID:    &area.ID,
					TypeID:    &smallType.ID,
					StatusID:  &available.ID,
					IsActive:  true,
				}
				if err := db.Create(&table).Error; err != nil {
					return err
				}
			}
		}
	}

	var menuCount int64
	db.Model(&models.MenuItem{}).Count(&menuCount)
	if menuCount == 0 {
		category := models.MenuCategory{Name: "Món chính", IsActive: true}
		if err := db.Where("name = ?", category.Name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
		sale := 75000
		items := []models.MenuItem{
			{CategoryID: category.ID, Title: "Phở bò tái", Price: 65000, IsActive: true},
			{CategoryID: category.ID, Title: "Cơm tấm sườn bì", Price: 55000, IsActive: true},
			{CategoryID: category.ID, Title: "Lẩu gà lá é", Price: 85000, PriceSale: &sale, IsActive: true},
		}
		for _, item := range items {
			if err := db.Create(&item).Error; err != nil {
				return err
			}
		}
	}

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", "admin").Count(&adminCount)
	if adminCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(envOr("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			UserName:  "admin",
			FirstName: "Quản trị",
			LastName:  "Hệ thống",
			Email:     envOr("ADMIN_EMAIL", "admin@kdrestaurant.vn"),
			Password:  string(hashed),
			Role:      "admin",
			IsActive:  true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	}

	return nil
}

func intPtr(v int) *int { return &v }
