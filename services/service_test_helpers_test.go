package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ventura-backend/config"
	"ventura-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// createRoom seeds a room with its own room type at the given nightly
// rate.
func createRoom(t *testing.T, db *gorm.DB, number string, rate float64) *models.Room {
	t.Helper()
	roomType := models.RoomType{
		Category:    "type-" + number,
		Capacity:    2,
		NightlyRate: decimal.NewFromFloat(rate),
	}
	if err := db.Create(&roomType).Error; err != nil {
		t.Fatalf("failed to seed room type: %v", err)
	}
	room := models.Room{
		Number:     number,
		Floor:      1,
		Status:     models.RoomStatusAvailable,
		RoomTypeID: roomType.ID,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
	return &room
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		// National ids are unique; derive one from the email.
		NationalID: fmt.Sprintf("%010d", hashString(email)),
		Role:       role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// day builds a UTC calendar date.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustStatus(t *testing.T, db *gorm.DB, id uint, status string) {
	t.Helper()
	if err := db.Model(&models.Reservation{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		t.Fatalf("failed to set status: %v", err)
	}
}
