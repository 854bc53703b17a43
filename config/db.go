package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"ventura-backend/models"

	sqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	cfg := sqldriver.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.Net = "tcp"
	port := u.Port()
	if port == "" {
		port = "3306"
	}
	cfg.Addr = u.Hostname() + ":" + port
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN(), nil
}

func resolveMySQLDSN(databaseURL string) (string, error) {
	raw := strings.TrimSpace(databaseURL)
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	cfg := sqldriver.NewConfig()
	cfg.User = envOrDefault("DB_USER", "root")
	cfg.Passwd = envOrDefault("DB_PASS", "")
	cfg.Net = "tcp"
	cfg.Addr = envOrDefault("DB_HOST", "127.0.0.1") + ":" + envOrDefault("DB_PORT", "3306")
	cfg.DBName = envOrDefault("DB_NAME", "ventura_db")
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	return cfg.FormatDSN(), nil
}

// ConnectDatabase opens the MySQL connection, runs migrations and
// seeds baseline data. The returned handle is injected into services;
// there is no package-level DB global.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}

// Migrate runs AutoMigrate in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.RoomType{},
		&models.Room{},
		&models.User{},
		&models.Reservation{},
	)
}

// SeedDatabase inserts the baseline room types, a handful of rooms and
// a default admin, all idempotently.
func SeedDatabase(db *gorm.DB) {
	var rtCount int64
	db.Model(&models.RoomType{}).Count(&rtCount)
	if rtCount == 0 {
		roomTypes := []models.RoomType{
			{Category: "single", Capacity: 1, NightlyRate: decimal.NewFromFloat(35.00)},
			{Category: "double", Capacity: 2, NightlyRate: decimal.NewFromFloat(55.00)},
			{Category: "triple", Capacity: 3, NightlyRate: decimal.NewFromFloat(75.00)},
		}
		if err := db.Create(&roomTypes).Error; err != nil {
			log.Printf("warning: failed to seed room types: %v", err)
		} else {
			log.Println("Room types seeded")
		}
	}

	var roomCount int64
	db.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		var types []models.RoomType
		db.Order("id asc").Find(&types)
		if len(types) == 3 {
			rooms := []models.Room{
				{Number: "101", Floor: 1, Status: models.RoomStatusAvailable, RoomTypeID: types[0].ID},
				{Number: "102", Floor: 1, Status: models.RoomStatusAvailable, RoomTypeID: types[1].ID},
				{Number: "201", Floor: 2, Status: models.RoomStatusAvailable, RoomTypeID: types[1].ID},
				{Number: "202", Floor: 2, Status: models.RoomStatusAvailable, RoomTypeID: types[2].ID},
			}
			if err := db.Create(&rooms).Error; err != nil {
				log.Printf("warning: failed to seed rooms: %v", err)
			} else {
				log.Println("Rooms seeded")
			}
		}
	}

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
			return
		}
		admin := models.User{
			FirstName:    "Admin",
			LastName:     "User",
			Email:        envOrDefault("ADMIN_EMAIL", "admin@hotelventura.local"),
			NationalID:   "0000000000",
			Phone:        "0000000000",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("warning: failed to create default admin: %v", err)
		} else {
			log.Println("Default admin seeded")
		}
	}
}
