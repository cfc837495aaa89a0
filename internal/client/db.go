package client

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"buildnchill-server/internal/model"
)

// InitDB opens the database named by databaseURL. "sqlite://<path>" opens a
// local sqlite file; anything else is treated as a mysql DSN.
func InitDB(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = mysql.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (matters for concurrent admin actions)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.Wallet{},
		&model.WalletTransaction{},
		&model.Recharge{},
		&model.Contact{},
		&model.News{},
		&model.SiteSettings{},
		&model.ServerStatus{},
		&model.CarouselImage{},
		&model.PendingCommand{},
	)
}
