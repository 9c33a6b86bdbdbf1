package repo

import (
	"NoteKeeper/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// InitDB открывает БД для пользователей и применяет миграции.
// postgres:// и postgresql:// — PostgreSQL, всё остальное — путь/DSN SQLite (modernc).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dial = postgres.Open(dsn)
	} else {
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
