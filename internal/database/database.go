package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warbler/backend/internal/config"
	applog "warbler/backend/internal/logger"
	"warbler/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// Connect builds the logger described by cfg, opens the database and runs
// migrations.
func Connect(cfg config.Config) (*gorm.DB, error) {
	log := applog.New(cfg.LogLevel, cfg.LogFormat)

	db, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects to the database named by cfg.DatabaseURL. A sqlite:// URL
// selects sqlite with foreign keys enforced; anything else is handed to the
// postgres driver. The returned handle is passed to every model operation.
func Open(cfg config.Config, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	slow := cfg.SQLSlowThreshold
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	gormLogger := logger.New(
		log,
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	entry := logrus.NewEntry(log).WithField("dialect", dialector.Name())
	entry.Info("Database connection established.")

	// Model operations pick their logger up from the statement context.
	return db.WithContext(applog.WithContext(context.Background(), entry)), nil
}

func dialectorFor(url string) (gorm.Dialector, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	if path, ok := strings.CutPrefix(url, sqliteScheme); ok {
		if path == "" {
			return nil, fmt.Errorf("sqlite url %q has no path", url)
		}
		return sqlite.Open(sqliteDSN(path)), nil
	}
	return postgres.Open(url), nil
}

// sqliteDSN turns foreign key enforcement on; sqlite leaves it off per
// connection unless asked.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Migrate creates or updates the users, messages, follows and likes tables.
func Migrate(db *gorm.DB, log *logrus.Logger) error {
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migrated successfully.")
	return nil
}
