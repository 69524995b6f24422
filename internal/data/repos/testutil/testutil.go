// Package testutil provides database fixtures for repository integration
// tests. Tests are skipped unless TEST_POSTGRES_DSN points at a disposable
// database; every test runs inside a transaction that is rolled back.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	types "github.com/sunudico/sunudico-backend/internal/domain"
	"github.com/sunudico/sunudico-backend/internal/pkg/dbctx"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
)

var (
	dbOnce sync.Once
	dbConn *gorm.DB
	dbErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	tb.Cleanup(func() { log.Sync() })
	return log
}

// DB returns a shared connection to the test database, migrating all models
// on first use.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run repository integration tests")
	}
	dbOnce.Do(func() {
		dbConn, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if dbErr != nil {
			return
		}
		if err := dbConn.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			dbErr = err
			return
		}
		dbErr = dbConn.AutoMigrate(
			&types.User{},
			&types.Language{},
			&types.Entry{},
			&types.ViewEvent{},
			&types.Favorite{},
			&types.ActivityEvent{},
			&types.RecommendationProfile{},
		)
	})
	if dbErr != nil {
		tb.Fatalf("test database: %v", dbErr)
	}
	return dbConn
}

// Tx opens a transaction that is rolled back when the test finishes, so
// tests never leak rows into each other.
func Tx(tb testing.TB) dbctx.Context {
	tb.Helper()
	tx := DB(tb).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { _ = tx.Rollback() })
	return dbctx.Context{Ctx: context.Background(), Tx: tx}
}
