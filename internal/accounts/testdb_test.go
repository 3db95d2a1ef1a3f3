package accounts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/routerops/radman/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newTestService(t *testing.T) (*AccountService, *AuditWriter, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	profiles := NewGormProfileRepository(db)
	users := NewGormUserRepository(db)
	logs := NewGormActivityLogRepository(db)
	validators := NewValidators(profiles, users)
	audit := NewAuditWriter(logs)
	return NewAccountService(profiles, users, validators, audit), audit, db
}
