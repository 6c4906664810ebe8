package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/tiendaropa/internal/adapters/messaging/kafka"
	"github.com/phenrril/tiendaropa/internal/config"
	"github.com/phenrril/tiendaropa/internal/domain"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfig(t *testing.T, env string) config.Config {
	return config.Config{
		AppEnv:            env,
		StorageDir:        t.TempDir(),
		OrderMaxRetries:   3,
		LowStockThreshold: 3,
		CORSOrigins:       []string{"*"},
	}
}

func TestNewAppWithoutBrokers(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	a, err := NewApp(newDB(t), testConfig(t, "development"))
	require.NoError(t, err)
	assert.IsType(t, kafka.Noop{}, a.OrderUC.Events)
	assert.Nil(t, a.OrderUC.Idempotency)
	assert.Equal(t, 3, a.ReportUC.LowStockThreshold)
	assert.NoError(t, a.Close())
}

func TestMigrateAndSeed(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	db := newDB(t)
	a, err := NewApp(db, testConfig(t, "development"))
	require.NoError(t, err)

	require.NoError(t, a.MigrateAndSeed())
	require.NoError(t, a.MigrateAndSeed())
	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)

	rec := httptest.NewRecorder()
	a.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMigrateSkipsSeedInProduction(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	db := newDB(t)
	a, err := NewApp(db, testConfig(t, "production"))
	require.NoError(t, err)
	require.NoError(t, a.MigrateAndSeed())
	var count int64
	require.NoError(t, db.Model(&domain.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}
