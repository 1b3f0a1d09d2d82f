package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pokedex-list-backend/internal/model"
)

func openObserved(t *testing.T, name string, level logger.LogLevel) (*gorm.DB, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	gormDB, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: newGormLogger(zap.New(core), level),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	logs.TakeAll()
	return gormDB, logs
}

func TestGormLogger_Errors(t *testing.T) {
	gormDB, logs := openObserved(t, "gorm_logger_errors", logger.Warn)

	var sub model.PushSubscription
	err := gormDB.First(&sub, "endpoint = ?", "https://push.example/none").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "a missing row is not logged")

	require.Error(t, gormDB.Exec("SELECT * FROM missing_table").Error)
	failed := logs.FilterMessage("query failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "gorm", failed[0].LoggerName)
	assert.Contains(t, failed[0].ContextMap()["sql"], "missing_table")
}

func TestGormLogger_Levels(t *testing.T) {
	gormDB, logs := openObserved(t, "gorm_logger_levels", logger.Info)
	require.NoError(t, gormDB.Find(&[]model.FetchRecord{}).Error)
	assert.Equal(t, 1, logs.FilterMessage("query").FilterLevelExact(zapcore.DebugLevel).Len())

	silent := gormDB.Session(&gorm.Session{Logger: gormDB.Logger.LogMode(logger.Silent)})
	require.Error(t, silent.Exec("SELECT * FROM missing_table").Error)
	assert.Equal(t, 0, logs.FilterMessage("query failed").Len())
}
