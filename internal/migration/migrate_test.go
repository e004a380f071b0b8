package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestRun_CreatesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	missing, err := Pending(db)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kv_records", "kv_sequences"}, missing)

	require.NoError(t, Run(db))
	// idempotent
	require.NoError(t, Run(db))

	missing, err = Pending(db)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
