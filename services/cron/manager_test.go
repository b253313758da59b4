package cron

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/elevateacademy/portal-api/database"
	"github.com/elevateacademy/portal-api/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A file-backed DB (not ":memory:") so every pooled connection sees the
	// same migrated schema.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestJobLogCompletionTargetsOwnRow(t *testing.T) {
	db := newTestDB(t)
	m := NewCronManager(db)

	first := m.logJobStart("expire_stale_payments")
	second := m.logJobStart("expire_stale_payments")

	m.logJobComplete(first, "expire_stale_payments", "expired 3 payments")

	var firstLog, secondLog model.CronJobLog
	require.NoError(t, db.First(&firstLog, first).Error)
	require.NoError(t, db.First(&secondLog, second).Error)

	assert.Equal(t, "completed", firstLog.Status)
	assert.Equal(t, "expired 3 payments", firstLog.Message)
	assert.Equal(t, "running", secondLog.Status, "an overlapping run keeps its own row untouched")
	assert.Nil(t, secondLog.CompletedAt)
}

func TestJobLogErrorTargetsOwnRow(t *testing.T) {
	db := newTestDB(t)
	m := NewCronManager(db)

	first := m.logJobStart("recompute_course_counters")
	second := m.logJobStart("recompute_course_counters")

	m.logJobError(second, "recompute_course_counters", errors.New("connection reset"))

	var firstLog, secondLog model.CronJobLog
	require.NoError(t, db.First(&firstLog, first).Error)
	require.NoError(t, db.First(&secondLog, second).Error)

	assert.Equal(t, "running", firstLog.Status)
	assert.Equal(t, "failed", secondLog.Status)
	assert.Equal(t, "connection reset", secondLog.ErrorMsg)
}
