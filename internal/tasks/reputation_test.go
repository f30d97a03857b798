package tasks

import (
	"testing"

	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Profile{}))
	return db
}

func TestSweepRepairsDriftedReputation(t *testing.T) {
	db := openTestDB(t)

	user := models.User{
		ID:       uuid.New(),
		Email:    "drift@example.com",
		Username: "drift",
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Profile{
		ID:         uuid.New(),
		UserID:     user.ID,
		Occupation: models.OccupationTenant,
	}
	require.NoError(t, db.Create(&profile).Error)

	// Simulate out-of-band drift: count says 3, reputation still 100.
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", profile.ID).
		Updates(map[string]interface{}{"report_count": 3, "reputation": 100}).Error)

	require.NoError(t, SweepReputations(db))

	var got models.Profile
	require.NoError(t, db.First(&got, "id = ?", profile.ID).Error)
	assert.Equal(t, 3, got.ReportCount)
	assert.Equal(t, 40, got.Reputation)
}

func TestSweepLeavesConsistentRowsAlone(t *testing.T) {
	db := openTestDB(t)

	user := models.User{
		ID:       uuid.New(),
		Email:    "steady@example.com",
		Username: "steady",
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Profile{
		ID:         uuid.New(),
		UserID:     user.ID,
		Occupation: models.OccupationTenant,
	}
	require.NoError(t, db.Create(&profile).Error)

	var before models.Profile
	require.NoError(t, db.First(&before, "id = ?", profile.ID).Error)

	require.NoError(t, SweepReputations(db))

	var after models.Profile
	require.NoError(t, db.First(&after, "id = ?", profile.ID).Error)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, 100, after.Reputation)
}
