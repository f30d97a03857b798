package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportRequest(target string) *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		ReportedUsername: target,
		Title:            "Noise complaint",
		Description:      "Loud music after midnight",
	}
}

func loadProfile(t *testing.T, svc *ReportService, target *models.User) *models.Profile {
	t.Helper()
	var profile models.Profile
	require.NoError(t, svc.db.Where("user_id = ?", target.ID).First(&profile).Error)
	return &profile
}

func TestCreateReportFirstReportWarns(t *testing.T) {
	db := openTestDB(t)
	mm := &mockMailer{}
	svc := NewReportService(db, mm)

	reporter := createTestUser(t, db, "reporter", models.OccupationTenant)
	target := createTestUser(t, db, "target", models.OccupationTenant)

	_, err := svc.CreateReport(context.Background(), reporter.ID, reportRequest(target.Username))
	require.NoError(t, err)

	profile := loadProfile(t, svc, target)
	assert.Equal(t, 1, profile.ReportCount)
	assert.Equal(t, 80, profile.Reputation)
	assert.Equal(t, models.StandingWarned, profile.Standing())
	assert.Equal(t, 1, mm.warnings)
	assert.Equal(t, 0, mm.deactivations)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", target.ID).Error)
	assert.True(t, user.IsActive)
}

func TestCreateReportMidRangeIsSilent(t *testing.T) {
	db := openTestDB(t)
	mm := &mockMailer{}
	svc := NewReportService(db, mm)

	reporter := createTestUser(t, db, "reporter", models.OccupationTenant)
	target := createTestUser(t, db, "target", models.OccupationTenant)

	require.NoError(t, db.Model(&models.Profile{}).
		Where("user_id = ?", target.ID).
		Update("report_count", 2).Error)

	_, err := svc.CreateReport(context.Background(), reporter.ID, reportRequest(target.Username))
	require.NoError(t, err)

	profile := loadProfile(t, svc, target)
	assert.Equal(t, 3, profile.ReportCount)
	assert.Equal(t, 40, profile.Reputation)
	assert.Equal(t, models.StandingWarned, profile.Standing())
	assert.Equal(t, 0, mm.warnings)
	assert.Equal(t, 0, mm.deactivations)
}

func TestCreateReportFifthReportBans(t *testing.T) {
	db := openTestDB(t)
	mm := &mockMailer{}
	svc := NewReportService(db, mm)

	reporter := createTestUser(t, db, "reporter", models.OccupationTenant)
	target := createTestUser(t, db, "target", models.OccupationTenant)

	require.NoError(t, db.Model(&models.Profile{}).
		Where("user_id = ?", target.ID).
		Update("report_count", 4).Error)

	_, err := svc.CreateReport(context.Background(), reporter.ID, reportRequest(target.Username))
	require.NoError(t, err)

	profile := loadProfile(t, svc, target)
	assert.Equal(t, 5, profile.ReportCount)
	assert.Equal(t, 0, profile.Reputation)
	assert.Equal(t, models.StandingBanned, profile.Standing())
	assert.True(t, profile.IsBanned())
	assert.Equal(t, 0, mm.warnings)
	assert.Equal(t, 1, mm.deactivations)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", target.ID).Error)
	assert.False(t, user.IsActive)
}

func TestCreateReportCountsAccumulate(t *testing.T) {
	db := openTestDB(t)
	mm := &mockMailer{}
	svc := NewReportService(db, mm)

	target := createTestUser(t, db, "target", models.OccupationTenant)
	a := createTestUser(t, db, "reporter-a", models.OccupationTenant)
	b := createTestUser(t, db, "reporter-b", models.OccupationTenant)

	_, err := svc.CreateReport(context.Background(), a.ID, reportRequest(target.Username))
	require.NoError(t, err)
	_, err = svc.CreateReport(context.Background(), b.ID, reportRequest(target.Username))
	require.NoError(t, err)

	profile := loadProfile(t, svc, target)
	assert.Equal(t, 2, profile.ReportCount)
	assert.Equal(t, 60, profile.Reputation)
	// Only the first report crosses into warned.
	assert.Equal(t, 1, mm.warnings)

	_, total, err := svc.ListReports(context.Background(), target.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestCreateReportSelfReportRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewReportService(db, &mockMailer{})

	user := createTestUser(t, db, "selfie", models.OccupationTenant)

	_, err := svc.CreateReport(context.Background(), user.ID, reportRequest(user.Username))
	assert.ErrorIs(t, err, ErrSelfReport)
}

func TestCreateReportUnknownTarget(t *testing.T) {
	db := openTestDB(t)
	svc := NewReportService(db, &mockMailer{})

	reporter := createTestUser(t, db, "reporter", models.OccupationTenant)

	_, err := svc.CreateReport(context.Background(), reporter.ID, reportRequest("ghost"))
	assert.ErrorIs(t, err, ErrReportedUserNotFound)
}

func TestCreateReportConcurrentReportsBothCount(t *testing.T) {
	db := openTestDB(t)
	svc := NewReportService(db, &mockMailer{})

	alice := createTestUser(t, db, "alice", models.OccupationTenant)
	bob := createTestUser(t, db, "bob", models.OccupationTenant)
	target := createTestUser(t, db, "target", models.OccupationTenant)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, reporter := range []*models.User{alice, bob} {
		wg.Add(1)
		go func(reporterID uuid.UUID) {
			defer wg.Done()
			_, err := svc.CreateReport(context.Background(), reporterID, reportRequest(target.Username))
			errs <- err
		}(reporter.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	profile := loadProfile(t, svc, target)
	assert.Equal(t, 2, profile.ReportCount)
	assert.Equal(t, 60, profile.Reputation)
}

func TestCreateReportWarningEmailFailureKeepsCount(t *testing.T) {
	db := openTestDB(t)
	mm := &mockMailer{warnErr: errors.New("relay unreachable")}
	svc := NewReportService(db, mm)

	reporter := createTestUser(t, db, "reporter", models.OccupationTenant)
	target := createTestUser(t, db, "target", models.OccupationTenant)

	// The failed send is logged, not surfaced, and the increment sticks.
	_, err := svc.CreateReport(context.Background(), reporter.ID, reportRequest(target.Username))
	require.NoError(t, err)

	profile := loadProfile(t, svc, target)
	assert.Equal(t, 1, profile.ReportCount)
	assert.Equal(t, 80, profile.Reputation)
	assert.Equal(t, 1, mm.warnings)

	var reports int64
	require.NoError(t, db.Model(&models.Report{}).
		Where("reported_user_id = ?", target.ID).Count(&reports).Error)
	assert.EqualValues(t, 1, reports)
}
