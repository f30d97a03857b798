package services

import (
	"context"
	"testing"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTenantsExcludesProvidersAndStaff(t *testing.T) {
	db := openTestDB(t)
	svc := NewProfileService(db, NewRatingService(db))

	createTestUser(t, db, "tenant-a", models.OccupationTenant)
	createTestUser(t, db, "tenant-b", models.OccupationTenant)
	createTestUser(t, db, "plumber", models.OccupationPlumber)
	staff := createTestUser(t, db, "staff", models.OccupationTenant)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", staff.ID).
		Update("is_staff", true).Error)

	profiles, total, err := svc.ListTenants(context.Background(), dto.ProfileFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, p := range profiles {
		assert.Equal(t, models.OccupationTenant, p.Occupation)
		assert.NotEqual(t, "staff", p.Username)
	}
}

func TestListNonTenantsFiltersByOccupation(t *testing.T) {
	db := openTestDB(t)
	svc := NewProfileService(db, NewRatingService(db))

	createTestUser(t, db, "tenant", models.OccupationTenant)
	createTestUser(t, db, "plumber", models.OccupationPlumber)
	createTestUser(t, db, "roofer", models.OccupationRoofer)

	profiles, total, err := svc.ListNonTenants(context.Background(), dto.ProfileFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	profiles, total, err = svc.ListNonTenants(context.Background(),
		dto.ProfileFilter{Occupation: "roofer"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, profiles, 1)
	assert.Equal(t, "roofer", profiles[0].Username)
}

func TestGetByUsernameIncludesModerationAndRating(t *testing.T) {
	db := openTestDB(t)
	ratings := NewRatingService(db)
	svc := NewProfileService(db, ratings)

	plumber := createTestUser(t, db, "plumber", models.OccupationPlumber)
	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)

	_, err := ratings.CreateRating(context.Background(), tenant.ID, &dto.CreateRatingRequest{
		RatedUsername: plumber.Username, Rating: 4,
	})
	require.NoError(t, err)

	resp, err := svc.GetByUsername(context.Background(), "plumber")
	require.NoError(t, err)
	assert.Equal(t, models.StandingGood, resp.Standing)
	assert.Equal(t, 100, resp.Reputation)
	assert.InDelta(t, 4.0, resp.AverageRating, 0.001)

	_, err = svc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateMyProfileAppliesPartialChanges(t *testing.T) {
	db := openTestDB(t)
	svc := NewProfileService(db, NewRatingService(db))

	user := createTestUser(t, db, "editor", models.OccupationTenant)

	bio := "long-time resident"
	first := "Robin"
	occupation := models.OccupationCarpenter
	resp, err := svc.UpdateMyProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{
		Bio:        &bio,
		FirstName:  &first,
		Occupation: &occupation,
	})
	require.NoError(t, err)
	assert.Equal(t, "long-time resident", resp.Bio)
	assert.Equal(t, models.OccupationCarpenter, resp.Occupation)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.Equal(t, "Robin", got.FirstName)
	// Untouched fields keep their values.
	assert.Equal(t, "User", got.LastName)
}
