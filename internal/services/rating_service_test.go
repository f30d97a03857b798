package services

import (
	"context"
	"testing"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingRequest(target string, stars int) *dto.CreateRatingRequest {
	return &dto.CreateRatingRequest{
		RatedUsername: target,
		Rating:        stars,
		Comment:       "solid work",
	}
}

func TestCreateRatingTenantRatesProvider(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)
	plumber := createTestUser(t, db, "plumber", models.OccupationPlumber)

	rating, err := svc.CreateRating(context.Background(), tenant.ID, ratingRequest(plumber.Username, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	assert.Equal(t, plumber.ID, rating.RatedUserID)
}

func TestCreateRatingProviderRatesTenant(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)
	mason := createTestUser(t, db, "mason", models.OccupationMason)

	_, err := svc.CreateRating(context.Background(), mason.ID, ratingRequest(tenant.Username, 5))
	require.NoError(t, err)
}

func TestCreateRatingTenantRatesTenantRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	a := createTestUser(t, db, "tenant-a", models.OccupationTenant)
	b := createTestUser(t, db, "tenant-b", models.OccupationTenant)

	_, err := svc.CreateRating(context.Background(), a.ID, ratingRequest(b.Username, 3))
	assert.ErrorIs(t, err, ErrTenantRatesTenant)
}

func TestCreateRatingProviderRatesProviderRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	plumber := createTestUser(t, db, "plumber", models.OccupationPlumber)
	roofer := createTestUser(t, db, "roofer", models.OccupationRoofer)

	_, err := svc.CreateRating(context.Background(), plumber.ID, ratingRequest(roofer.Username, 3))
	assert.ErrorIs(t, err, ErrProviderRates)
}

func TestCreateRatingSelfRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)

	_, err := svc.CreateRating(context.Background(), tenant.ID, ratingRequest(tenant.Username, 5))
	assert.ErrorIs(t, err, ErrSelfRating)
}

func TestCreateRatingOutOfRangeRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	tenant := createTestUser(t, db, "tenant", models.OccupationTenant)
	plumber := createTestUser(t, db, "plumber", models.OccupationPlumber)

	_, err := svc.CreateRating(context.Background(), tenant.ID, ratingRequest(plumber.Username, 0))
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.CreateRating(context.Background(), tenant.ID, ratingRequest(plumber.Username, 6))
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestAverageRating(t *testing.T) {
	db := openTestDB(t)
	svc := NewRatingService(db)

	plumber := createTestUser(t, db, "plumber", models.OccupationPlumber)
	a := createTestUser(t, db, "tenant-a", models.OccupationTenant)
	b := createTestUser(t, db, "tenant-b", models.OccupationTenant)

	avg, err := svc.AverageRating(context.Background(), plumber.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = svc.CreateRating(context.Background(), a.ID, ratingRequest(plumber.Username, 5))
	require.NoError(t, err)
	_, err = svc.CreateRating(context.Background(), b.ID, ratingRequest(plumber.Username, 2))
	require.NoError(t, err)

	avg, err = svc.AverageRating(context.Background(), plumber.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.001)
}
