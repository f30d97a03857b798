package services

import (
	"context"
	"errors"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRatedUserNotFound = errors.New("rated user not found")
	ErrSelfRating        = errors.New("you cannot rate yourself")
	ErrTenantRatesTenant = errors.New("a tenant cannot rate another tenant")
	ErrNotRateable       = errors.New("a tenant can only rate a service provider")
	ErrProviderRates     = errors.New("a service provider cannot rate another service provider")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// RatingService creates ratings under the occupation matrix: tenants rate
// service providers, service providers rate tenants, nobody rates themselves
// or their own kind.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

func (s *RatingService) CreateRating(ctx context.Context, ratingUserID uuid.UUID, req *dto.CreateRatingRequest) (*models.Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	db := s.db.WithContext(ctx)

	var rated models.User
	if err := db.Where("username = ?", req.RatedUsername).First(&rated).Error; err != nil {
		return nil, ErrRatedUserNotFound
	}
	if rated.ID == ratingUserID {
		return nil, ErrSelfRating
	}

	var ratingProfile, ratedProfile models.Profile
	if err := db.Where("user_id = ?", ratingUserID).First(&ratingProfile).Error; err != nil {
		return nil, errors.New("both users must have a valid occupation")
	}
	if err := db.Where("user_id = ?", rated.ID).First(&ratedProfile).Error; err != nil {
		return nil, errors.New("both users must have a valid occupation")
	}

	if ratingProfile.Occupation == models.OccupationTenant {
		if ratedProfile.Occupation == models.OccupationTenant {
			return nil, ErrTenantRatesTenant
		}
		if !ratedProfile.Occupation.IsServiceProvider() {
			return nil, ErrNotRateable
		}
	} else {
		if ratedProfile.Occupation != models.OccupationTenant {
			return nil, ErrProviderRates
		}
	}

	rating := models.Rating{
		ID:           uuid.New(),
		RatedUserID:  rated.ID,
		RatingUserID: ratingUserID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := db.Create(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// AverageRating returns the mean rating received by a user, 0 if unrated.
func (s *RatingService) AverageRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Where("rated_user_id = ?", userID).
		Select("AVG(rating)").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
