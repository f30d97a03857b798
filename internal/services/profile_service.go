package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	db      *gorm.DB
	ratings *RatingService
}

func NewProfileService(db *gorm.DB, ratings *RatingService) *ProfileService {
	return &ProfileService{db: db, ratings: ratings}
}

// ListTenants returns tenant profiles, excluding staff and superusers,
// optionally filtered by gender and country of origin.
func (s *ProfileService) ListTenants(ctx context.Context, filter dto.ProfileFilter, limit, offset int) ([]dto.ProfileResponse, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.is_staff = false AND users.is_superuser = false").
		Where("profiles.occupation = ?", models.OccupationTenant)

	if filter.Gender != "" {
		query = query.Where("profiles.gender = ?", filter.Gender)
	}
	if filter.Country != "" {
		query = query.Where("profiles.country_of_origin = ?", filter.Country)
	}

	return s.listProfiles(ctx, query, limit, offset)
}

// ListNonTenants returns service provider profiles, optionally filtered by
// occupation.
func (s *ProfileService) ListNonTenants(ctx context.Context, filter dto.ProfileFilter, limit, offset int) ([]dto.ProfileResponse, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.is_staff = false AND users.is_superuser = false").
		Where("profiles.occupation <> ?", models.OccupationTenant)

	if filter.Occupation != "" {
		query = query.Where("profiles.occupation = ?", filter.Occupation)
	}

	return s.listProfiles(ctx, query, limit, offset)
}

func (s *ProfileService) listProfiles(ctx context.Context, query *gorm.DB, limit, offset int) ([]dto.ProfileResponse, int64, error) {
	// Count before the column select; COUNT(profiles.*) is not valid SQL
	// everywhere.
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := query.Select("profiles.*").Preload("User").
		Order("profiles.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		resp, err := s.toResponse(ctx, &profiles[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// GetByUsername returns the public profile of one user.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).
		Select("profiles.*").
		Preload("User").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.username = ?", username).
		First(&profile).Error
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return s.toResponse(ctx, &profile)
}

// GetMine returns the requesting user's own profile.
func (s *ProfileService) GetMine(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return s.toResponse(ctx, &profile)
}

// UpdateMyProfile applies partial updates to the user's profile and name
// fields. Report count and reputation are moderation state and cannot be set
// here.
func (s *ProfileService) UpdateMyProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	db := s.db.WithContext(ctx)

	var profile models.Profile
	if err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, ErrProfileNotFound
	}

	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Occupation != nil {
		profile.Occupation = *req.Occupation
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.CountryOfOrigin != nil {
		profile.CountryOfOrigin = *req.CountryOfOrigin
	}
	if req.CityOfOrigin != nil {
		profile.CityOfOrigin = *req.CityOfOrigin
	}
	if req.Avatar != nil {
		profile.Avatar = *req.Avatar
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if req.FirstName != nil || req.LastName != nil {
			updates := map[string]interface{}{}
			if req.FirstName != nil {
				updates["first_name"] = *req.FirstName
				profile.User.FirstName = *req.FirstName
			}
			if req.LastName != nil {
				updates["last_name"] = *req.LastName
				profile.User.LastName = *req.LastName
			}
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, &profile)
}

func (s *ProfileService) toResponse(ctx context.Context, profile *models.Profile) (*dto.ProfileResponse, error) {
	avg, err := s.ratings.AverageRating(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		ID:              profile.ID,
		Username:        profile.User.Username,
		FullName:        profile.User.FullName(),
		Email:           profile.User.Email,
		Gender:          profile.Gender,
		Bio:             profile.Bio,
		Occupation:      profile.Occupation,
		PhoneNumber:     profile.PhoneNumber,
		CountryOfOrigin: profile.CountryOfOrigin,
		CityOfOrigin:    profile.CityOfOrigin,
		Avatar:          profile.Avatar,
		ReportCount:     profile.ReportCount,
		Reputation:      profile.Reputation,
		Standing:        profile.Standing(),
		AverageRating:   avg,
	}, nil
}
