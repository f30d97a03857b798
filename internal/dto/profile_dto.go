package dto

import (
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID              uuid.UUID         `json:"id"`
	Username        string            `json:"username"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Gender          models.Gender     `json:"gender"`
	Bio             string            `json:"bio"`
	Occupation      models.Occupation `json:"occupation"`
	PhoneNumber     string            `json:"phone_number"`
	CountryOfOrigin string            `json:"country_of_origin"`
	CityOfOrigin    string            `json:"city_of_origin"`
	Avatar          string            `json:"avatar"`
	ReportCount     int               `json:"report_count"`
	Reputation      int               `json:"reputation"`
	Standing        models.Standing   `json:"standing"`
	AverageRating   float64           `json:"average_rating"`
}

type UpdateProfileRequest struct {
	FirstName       *string            `json:"first_name"`
	LastName        *string            `json:"last_name"`
	Gender          *models.Gender     `json:"gender"`
	Bio             *string            `json:"bio"`
	Occupation      *models.Occupation `json:"occupation"`
	PhoneNumber     *string            `json:"phone_number"`
	CountryOfOrigin *string            `json:"country_of_origin"`
	CityOfOrigin    *string            `json:"city_of_origin"`
	Avatar          *string            `json:"avatar"`
}

type ProfileFilter struct {
	Occupation string
	Gender     string
	Country    string
}
