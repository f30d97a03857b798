package services

import (
	"context"
	"errors"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUnitTaken = errors.New("an apartment with this unit number already exists")

type ApartmentService struct {
	db *gorm.DB
}

func NewApartmentService(db *gorm.DB) *ApartmentService {
	return &ApartmentService{db: db}
}

// CreateApartment registers an apartment with the requesting user as tenant.
func (s *ApartmentService) CreateApartment(ctx context.Context, tenantID uuid.UUID, req *dto.CreateApartmentRequest) (*models.Apartment, error) {
	if req.UnitNumber == "" || req.Building == "" {
		return nil, errors.New("unit number and building are required")
	}

	apartment := models.Apartment{
		ID:         uuid.New(),
		UnitNumber: req.UnitNumber,
		Building:   req.Building,
		Floor:      req.Floor,
		TenantID:   &tenantID,
	}
	if err := s.db.WithContext(ctx).Create(&apartment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUnitTaken
		}
		return nil, err
	}
	return &apartment, nil
}

// ListMine returns the apartments the user occupies.
func (s *ApartmentService) ListMine(ctx context.Context, tenantID uuid.UUID) ([]models.Apartment, error) {
	var apartments []models.Apartment
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&apartments).Error
	return apartments, err
}
