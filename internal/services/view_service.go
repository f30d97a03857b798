package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViewService is the content view ledger: it deduplicates and counts "this
// entity was viewed by this identity" events across entity types. A viewer
// identity is either an authenticated user or an anonymous client IP; the two
// keys are never merged.
type ViewService struct {
	db *gorm.DB
}

func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{db: db}
}

// RecordView records a view of the given entity by the given viewer identity.
// A repeat view refreshes the last_viewed timestamp instead of inserting a
// second row. A uniqueness violation on insert means an identical concurrent
// view won the race; it is treated as success.
func (s *ViewService) RecordView(ctx context.Context, contentType models.ContentType, objectID uuid.UUID, userID *uuid.UUID, viewerIP *string) (*models.ContentView, bool, error) {
	db := s.db.WithContext(ctx)

	query := db.Where("content_type = ? AND object_id = ?", contentType, objectID)
	// NULLs are distinct under the unique index; match them explicitly.
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("user_id IS NULL")
	}
	if viewerIP != nil {
		query = query.Where("viewer_ip = ?", *viewerIP)
	} else {
		query = query.Where("viewer_ip IS NULL")
	}

	var view models.ContentView
	err := query.First(&view).Error
	if err == nil {
		now := time.Now().UTC()
		if err := db.Model(&models.ContentView{}).Where("id = ?", view.ID).
			Update("last_viewed", now).Error; err != nil {
			return nil, false, fmt.Errorf("failed to refresh content view: %w", err)
		}
		view.LastViewed = now
		return &view, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up content view: %w", err)
	}

	view = models.ContentView{
		ID:          uuid.New(),
		ContentType: contentType,
		ObjectID:    objectID,
		UserID:      userID,
		ViewerIP:    viewerIP,
		LastViewed:  time.Now().UTC(),
	}
	if err := db.Create(&view).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request recorded the same view first.
			return &view, false, nil
		}
		return nil, false, fmt.Errorf("failed to record content view: %w", err)
	}
	return &view, true, nil
}

// CountViews returns the number of distinct viewer identities that have
// viewed the given entity. The unique index guarantees one row per identity,
// so a plain count suffices.
func (s *ViewService) CountViews(ctx context.Context, contentType models.ContentType, objectID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ContentView{}).
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count content views: %w", err)
	}
	return count, nil
}
