package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/mailer"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportedUserNotFound = errors.New("reported user not found")
	ErrSelfReport           = errors.New("you cannot report yourself")
)

// ReportService ingests complaint reports and drives the per-user moderation
// state machine: good_standing (0 reports) -> warned (1-4) -> banned (>=5).
// Reports are never retracted, so a ban is terminal.
type ReportService struct {
	db     *gorm.DB
	mailer mailer.Mailer
}

func NewReportService(db *gorm.DB, mailer mailer.Mailer) *ReportService {
	return &ReportService{db: db, mailer: mailer}
}

// CreateReport files a report against a user and applies the moderation
// transition in one transaction: the report row is inserted, the target's
// report count is incremented under a row lock (which re-derives reputation
// on save), and the standing before and after the increment decides the side
// effects. Crossing into warned sends a warning email; crossing into banned
// deactivates the account and sends a deactivation email. Email failures are
// logged and never roll back the transition.
func (s *ReportService) CreateReport(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("title and description are required")
	}

	var target models.User
	if err := s.db.WithContext(ctx).Where("username = ?", req.ReportedUsername).First(&target).Error; err != nil {
		return nil, ErrReportedUserNotFound
	}
	if target.ID == reporterID {
		return nil, ErrSelfReport
	}

	report := models.Report{
		ID:             uuid.New(),
		ReportedByID:   &reporterID,
		ReportedUserID: &target.ID,
		Title:          req.Title,
		Description:    req.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		// Blind increment first: the UPDATE takes the row lock, so two
		// concurrent reports against the same target serialize here and
		// neither increment is lost.
		result := tx.Model(&models.Profile{}).Where("user_id = ?", target.ID).
			UpdateColumn("report_count", gorm.Expr("report_count + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to increment report count: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("profile not found for user %s", target.ID)
		}

		var profile models.Profile
		if err := tx.Where("user_id = ?", target.ID).First(&profile).Error; err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		previous := models.StandingForCount(profile.ReportCount - 1)
		current := profile.Standing()

		// Save re-derives reputation from the new count via the model hook.
		if err := tx.Save(&profile).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		switch {
		case previous == models.StandingGood && current == models.StandingWarned:
			if err := s.mailer.SendWarning(ctx, &target, report.Title, report.Description); err != nil {
				slog.Error("warning email failed",
					"user_id", target.ID.String(), "report_title", report.Title, "error", err)
			}
		case previous != models.StandingBanned && current == models.StandingBanned:
			if err := tx.Model(&models.User{}).Where("id = ?", target.ID).
				Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to deactivate user: %w", err)
			}
			if err := s.mailer.SendDeactivation(ctx, &target, report.Title, report.Description); err != nil {
				slog.Error("deactivation email failed",
					"user_id", target.ID.String(), "report_title", report.Title, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReports returns reports filed against the given user, newest first.
func (s *ReportService) ListReports(ctx context.Context, targetID uuid.UUID, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Report{}).Where("reported_user_id = ?", targetID)
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
