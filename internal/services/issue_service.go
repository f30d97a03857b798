package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/mailer"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrIssueNotFound      = errors.New("issue not found")
	ErrNotApartmentTenant = errors.New("you do not have permission to report issues for this apartment")
	ErrIssueViewDenied    = errors.New("you do not have permission to view this issue")
	ErrIssueUpdateDenied  = errors.New("you do not have permission to update this issue")
	ErrIssueDeleteDenied  = errors.New("you do not have permission to delete this issue")
)

type IssueService struct {
	db     *gorm.DB
	views  *ViewService
	mailer mailer.Mailer
}

func NewIssueService(db *gorm.DB, views *ViewService, mailer mailer.Mailer) *IssueService {
	return &IssueService{db: db, views: views, mailer: mailer}
}

// CreateIssue reports a maintenance issue for an apartment. Only the
// apartment's tenant may report against it. A confirmation email goes out to
// the reporter; a send failure is logged, not surfaced.
func (s *IssueService) CreateIssue(ctx context.Context, reporter *models.User, apartmentID uuid.UUID, req *dto.CreateIssueRequest) (*models.Issue, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("title and description are required")
	}

	db := s.db.WithContext(ctx)

	var apartment models.Apartment
	if err := db.Where("id = ? AND tenant_id = ?", apartmentID, reporter.ID).First(&apartment).Error; err != nil {
		return nil, ErrNotApartmentTenant
	}

	priority := req.Priority
	if priority == "" {
		priority = models.IssuePriorityLow
	}

	issue := models.Issue{
		ID:           uuid.New(),
		ApartmentID:  apartment.ID,
		ReportedByID: reporter.ID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.IssueStatusReported,
		Priority:     priority,
	}
	if err := db.Create(&issue).Error; err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	if err := s.mailer.SendIssueConfirmation(ctx, &issue, reporter); err != nil {
		slog.Error("issue confirmation email failed",
			"issue_id", issue.ID.String(), "user_id", reporter.ID.String(), "error", err)
	}
	return &issue, nil
}

// ListIssues returns all issues, newest first. Staff only; enforced in the
// route layer.
func (s *IssueService) ListIssues(ctx context.Context, limit, offset int) ([]models.Issue, int64, error) {
	var issues []models.Issue
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Issue{})
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// MyIssues returns issues reported by the user.
func (s *IssueService) MyIssues(ctx context.Context, userID uuid.UUID) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.db.WithContext(ctx).
		Where("reported_by_id = ?", userID).
		Order("created_at DESC").
		Find(&issues).Error
	return issues, err
}

// AssignedIssues returns issues assigned to the user.
func (s *IssueService) AssignedIssues(ctx context.Context, userID uuid.UUID) ([]models.Issue, error) {
	var issues []models.Issue
	err := s.db.WithContext(ctx).
		Where("assigned_to_id = ?", userID).
		Order("created_at DESC").
		Find(&issues).Error
	return issues, err
}

// GetIssue fetches one issue for its reporter, assignee or staff, records
// the view in the content view ledger, and returns the running view count.
// A ledger failure never fails the read.
func (s *IssueService) GetIssue(ctx context.Context, issueID uuid.UUID, requester *models.User, viewerIP *string) (*dto.IssueResponse, error) {
	var issue models.Issue
	if err := s.db.WithContext(ctx).Where("id = ?", issueID).First(&issue).Error; err != nil {
		return nil, ErrIssueNotFound
	}

	allowed := requester.IsStaff ||
		issue.ReportedByID == requester.ID ||
		(issue.AssignedToID != nil && *issue.AssignedToID == requester.ID)
	if !allowed {
		return nil, ErrIssueViewDenied
	}

	userID := requester.ID
	if _, _, err := s.views.RecordView(ctx, models.ContentTypeIssue, issue.ID, &userID, viewerIP); err != nil {
		slog.Error("failed to record issue view", "issue_id", issue.ID.String(), "error", err)
	}

	count, err := s.views.CountViews(ctx, models.ContentTypeIssue, issue.ID)
	if err != nil {
		slog.Error("failed to count issue views", "issue_id", issue.ID.String(), "error", err)
	}

	return &dto.IssueResponse{Issue: issue, ViewCount: count}, nil
}

// UpdateIssue lets staff or the assignee change status, priority and
// assignment. Resolving stamps ResolvedOn and emails the reporter; a
// reassignment emails the new assignee.
func (s *IssueService) UpdateIssue(ctx context.Context, issueID uuid.UUID, requester *models.User, req *dto.UpdateIssueRequest) (*models.Issue, error) {
	db := s.db.WithContext(ctx)

	var issue models.Issue
	if err := db.Where("id = ?", issueID).First(&issue).Error; err != nil {
		return nil, ErrIssueNotFound
	}

	allowed := requester.IsStaff ||
		(issue.AssignedToID != nil && *issue.AssignedToID == requester.ID)
	if !allowed {
		slog.Warn("unauthorized issue update attempt",
			"user_id", requester.ID.String(), "issue_id", issue.ID.String())
		return nil, ErrIssueUpdateDenied
	}

	oldAssignee := issue.AssignedToID
	oldStatus := issue.Status

	if req.Status != nil {
		issue.Status = *req.Status
	}
	if req.Priority != nil {
		issue.Priority = *req.Priority
	}
	if req.AssignedToID != nil {
		issue.AssignedToID = req.AssignedToID
	}

	resolved := oldStatus != models.IssueStatusResolved && issue.Status == models.IssueStatusResolved
	if resolved {
		now := time.Now().UTC()
		issue.ResolvedOn = &now
	}

	if err := db.Save(&issue).Error; err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	reassigned := issue.AssignedToID != nil &&
		(oldAssignee == nil || *oldAssignee != *issue.AssignedToID)
	if reassigned {
		var assignee models.User
		if err := db.First(&assignee, "id = ?", *issue.AssignedToID).Error; err == nil {
			if err := s.mailer.SendIssueAssigned(ctx, &issue, &assignee); err != nil {
				slog.Error("issue assignment email failed",
					"issue_id", issue.ID.String(), "error", err)
			}
		}
	}

	if resolved {
		var reporter models.User
		if err := db.First(&reporter, "id = ?", issue.ReportedByID).Error; err == nil {
			if err := s.mailer.SendIssueResolved(ctx, &issue, &reporter); err != nil {
				slog.Error("issue resolution email failed",
					"issue_id", issue.ID.String(), "error", err)
			}
		}
	}

	return &issue, nil
}

// DeleteIssue removes an issue; staff or the original reporter only.
func (s *IssueService) DeleteIssue(ctx context.Context, issueID uuid.UUID, requester *models.User) error {
	db := s.db.WithContext(ctx)

	var issue models.Issue
	if err := db.Where("id = ?", issueID).First(&issue).Error; err != nil {
		return ErrIssueNotFound
	}

	if !(requester.IsStaff || issue.ReportedByID == requester.ID) {
		slog.Warn("unauthorized issue deletion attempt",
			"user_id", requester.ID.String(), "issue_id", issue.ID.String())
		return ErrIssueDeleteDenied
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Views are owned by the viewed entity and go with it.
		tx.Where("content_type = ? AND object_id = ?", models.ContentTypeIssue, issue.ID).
			Delete(&models.ContentView{})
		return tx.Delete(&issue).Error
	})
}
