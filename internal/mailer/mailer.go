package mailer

import (
	"context"

	"github.com/casaflow/casaflow-backend/internal/models"
)

// Mailer abstracts outbound email delivery. All sends are fire-and-forget
// from the caller's point of view: errors are returned so the caller can log
// them, but no state transition depends on a send succeeding.
type Mailer interface {
	// SendWarning notifies a user about the first report filed against them.
	SendWarning(ctx context.Context, user *models.User, title, description string) error
	// SendDeactivation notifies a user that their account was deactivated
	// after accumulating too many reports.
	SendDeactivation(ctx context.Context, user *models.User, title, description string) error
	// SendIssueConfirmation confirms a newly reported maintenance issue to
	// its reporter.
	SendIssueConfirmation(ctx context.Context, issue *models.Issue, reporter *models.User) error
	// SendIssueResolved notifies the reporter that their issue was resolved.
	SendIssueResolved(ctx context.Context, issue *models.Issue, reporter *models.User) error
	// SendIssueAssigned notifies a service provider of a new assignment.
	SendIssueAssigned(ctx context.Context, issue *models.Issue, assignee *models.User) error
}
