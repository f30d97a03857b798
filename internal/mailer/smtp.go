package mailer

import (
	"context"
	"fmt"

	"github.com/casaflow/casaflow-backend/internal/config"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers plain-text notification emails over SMTP.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendWarning(ctx context.Context, user *models.User, title, description string) error {
	subject := fmt.Sprintf("Warning: %s You have been reported!", user.FullName())
	body := fmt.Sprintf(
		"Dear %s,\n\nA report has been filed against you on %s.\n\nTitle: %s\n\n%s\n\n"+
			"Please note that accumulating five reports leads to account deactivation and eviction.\n\n%s",
		user.FullName(), m.cfg.SiteName, title, description, m.cfg.SiteName,
	)
	return m.send(ctx, user.Email, subject, body)
}

func (m *SMTPMailer) SendDeactivation(ctx context.Context, user *models.User, title, description string) error {
	subject := fmt.Sprintf("Account Deactivation & Eviction Notice! : %s", user.FullName())
	body := fmt.Sprintf(
		"Dear %s,\n\nYour account on %s has been deactivated after a fifth report was filed against you.\n\n"+
			"Final report title: %s\n\n%s\n\nThis decision is final.\n\n%s",
		user.FullName(), m.cfg.SiteName, title, description, m.cfg.SiteName,
	)
	return m.send(ctx, user.Email, subject, body)
}

func (m *SMTPMailer) SendIssueConfirmation(ctx context.Context, issue *models.Issue, reporter *models.User) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour issue report has been received and will be looked at shortly.\n\n"+
			"Title: %s\nDescription: %s\n\n%s",
		reporter.FullName(), issue.Title, issue.Description, m.cfg.SiteName,
	)
	return m.send(ctx, reporter.Email, "Issue Report Confirmation", body)
}

func (m *SMTPMailer) SendIssueResolved(ctx context.Context, issue *models.Issue, reporter *models.User) error {
	subject := fmt.Sprintf("Issue Resolved: %s", issue.Title)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour reported issue has been resolved.\n\nTitle: %s\n\n%s",
		reporter.FullName(), issue.Title, m.cfg.SiteName,
	)
	return m.send(ctx, reporter.Email, subject, body)
}

func (m *SMTPMailer) SendIssueAssigned(ctx context.Context, issue *models.Issue, assignee *models.User) error {
	subject := fmt.Sprintf("New Issue Assigned: %s", issue.Title)
	body := fmt.Sprintf(
		"Dear %s,\n\nA maintenance issue has been assigned to you.\n\n"+
			"Title: %s\nPriority: %s\nDescription: %s\n\n%s",
		assignee.FullName(), issue.Title, issue.Priority, issue.Description, m.cfg.SiteName,
	)
	return m.send(ctx, assignee.Email, subject, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(m.cfg.SMTPPort)}
	if m.cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTPUser),
			mail.WithPassword(m.cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
