package dto

import (
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
)

type CreateIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Priority    models.IssuePriority `json:"priority"`
}

type UpdateIssueRequest struct {
	Status       *models.IssueStatus   `json:"status"`
	Priority     *models.IssuePriority `json:"priority"`
	AssignedToID *uuid.UUID            `json:"assigned_to_id"`
}

type IssueResponse struct {
	models.Issue
	ViewCount int64 `json:"view_count"`
}
