package dto

type CreateReportRequest struct {
	ReportedUsername string `json:"reported_username"`
	Title            string `json:"title"`
	Description      string `json:"description"`
}
