package dto

import "github.com/casaflow/casaflow-backend/internal/models"

type CreatePostRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title *string  `json:"title"`
	Body  *string  `json:"body"`
	Tags  []string `json:"tags"`
}

type CreateReplyRequest struct {
	Body string `json:"body"`
}

type PostResponse struct {
	models.Post
	AuthorUsername string `json:"author_username"`
	RepliesCount   int64  `json:"replies_count"`
	ViewCount      int64  `json:"view_count"`
	Bookmarked     bool   `json:"bookmarked"`
}

type PopularTagResponse struct {
	Name      string `json:"name"`
	PostCount int64  `json:"post_count"`
}
