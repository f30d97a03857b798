package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrNotPostAuthor     = errors.New("you can only update your own post")
	ErrPostingForbidden  = errors.New("only tenants and staff can create posts")
	ErrAlreadyBookmarked = errors.New("post already bookmarked")
	ErrNotBookmarked     = errors.New("post is not bookmarked")
	ErrAlreadyVoted      = errors.New("you have already cast this vote")
	ErrInvalidVote       = errors.New("vote must be up or down")
)

type PostService struct {
	db    *gorm.DB
	views *ViewService
}

func NewPostService(db *gorm.DB, views *ViewService) *PostService {
	return &PostService{db: db, views: views}
}

// CreatePost publishes a community post. Tenants, staff and superusers may
// post; service providers may only read and reply.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, req *dto.CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, errors.New("title and body are required")
	}

	db := s.db.WithContext(ctx)

	if !author.IsStaff && !author.IsSuperuser {
		var profile models.Profile
		if err := db.Where("user_id = ?", author.ID).First(&profile).Error; err != nil {
			return nil, ErrPostingForbidden
		}
		if profile.Occupation != models.OccupationTenant {
			return nil, ErrPostingForbidden
		}
	}

	post := models.Post{
		ID:       uuid.New(),
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: author.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&post).Association("Tags").Append(tags); err != nil {
				return fmt.Errorf("failed to attach tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// resolveTags fetches or creates the named tags. Names are normalized to
// lowercase so "Plumbing" and "plumbing" share one tag.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{ID: uuid.New(), Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				// Another request may have created the same tag meanwhile.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
						return nil, err
					}
				} else {
					return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
				}
			}
		} else if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ListPosts returns posts ordered by upvotes, then recency, optionally
// filtered to a single tag.
func (s *PostService) ListPosts(ctx context.Context, tag string, limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Post{})
	if tag != "" {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", strings.ToLower(tag))
	}
	// Count before the column select; COUNT(posts.*) is not valid SQL
	// everywhere.
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Select("posts.*").Preload("Tags").
		Order("upvotes DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// MyPosts returns the user's own posts, newest first.
func (s *PostService) MyPosts(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// GetPost fetches a post with its derived counts, recording the read in the
// content view ledger. userID and viewerIP identify the viewer; either may be
// nil for anonymous reads.
func (s *PostService) GetPost(ctx context.Context, postID uuid.UUID, userID *uuid.UUID, viewerIP *string) (*dto.PostResponse, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Preload("Tags").Preload("Author").Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, ErrPostNotFound
	}

	if _, _, err := s.views.RecordView(ctx, models.ContentTypePost, post.ID, userID, viewerIP); err != nil {
		slog.Error("failed to record post view", "post_id", post.ID.String(), "error", err)
	}

	viewCount, err := s.views.CountViews(ctx, models.ContentTypePost, post.ID)
	if err != nil {
		slog.Error("failed to count post views", "post_id", post.ID.String(), "error", err)
	}

	var repliesCount int64
	db.Model(&models.Reply{}).Where("post_id = ?", post.ID).Count(&repliesCount)

	bookmarked := false
	if userID != nil {
		var n int64
		db.Model(&models.PostBookmark{}).
			Where("post_id = ? AND user_id = ?", post.ID, *userID).Count(&n)
		bookmarked = n > 0
	}

	return &dto.PostResponse{
		Post:           post,
		AuthorUsername: post.Author.Username,
		RepliesCount:   repliesCount,
		ViewCount:      viewCount,
		Bookmarked:     bookmarked,
	}, nil
}

// UpdatePost edits a post's title, body or tags. Author only.
func (s *PostService) UpdatePost(ctx context.Context, postID, userID uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error) {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Preload("Tags").Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != userID {
		return nil, ErrNotPostAuthor
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&post).Error; err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		if req.Tags != nil {
			tags, err := resolveTags(tx, req.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and everything hanging off it; author or staff
// only.
func (s *PostService) DeletePost(ctx context.Context, postID uuid.UUID, requester *models.User) error {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Where("id = ?", postID).First(&post).Error; err != nil {
		return ErrPostNotFound
	}
	if !(requester.IsStaff || post.AuthorID == requester.ID) {
		return ErrNotPostAuthor
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostBookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND object_id = ?", models.ContentTypePost, post.ID).
			Delete(&models.ContentView{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// Bookmark saves a post for later; at most one bookmark per post and user.
func (s *PostService) Bookmark(ctx context.Context, postID, userID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Select("id").Where("id = ?", postID).First(&post).Error; err != nil {
		return ErrPostNotFound
	}

	bookmark := models.PostBookmark{ID: uuid.New(), PostID: postID, UserID: userID}
	if err := db.Create(&bookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBookmarked
		}
		return err
	}
	return nil
}

// Unbookmark removes a saved post.
func (s *PostService) Unbookmark(ctx context.Context, postID, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostBookmark{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotBookmarked
	}
	return nil
}

// BookmarkedPosts returns the user's bookmarked posts, most recently
// bookmarked first.
func (s *PostService) BookmarkedPosts(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Select("posts.*").
		Preload("Tags").
		Joins("JOIN post_bookmarks ON post_bookmarks.post_id = posts.id").
		Where("post_bookmarks.user_id = ?", userID).
		Order("post_bookmarks.created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Vote records an up or down vote. Casting the same vote twice is an error;
// casting the opposite vote switches it and adjusts both counters in one
// transaction so the stored tallies always match the vote rows.
func (s *PostService) Vote(ctx context.Context, postID, userID uuid.UUID, kind models.VoteKind) error {
	if kind != models.VoteUp && kind != models.VoteDown {
		return ErrInvalidVote
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").Where("id = ?", postID).First(&post).Error; err != nil {
			return ErrPostNotFound
		}

		column := "upvotes"
		otherColumn := "downvotes"
		if kind == models.VoteDown {
			column, otherColumn = otherColumn, column
		}

		var existing models.PostVote
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.PostVote{ID: uuid.New(), PostID: postID, UserID: userID, Kind: kind}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyVoted
				}
				return err
			}
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn(column, gorm.Expr(column+" + 1")).Error
		case err != nil:
			return err
		case existing.Kind == kind:
			return ErrAlreadyVoted
		default:
			if err := tx.Model(&existing).Update("kind", kind).Error; err != nil {
				return err
			}
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumns(map[string]interface{}{
					column:      gorm.Expr(column + " + 1"),
					otherColumn: gorm.Expr(otherColumn + " - 1"),
				}).Error
		}
	})
}

// CreateReply adds a reply to a post. Any authenticated user may reply.
func (s *PostService) CreateReply(ctx context.Context, postID, authorID uuid.UUID, req *dto.CreateReplyRequest) (*models.Reply, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, errors.New("body is required")
	}

	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.Select("id").Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, ErrPostNotFound
	}

	reply := models.Reply{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Body:     req.Body,
	}
	if err := db.Create(&reply).Error; err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return &reply, nil
}

// ListReplies returns a post's replies, oldest first.
func (s *PostService) ListReplies(ctx context.Context, postID uuid.UUID) ([]models.Reply, error) {
	var replies []models.Reply
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// PopularTags returns the five tags attached to the most posts.
func (s *PostService) PopularTags(ctx context.Context) ([]dto.PopularTagResponse, error) {
	var tags []dto.PopularTagResponse
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.name, COUNT(post_tags.post_id) AS post_count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("post_count DESC").
		Limit(5).
		Scan(&tags).Error
	return tags, err
}

// TopPosts returns the six posts ranked by upvotes, then views, then reply
// count.
func (s *PostService) TopPosts(ctx context.Context) ([]dto.PostResponse, error) {
	db := s.db.WithContext(ctx)

	var posts []models.Post
	err := db.Model(&models.Post{}).
		Select(`posts.*,
			(SELECT COUNT(*) FROM content_views WHERE content_views.content_type = ? AND content_views.object_id = posts.id) AS view_count,
			(SELECT COUNT(*) FROM replies WHERE replies.post_id = posts.id) AS replies_count`,
			models.ContentTypePost).
		Order("upvotes DESC, view_count DESC, replies_count DESC").
		Limit(6).
		Preload("Tags").Preload("Author").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		viewCount, err := s.views.CountViews(ctx, models.ContentTypePost, posts[i].ID)
		if err != nil {
			return nil, err
		}
		var repliesCount int64
		if err := db.Model(&models.Reply{}).
			Where("post_id = ?", posts[i].ID).Count(&repliesCount).Error; err != nil {
			return nil, err
		}
		out = append(out, dto.PostResponse{
			Post:           posts[i],
			AuthorUsername: posts[i].Author.Username,
			RepliesCount:   repliesCount,
			ViewCount:      viewCount,
		})
	}
	return out, nil
}
