package handlers

import (
	"errors"

	"github.com/casaflow/casaflow-backend/internal/dto"
	"github.com/casaflow/casaflow-backend/internal/middleware"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/casaflow/casaflow-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *services.PostService
	authService *services.AuthService
}

func NewPostHandler(postService *services.PostService, authService *services.AuthService) *PostHandler {
	return &PostHandler{postService: postService, authService: authService}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	post, err := h.postService.CreatePost(c.UserContext(), user, &req)
	if err != nil {
		if errors.Is(err, services.ErrPostingForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	posts, total, err := h.postService.ListPosts(c.UserContext(), c.Query("tag"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list posts",
		})
	}
	return c.JSON(fiber.Map{"posts": posts, "total": total})
}

func (h *PostHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	posts, err := h.postService.MyPosts(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list posts",
		})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	// Posts are readable without a session; views are attributed to the user
	// when one is logged in, to the caller address otherwise.
	var userID *uuid.UUID
	if id, err := middleware.CurrentUserID(c); err == nil {
		userID = &id
	}
	ip := clientIP(c)

	resp, err := h.postService.GetPost(c.UserContext(), postID, userID, &ip)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Post not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load post",
		})
	}
	return c.JSON(resp)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	post, err := h.postService.UpdatePost(c.UserContext(), postID, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Post not found",
			})
		}
		if errors.Is(err, services.ErrNotPostAuthor) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	if err := h.postService.DeletePost(c.UserContext(), postID, user); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Post not found",
			})
		}
		if errors.Is(err, services.ErrNotPostAuthor) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete post",
		})
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func (h *PostHandler) Bookmark(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	if err := h.postService.Bookmark(c.UserContext(), postID, userID); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Post not found",
			})
		}
		if errors.Is(err, services.ErrAlreadyBookmarked) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to bookmark post",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post bookmarked"})
}

func (h *PostHandler) Unbookmark(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	if err := h.postService.Unbookmark(c.UserContext(), postID, userID); err != nil {
		if errors.Is(err, services.ErrNotBookmarked) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to remove bookmark",
		})
	}
	return c.JSON(fiber.Map{"message": "Bookmark removed"})
}

func (h *PostHandler) Bookmarked(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	posts, err := h.postService.BookmarkedPosts(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list bookmarks",
		})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

func (h *PostHandler) Upvote(c *fiber.Ctx) error {
	return h.vote(c, models.VoteUp)
}

func (h *PostHandler) Downvote(c *fiber.Ctx) error {
	return h.vote(c, models.VoteDown)
}

func (h *PostHandler) vote(c *fiber.Ctx, kind models.VoteKind) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	if err := h.postService.Vote(c.UserContext(), postID, userID, kind); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Post not found",
			})
		}
		if errors.Is(err, services.ErrAlreadyVoted) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to vote",
		})
	}
	return c.JSON(fiber.Map{"message": "Vote recorded"})
}

func (h *PostHandler) CreateReply(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	reply, err := h.postService.CreateReply(c.UserContext(), postID, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Post not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (h *PostHandler) ListReplies(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid post id",
		})
	}

	replies, err := h.postService.ListReplies(c.UserContext(), postID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list replies",
		})
	}
	return c.JSON(fiber.Map{"replies": replies})
}

func (h *PostHandler) PopularTags(c *fiber.Ctx) error {
	tags, err := h.postService.PopularTags(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tags",
		})
	}
	return c.JSON(fiber.Map{"tags": tags})
}

func (h *PostHandler) TopPosts(c *fiber.Ctx) error {
	posts, err := h.postService.TopPosts(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list top posts",
		})
	}
	return c.JSON(fiber.Map{"posts": posts})
}
