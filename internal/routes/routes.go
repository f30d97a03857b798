package routes

import (
	"time"

	"github.com/casaflow/casaflow-backend/internal/config"
	"github.com/casaflow/casaflow-backend/internal/handlers"
	"github.com/casaflow/casaflow-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	apartmentHandler *handlers.ApartmentHandler,
	issueHandler *handlers.IssueHandler,
	postHandler *handlers.PostHandler,
	ratingHandler *handlers.RatingHandler,
	reportHandler *handlers.ReportHandler,
) {
	api := app.Group("/api/v1")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limiter: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	jwt := middleware.JWTProtected(cfg)
	staff := middleware.StaffRequired(db)

	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Get("/auth/me", jwt, authHandler.Me)
	api.Delete("/auth/account", jwt, authHandler.DeleteAccount)

	// Profiles
	api.Get("/profiles", jwt, profileHandler.ListTenants)
	api.Get("/profiles/non-tenants", jwt, profileHandler.ListNonTenants)
	api.Get("/profiles/me", jwt, profileHandler.GetMine)
	api.Put("/profiles/me", jwt, profileHandler.UpdateMine)
	api.Get("/profiles/:username", jwt, profileHandler.GetByUsername)

	// Apartments
	api.Post("/apartments", jwt, apartmentHandler.Create)
	api.Get("/apartments/mine", jwt, apartmentHandler.ListMine)

	// Issues
	api.Post("/apartments/:apartment_id/issues", jwt, issueHandler.Create)
	api.Get("/issues", jwt, staff, issueHandler.List)
	api.Get("/issues/mine", jwt, issueHandler.ListMine)
	api.Get("/issues/assigned", jwt, issueHandler.ListAssigned)
	api.Get("/issues/:id", jwt, issueHandler.Get)
	api.Patch("/issues/:id", jwt, issueHandler.Update)
	api.Delete("/issues/:id", jwt, issueHandler.Delete)

	// Posts
	api.Post("/posts", jwt, postHandler.Create)
	api.Get("/posts", jwt, postHandler.List)
	api.Get("/posts/mine", jwt, postHandler.ListMine)
	api.Get("/posts/bookmarked", jwt, postHandler.Bookmarked)
	api.Get("/posts/top", jwt, postHandler.TopPosts)
	api.Get("/posts/tags/popular", jwt, postHandler.PopularTags)
	// Readable without a session; anonymous views are keyed by address.
	api.Get("/posts/:id", postHandler.Get)
	api.Patch("/posts/:id", jwt, postHandler.Update)
	api.Delete("/posts/:id", jwt, postHandler.Delete)
	api.Post("/posts/:id/bookmark", jwt, postHandler.Bookmark)
	api.Delete("/posts/:id/bookmark", jwt, postHandler.Unbookmark)
	api.Post("/posts/:id/upvote", jwt, postHandler.Upvote)
	api.Post("/posts/:id/downvote", jwt, postHandler.Downvote)
	api.Post("/posts/:id/replies", jwt, postHandler.CreateReply)
	api.Get("/posts/:id/replies", jwt, postHandler.ListReplies)

	// Ratings and reports
	api.Post("/ratings", jwt, ratingHandler.Create)
	api.Post("/reports", jwt, reportHandler.Create)
	api.Get("/reports/user/:user_id", jwt, staff, reportHandler.ListForUser)
}
