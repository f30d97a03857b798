package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casaflow/casaflow-backend/internal/config"
	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/casaflow/casaflow-backend/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPostTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.Profile{},
		&models.Post{}, &models.Tag{}, &models.Reply{},
		&models.PostBookmark{}, &models.PostVote{}, &models.ContentView{},
	))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
	postService := services.NewPostService(db, services.NewViewService(db))
	authService := services.NewAuthService(db, cfg)
	postHandler := NewPostHandler(postService, authService)

	app := fiber.New()
	app.Get("/posts/:id", postHandler.Get)
	return app, db
}

func TestGetPostAnonymousRecordsIPView(t *testing.T) {
	app, db := newPostTestApp(t)

	author := models.User{
		Email:    "author@example.com",
		Username: "author",
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, db.Create(&author).Error)
	post := models.Post{Title: "Lobby door broken", Body: "Still broken", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	get := func() *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/posts/"+post.ID.String(), nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.50")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := get()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view models.ContentView
	require.NoError(t, db.Where("content_type = ? AND object_id = ?",
		models.ContentTypePost, post.ID).First(&view).Error)
	assert.Nil(t, view.UserID)
	require.NotNil(t, view.ViewerIP)
	assert.Equal(t, "203.0.113.50", *view.ViewerIP)

	// A repeat visit from the same address does not add a row.
	resp = get()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.ContentView{}).
		Where("content_type = ? AND object_id = ?", models.ContentTypePost, post.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
