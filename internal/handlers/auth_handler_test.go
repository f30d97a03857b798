package handlers

import (
	"bytes"
	"encoding/json"
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

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Profile{}))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
	authService := services.NewAuthService(db, cfg)
	authHandler := NewAuthHandler(authService, cfg)

	app := fiber.New()
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func cookieNames(resp *http.Response) []string {
	names := make([]string, 0, len(resp.Cookies()))
	for _, c := range resp.Cookies() {
		names = append(names, c.Name)
	}
	return names
}

func TestLoginSetsAuthCookies(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/register", fiber.Map{
		"email":    "casey@example.com",
		"username": "casey",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{
		"email":    "casey@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	names := cookieNames(resp)
	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
	assert.Contains(t, names, "logged_in")

	for _, c := range resp.Cookies() {
		switch c.Name {
		case "access_token", "refresh_token":
			assert.True(t, c.HttpOnly, "%s must be HttpOnly", c.Name)
		case "logged_in":
			assert.False(t, c.HttpOnly)
			assert.Equal(t, "true", c.Value)
		}
	}
}

func TestLoginBadCredentials(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}
