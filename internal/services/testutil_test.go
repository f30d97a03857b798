package services

import (
	"context"
	"sync"
	"testing"

	"github.com/casaflow/casaflow-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Apartment{},
		&models.Issue{},
		&models.Post{},
		&models.Tag{},
		&models.Reply{},
		&models.PostBookmark{},
		&models.PostVote{},
		&models.Rating{},
		&models.Report{},
		&models.ContentView{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, occupation models.Occupation) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  string(hash),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Profile{
		ID:         uuid.New(),
		UserID:     user.ID,
		Occupation: occupation,
		Gender:     models.GenderOther,
	}
	require.NoError(t, db.Create(&profile).Error)
	return &user
}

// mockMailer counts sends per kind so tests can assert exactly which
// notifications went out. Set warnErr to simulate a broken SMTP relay.
type mockMailer struct {
	mu            sync.Mutex
	warnErr       error
	warnings      int
	deactivations int
	confirmations int
	resolutions   int
	assignments   int
}

func (m *mockMailer) SendWarning(_ context.Context, _ *models.User, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings++
	return m.warnErr
}

func (m *mockMailer) SendDeactivation(_ context.Context, _ *models.User, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deactivations++
	return nil
}

func (m *mockMailer) SendIssueConfirmation(_ context.Context, _ *models.Issue, _ *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	return nil
}

func (m *mockMailer) SendIssueResolved(_ context.Context, _ *models.Issue, _ *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions++
	return nil
}

func (m *mockMailer) SendIssueAssigned(_ context.Context, _ *models.Issue, _ *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments++
	return nil
}

// The schema must migrate and generate primary keys on sqlite as well as
// postgres, so key generation lives in BeforeCreate hooks rather than a
// postgres-only column default.
func TestCreateGeneratesPrimaryKey(t *testing.T) {
	db := openTestDB(t)

	tag := models.Tag{Name: "heating"}
	require.NoError(t, db.Create(&tag).Error)
	require.NotEqual(t, uuid.Nil, tag.ID)

	user := models.User{
		Email:    "nokey@example.com",
		Username: "nokey",
		Password: "x",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotEqual(t, uuid.Nil, user.ID)
}
