package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory SQLite database with the same gorm
// configuration as production (TranslateError in particular, so unique
// violations surface as gorm.ErrDuplicatedKey here too).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role identity.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedSuperuser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       username + "@example.com",
		Role:        identity.RoleUser,
		IsSuperuser: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed superuser %s: %v", username, err)
	}
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	cat := &models.Category{ID: uuid.New(), Name: slug, Slug: slug}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category %s: %v", slug, err)
	}
	return cat
}

func seedGenre(t *testing.T, db *gorm.DB, slug string) *models.Genre {
	t.Helper()
	genre := &models.Genre{ID: uuid.New(), Name: slug, Slug: slug}
	if err := db.Create(genre).Error; err != nil {
		t.Fatalf("seed genre %s: %v", slug, err)
	}
	return genre
}

func seedTitle(t *testing.T, db *gorm.DB, name string) *models.Title {
	t.Helper()
	title := &models.Title{ID: uuid.New(), Name: name, Year: 1994}
	if err := db.Create(title).Error; err != nil {
		t.Fatalf("seed title %s: %v", name, err)
	}
	return title
}

func titleRating(t *testing.T, db *gorm.DB, titleID uuid.UUID) *int {
	t.Helper()
	var title models.Title
	if err := db.First(&title, "id = ?", titleID).Error; err != nil {
		t.Fatalf("reload title: %v", err)
	}
	return title.Rating
}
