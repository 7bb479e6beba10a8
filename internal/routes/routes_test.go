package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

type capturedCode struct{ code string }

func (d *capturedCode) Deliver(_, _, code string) error {
	d.code = code
	return nil
}

type fixture struct {
	app      *fiber.App
	db       *gorm.DB
	cfg      *config.Config
	delivery *capturedCode
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:routes%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// The health endpoint pings through the package-level handle.
	database.DB = db

	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour}
	delivery := &capturedCode{}

	app := fiber.New()
	Setup(app, cfg, db, Handlers{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(db, cfg, delivery)),
		User:    handlers.NewUserHandler(services.NewUserService(db)),
		Catalog: handlers.NewCatalogHandler(services.NewCatalogService(db)),
		Title:   handlers.NewTitleHandler(services.NewCatalogService(db)),
		Review:  handlers.NewReviewHandler(services.NewReviewService(db)),
		Comment: handlers.NewCommentHandler(services.NewCommentService(db)),
		Health:  handlers.NewHealthHandler(),
	})
	return &fixture{app: app, db: db, cfg: cfg, delivery: delivery}
}

func (f *fixture) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// tokenFor signs a bearer token directly, bypassing the signup flow, for
// actors seeded straight into the database.
func (f *fixture) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role.String(),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(f.cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func (f *fixture) seedUser(t *testing.T, username string, role identity.Role) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.New(), Username: username, Email: username + "@example.com", Role: role}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (f *fixture) seedTitle(t *testing.T, name string) *models.Title {
	t.Helper()
	title := &models.Title{ID: uuid.New(), Name: name, Year: 1995}
	if err := f.db.Create(title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}
	return title
}

func TestSignupTokenReviewFlow(t *testing.T) {
	f := newFixture(t)
	title := f.seedTitle(t, "Heat")

	// Sign up and receive a confirmation code out of band.
	resp := f.request(t, "POST", "/api/v1/auth/signup", "",
		fiber.Map{"email": "alice@example.com", "username": "alice"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	resp.Body.Close()
	if len(f.delivery.code) != 5 {
		t.Fatalf("no code delivered: %q", f.delivery.code)
	}

	// A wrong code is rejected before any token is issued.
	wrongCode := "99999"
	if f.delivery.code == wrongCode {
		wrongCode = "99998"
	}
	resp = f.request(t, "POST", "/api/v1/auth/token", "",
		fiber.Map{"username": "alice", "confirmation_code": wrongCode})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong code status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// An unknown username is a 404, distinguishable from a wrong code.
	resp = f.request(t, "POST", "/api/v1/auth/token", "",
		fiber.Map{"username": "nobody", "confirmation_code": f.delivery.code})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The right code yields a bearer token.
	resp = f.request(t, "POST", "/api/v1/auth/token", "",
		fiber.Map{"username": "alice", "confirmation_code": f.delivery.code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("token status = %d", resp.StatusCode)
	}
	var tokenResp struct {
		Token string `json:"token"`
	}
	decode(t, resp, &tokenResp)
	if tokenResp.Token == "" {
		t.Fatal("empty token")
	}

	reviewsPath := "/api/v1/titles/" + title.ID.String() + "/reviews"

	// Anonymous reads are open; anonymous writes are not.
	resp = f.request(t, "GET", reviewsPath, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous list status = %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = f.request(t, "POST", reviewsPath, "", fiber.Map{"text": "great", "score": 8})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Authenticated review creation.
	resp = f.request(t, "POST", reviewsPath, tokenResp.Token, fiber.Map{"text": "great", "score": 8})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create review status = %d", resp.StatusCode)
	}
	var review struct {
		ID     uuid.UUID `json:"id"`
		Author string    `json:"author"`
		Score  int       `json:"score"`
	}
	decode(t, resp, &review)
	if review.Author != "alice" || review.Score != 8 {
		t.Fatalf("review = %+v", review)
	}

	// One review per title per author.
	resp = f.request(t, "POST", reviewsPath, tokenResp.Token, fiber.Map{"text": "again", "score": 9})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate review status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The title now carries the materialized rating.
	resp = f.request(t, "GET", "/api/v1/titles/"+title.ID.String(), "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get title status = %d", resp.StatusCode)
	}
	var titleResp struct {
		Rating *int `json:"rating"`
	}
	decode(t, resp, &titleResp)
	if titleResp.Rating == nil || *titleResp.Rating != 8 {
		t.Fatalf("rating = %v, want 8", titleResp.Rating)
	}
}

func TestSignupConflictAnswers400(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, "POST", "/api/v1/auth/signup", "",
		fiber.Map{"email": "alice@example.com", "username": "alice"})
	resp.Body.Close()

	// Reusing the username with a new email is a validation failure on this
	// endpoint, not a 409.
	resp = f.request(t, "POST", "/api/v1/auth/signup", "",
		fiber.Map{"email": "other@example.com", "username": "alice"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("conflicting signup status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCatalogWritePermissions(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "alice", identity.RoleUser)
	admin := f.seedUser(t, "admin", identity.RoleAdmin)

	body := fiber.Map{"name": "Films", "slug": "films"}

	resp := f.request(t, "POST", "/api/v1/categories", "", body)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = f.request(t, "POST", "/api/v1/categories", f.tokenFor(t, user), body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("plain user status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = f.request(t, "POST", "/api/v1/categories", f.tokenFor(t, admin), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Reads stay public.
	resp = f.request(t, "GET", "/api/v1/categories", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous list status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUserAdminRoutes(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "alice", identity.RoleUser)
	admin := f.seedUser(t, "admin", identity.RoleAdmin)

	resp := f.request(t, "GET", "/api/v1/users", f.tokenFor(t, user), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("plain user list status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = f.request(t, "GET", "/api/v1/users", f.tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list status = %d", resp.StatusCode)
	}
	var envelope struct {
		Count int64 `json:"count"`
	}
	decode(t, resp, &envelope)
	if envelope.Count != 2 {
		t.Fatalf("count = %d, want 2", envelope.Count)
	}
}

func TestUsersMe(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "alice", identity.RoleUser)
	token := f.tokenFor(t, user)

	resp := f.request(t, "GET", "/api/v1/users/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decode(t, resp, &me)
	if me.Username != "alice" || me.Role != "user" {
		t.Fatalf("me = %+v", me)
	}

	// Role changes on the self endpoint are silently discarded for
	// non-admins.
	resp = f.request(t, "PATCH", "/api/v1/users/me", token, fiber.Map{"role": "admin", "bio": "hi"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch me status = %d", resp.StatusCode)
	}
	var patched struct {
		Role string `json:"role"`
		Bio  string `json:"bio"`
	}
	decode(t, resp, &patched)
	if patched.Role != "user" || patched.Bio != "hi" {
		t.Fatalf("patched = %+v", patched)
	}

	// "me" is never treated as a username: unauthenticated access is 401,
	// not a lookup of a user called me.
	resp = f.request(t, "GET", "/api/v1/users/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous me status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.request(t, "GET", "/api/v1/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	var health struct {
		Status string `json:"status"`
		DB     string `json:"db"`
	}
	decode(t, resp, &health)
	if health.Status != "ok" || health.DB != "ok" {
		t.Fatalf("health = %+v", health)
	}
}
