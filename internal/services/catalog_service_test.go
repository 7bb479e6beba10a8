package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func TestCategoryCreateListDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)

	created, err := svc.CreateCategory(admin, &dto.SlugRequest{Name: "Books", Slug: "books"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "books" {
		t.Fatalf("slug = %q", created.Slug)
	}

	// Duplicate slug is a conflict.
	if _, err := svc.CreateCategory(admin, &dto.SlugRequest{Name: "Other", Slug: "books"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate slug: got %v, want ErrConflict", err)
	}
	// Bad slug characters.
	if _, err := svc.CreateCategory(admin, &dto.SlugRequest{Name: "X", Slug: "bad slug!"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad slug: got %v, want ErrInvalidInput", err)
	}
	// Non-admin write.
	user := seedUser(t, db, "alice", identity.RoleUser)
	if _, err := svc.CreateCategory(user, &dto.SlugRequest{Name: "X", Slug: "x"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin create: got %v, want ErrForbidden", err)
	}

	cats, total, err := svc.ListCategories("", pagination.Params{Limit: 10})
	if err != nil || total != 1 || len(cats) != 1 {
		t.Fatalf("list: err=%v total=%d len=%d", err, total, len(cats))
	}

	if err := svc.DeleteCategory(admin, "books"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteCategory(admin, "books"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestDeleteCategoryDetachesTitles(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	cat := seedCategory(t, db, "films")

	title := &models.Title{ID: uuid.New(), Name: "Heat", Year: 1995, CategoryID: &cat.ID}
	if err := db.Create(title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}

	if err := svc.DeleteCategory(admin, "films"); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	// The title survives with its category cleared, not cascaded away.
	got, err := svc.GetTitle(title.ID)
	if err != nil {
		t.Fatalf("title gone after category delete: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("category reference not cleared: %v", got.CategoryID)
	}
}

func TestDeleteGenreDetachesTitles(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	genre := seedGenre(t, db, "noir")

	title := &models.Title{ID: uuid.New(), Name: "Heat", Year: 1995, Genres: []models.Genre{*genre}}
	if err := db.Create(title).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}

	if err := svc.DeleteGenre(admin, "noir"); err != nil {
		t.Fatalf("delete genre: %v", err)
	}

	got, err := svc.GetTitle(title.ID)
	if err != nil {
		t.Fatalf("title gone after genre delete: %v", err)
	}
	if len(got.Genres) != 0 {
		t.Fatalf("genre link not cleared: %v", got.Genres)
	}
}

func TestCreateTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	seedCategory(t, db, "films")
	seedGenre(t, db, "drama")
	seedGenre(t, db, "crime")

	title, err := svc.CreateTitle(admin, &dto.CreateTitleRequest{
		Name:     "Heat",
		Year:     1995,
		Genre:    []string{"drama", "crime"},
		Category: "films",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if title.Category == nil || title.Category.Slug != "films" {
		t.Fatalf("category not attached: %+v", title.Category)
	}
	if len(title.Genres) != 2 {
		t.Fatalf("genres not attached: %v", title.Genres)
	}
	if title.Rating != nil {
		t.Fatalf("new title must have null rating, got %d", *title.Rating)
	}
}

func TestCreateTitleValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	seedCategory(t, db, "films")
	seedGenre(t, db, "drama")

	tests := []struct {
		name string
		req  dto.CreateTitleRequest
	}{
		{"future year", dto.CreateTitleRequest{Name: "X", Year: time.Now().Year() + 1, Genre: []string{"drama"}, Category: "films"}},
		{"unknown category", dto.CreateTitleRequest{Name: "X", Year: 2000, Genre: []string{"drama"}, Category: "ghost"}},
		{"unknown genre", dto.CreateTitleRequest{Name: "X", Year: 2000, Genre: []string{"ghost"}, Category: "films"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateTitle(admin, &tt.req); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUpdateTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	seedCategory(t, db, "films")
	seedCategory(t, db, "books")
	seedGenre(t, db, "drama")
	seedGenre(t, db, "crime")

	title, err := svc.CreateTitle(admin, &dto.CreateTitleRequest{
		Name: "Heat", Year: 1995, Genre: []string{"drama"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	genres := []string{"crime"}
	updated, err := svc.UpdateTitle(admin, title.ID, &dto.UpdateTitleRequest{
		Name:     strPtr("Heat (1995)"),
		Category: strPtr("books"),
		Genre:    &genres,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Heat (1995)" {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.Category == nil || updated.Category.Slug != "books" {
		t.Fatalf("category = %+v", updated.Category)
	}
	if len(updated.Genres) != 1 || updated.Genres[0].Slug != "crime" {
		t.Fatalf("genres not replaced: %v", updated.Genres)
	}

	// An unknown genre slug aborts the transaction; the earlier replacement
	// survives untouched.
	badGenres := []string{"ghost"}
	if _, err := svc.UpdateTitle(admin, title.ID, &dto.UpdateTitleRequest{Genre: &badGenres}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown genre: got %v, want ErrInvalidInput", err)
	}
	reloaded, err := svc.GetTitle(title.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Genres) != 1 || reloaded.Genres[0].Slug != "crime" {
		t.Fatalf("failed update leaked: %v", reloaded.Genres)
	}

	if _, err := svc.UpdateTitle(admin, uuid.New(), &dto.UpdateTitleRequest{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown title: got %v, want ErrNotFound", err)
	}
	if _, err := svc.UpdateTitle(admin, title.ID, &dto.UpdateTitleRequest{Year: intPtr(time.Now().Year() + 1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("future year: got %v, want ErrInvalidInput", err)
	}
}

func TestListTitlesFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	seedCategory(t, db, "films")
	seedCategory(t, db, "books")
	seedGenre(t, db, "drama")
	seedGenre(t, db, "scifi")

	mustCreate := func(name string, year int, genre, category string) {
		t.Helper()
		_, err := svc.CreateTitle(admin, &dto.CreateTitleRequest{
			Name: name, Year: year, Genre: []string{genre}, Category: category,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mustCreate("Heat", 1995, "drama", "films")
	mustCreate("Solaris", 1972, "scifi", "films")
	mustCreate("Dune", 1965, "scifi", "books")

	p := pagination.Params{Limit: 10}

	cases := []struct {
		name   string
		filter dto.TitleFilter
		want   int64
	}{
		{"no filter", dto.TitleFilter{}, 3},
		{"by category", dto.TitleFilter{Category: "films"}, 2},
		{"by genre", dto.TitleFilter{Genre: "scifi"}, 2},
		{"by year", dto.TitleFilter{Year: intPtr(1995)}, 1},
		{"by name substring", dto.TitleFilter{Name: "olar"}, 1},
		{"genre and category", dto.TitleFilter{Genre: "scifi", Category: "books"}, 1},
		{"no match", dto.TitleFilter{Category: "books", Year: intPtr(1995)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			titles, total, err := svc.ListTitles(tc.filter, p)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if total != tc.want || int64(len(titles)) != tc.want {
				t.Fatalf("total=%d len=%d, want %d", total, len(titles), tc.want)
			}
		})
	}
}

func TestDeleteTitleCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	reviews := NewReviewService(db)
	comments := NewCommentService(db)
	admin := seedUser(t, db, "admin", identity.RoleAdmin)
	alice := seedUser(t, db, "alice", identity.RoleUser)
	seedCategory(t, db, "films")
	seedGenre(t, db, "drama")

	title, err := svc.CreateTitle(admin, &dto.CreateTitleRequest{
		Name: "Heat", Year: 1995, Genre: []string{"drama"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}
	review, err := reviews.Create(alice, title.ID, &dto.CreateReviewRequest{Text: "great", Score: 9})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if _, err := comments.Create(alice, title.ID, review.ID, &dto.CreateCommentRequest{Text: "agreed"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := svc.DeleteTitle(admin, title.ID); err != nil {
		t.Fatalf("delete title: %v", err)
	}

	var reviewCount, commentCount int64
	db.Model(&models.Review{}).Count(&reviewCount)
	db.Model(&models.Comment{}).Count(&commentCount)
	if reviewCount != 0 || commentCount != 0 {
		t.Fatalf("cascade incomplete: reviews=%d comments=%d", reviewCount, commentCount)
	}
	if _, err := svc.GetTitle(title.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("title still present: %v", err)
	}
}
