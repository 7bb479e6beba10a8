package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CatalogService manages categories, genres and titles. All writes are
// admin-only; reads are public.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// --- Categories ---

func (s *CatalogService) ListCategories(search string, p pagination.Params) ([]models.Category, int64, error) {
	var categories []models.Category
	total, err := s.listSlugged(&categories, &models.Category{}, search, p)
	return categories, total, err
}

func (s *CatalogService) CreateCategory(actor *models.User, req *dto.SlugRequest) (*models.Category, error) {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return nil, err
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, fmt.Errorf("%w: slug may only contain letters, digits, hyphens and underscores", ErrInvalidInput)
	}
	category := models.Category{ID: uuid.New(), Name: req.Name, Slug: req.Slug}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category slug %s already exists", ErrConflict, req.Slug)
		}
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category. Titles that referenced it keep existing
// with a null category rather than being cascaded.
func (s *CatalogService) DeleteCategory(actor *models.User, slug string) error {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return err
	}
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %s", ErrNotFound, slug)
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Title{}).Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}

// --- Genres ---

func (s *CatalogService) ListGenres(search string, p pagination.Params) ([]models.Genre, int64, error) {
	var genres []models.Genre
	total, err := s.listSlugged(&genres, &models.Genre{}, search, p)
	return genres, total, err
}

func (s *CatalogService) CreateGenre(actor *models.User, req *dto.SlugRequest) (*models.Genre, error) {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return nil, err
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, fmt.Errorf("%w: slug may only contain letters, digits, hyphens and underscores", ErrInvalidInput)
	}
	genre := models.Genre{ID: uuid.New(), Name: req.Name, Slug: req.Slug}
	if err := s.db.Create(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: genre slug %s already exists", ErrConflict, req.Slug)
		}
		return nil, err
	}
	return &genre, nil
}

func (s *CatalogService) DeleteGenre(actor *models.User, slug string) error {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return err
	}
	var genre models.Genre
	if err := s.db.Where("slug = ?", slug).First(&genre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: genre %s", ErrNotFound, slug)
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&genre).Error
	})
}

// --- Titles ---

func (s *CatalogService) ListTitles(filter dto.TitleFilter, p pagination.Params) ([]models.Title, int64, error) {
	query := s.db.Model(&models.Title{})
	if filter.Name != "" {
		query = query.Where("lower(titles.name) LIKE lower(?)", "%"+filter.Name+"%")
	}
	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		query = query.Where("lower(titles.name) LIKE lower(?) OR lower(titles.description) LIKE lower(?)", pat, pat)
	}
	if filter.Year != nil {
		query = query.Where("titles.year = ?", *filter.Year)
	}
	if filter.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Genre != "" {
		query = query.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.Genre)
	}

	var total int64
	if err := query.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var titles []models.Title
	err := query.Preload("Category").Preload("Genres").
		Distinct("titles.*").
		Order("titles.name").
		Offset(p.Offset).Limit(p.Limit).
		Find(&titles).Error
	return titles, total, err
}

func (s *CatalogService) GetTitle(id uuid.UUID) (*models.Title, error) {
	var title models.Title
	err := s.db.Preload("Category").Preload("Genres").Where("id = ?", id).First(&title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: title %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &title, nil
}

func (s *CatalogService) CreateTitle(actor *models.User, req *dto.CreateTitleRequest) (*models.Title, error) {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return nil, err
	}
	if req.Year > time.Now().Year() {
		return nil, fmt.Errorf("%w: year %d is in the future", ErrInvalidInput, req.Year)
	}

	category, err := s.categoryBySlug(req.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.genresBySlugs(s.db, req.Genre)
	if err != nil {
		return nil, err
	}

	title := models.Title{
		ID:          uuid.New(),
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
		Genres:      genres,
	}
	if err := s.db.Create(&title).Error; err != nil {
		return nil, fmt.Errorf("failed to create title: %w", err)
	}
	title.Category = category
	return &title, nil
}

func (s *CatalogService) UpdateTitle(actor *models.User, id uuid.UUID, req *dto.UpdateTitleRequest) (*models.Title, error) {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return nil, err
	}
	title, err := s.GetTitle(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Year != nil {
		if *req.Year > time.Now().Year() {
			return nil, fmt.Errorf("%w: year %d is in the future", ErrInvalidInput, *req.Year)
		}
		updates["year"] = *req.Year
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		category, err := s.categoryBySlug(*req.Category)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = category.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(title).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Genre != nil {
			// Resolve through tx: a read on a second connection would escape
			// the transaction and, under SQLite's write lock, deadlock.
			genres, err := s.genresBySlugs(tx, *req.Genre)
			if err != nil {
				return err
			}
			if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTitle(id)
}

// DeleteTitle removes a title together with its reviews and their comments,
// then clears the genre join rows, all in one transaction.
func (s *CatalogService) DeleteTitle(actor *models.User, id uuid.UUID) error {
	if err := s.authorizeCatalogWrite(actor); err != nil {
		return err
	}
	title, err := s.GetTitle(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM comments WHERE review_id IN (SELECT id FROM reviews WHERE title_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(title).Error
	})
}

// --- helpers ---

func (s *CatalogService) authorizeCatalogWrite(actor *models.User) error {
	if err := access.Authorize(actor, access.ActionWriteCatalog, nil); err != nil {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return nil
}

func (s *CatalogService) listSlugged(dest interface{}, model interface{}, search string, p pagination.Params) (int64, error) {
	query := s.db.Model(model)
	if search != "" {
		query = query.Where("lower(name) LIKE lower(?)", "%"+search+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	err := query.Order("name").Offset(p.Offset).Limit(p.Limit).Find(dest).Error
	return total, err
}

func (s *CatalogService) categoryBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown category %s", ErrInvalidInput, slug)
		}
		return nil, err
	}
	return &category, nil
}

func (s *CatalogService) genresBySlugs(db *gorm.DB, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if err := db.Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, fmt.Errorf("%w: one or more genre slugs are unknown", ErrInvalidInput)
	}
	return genres, nil
}
