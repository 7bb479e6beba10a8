package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinScore = 1
	MaxScore = 10
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Create persists a review and recomputes the title rating in the same
// transaction. A second review by the same author on the same title is
// rejected by the storage unique constraint, so concurrent attempts
// resolve to a conflict rather than a duplicate row.
func (s *ReviewService) Create(actor *models.User, titleID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	if err := access.Authorize(actor, access.ActionWriteOwnContent, nil); err != nil {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	if req.Text == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}
	if req.Score < MinScore || req.Score > MaxScore {
		return nil, fmt.Errorf("%w: score must be between %d and %d", ErrInvalidInput, MinScore, MaxScore)
	}
	if err := s.titleExists(titleID); err != nil {
		return nil, err
	}

	review := models.Review{
		ID:       uuid.New(),
		Text:     req.Text,
		Score:    req.Score,
		TitleID:  titleID,
		AuthorID: actor.ID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, titleID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already reviewed this title", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.Author = actor
	return &review, nil
}

// Update patches text and/or score. Author and title never change. The
// rating is recomputed only when the score actually changed.
func (s *ReviewService) Update(actor *models.User, titleID, reviewID uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.get(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionMutateContent, review); err != nil {
		return nil, fmt.Errorf("%w: only the author, a moderator or an admin may edit a review", ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		if *req.Text == "" {
			return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
		}
		updates["text"] = *req.Text
	}
	scoreChanged := false
	if req.Score != nil {
		if *req.Score < MinScore || *req.Score > MaxScore {
			return nil, fmt.Errorf("%w: score must be between %d and %d", ErrInvalidInput, MinScore, MaxScore)
		}
		scoreChanged = *req.Score != review.Score
		updates["score"] = *req.Score
	}
	if len(updates) == 0 {
		return review, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(review).Updates(updates).Error; err != nil {
			return err
		}
		if scoreChanged {
			return recomputeRating(tx, titleID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return s.get(titleID, reviewID)
}

// Delete removes a review, cascades its comments and recomputes the title
// rating, all in one transaction.
func (s *ReviewService) Delete(actor *models.User, titleID, reviewID uuid.UUID) error {
	review, err := s.get(titleID, reviewID)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionMutateContent, review); err != nil {
		return fmt.Errorf("%w: only the author, a moderator or an admin may delete a review", ErrForbidden)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, titleID)
	})
}

// List returns a title's reviews ordered by publish date, oldest first.
// Readable by anyone, including anonymous callers.
func (s *ReviewService) List(titleID uuid.UUID, p pagination.Params) ([]models.Review, int64, error) {
	if err := s.titleExists(titleID); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Review{}).Where("title_id = ?", titleID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.Preload("Author").
		Order("pub_date").
		Offset(p.Offset).Limit(p.Limit).
		Find(&reviews).Error
	return reviews, total, err
}

// Get returns one review, scoped to the title in the URL: a review id that
// exists under a different title is reported as not found.
func (s *ReviewService) Get(titleID, reviewID uuid.UUID) (*models.Review, error) {
	return s.get(titleID, reviewID)
}

func (s *ReviewService) get(titleID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := s.db.Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) titleExists(titleID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Title{}).Where("id = ?", titleID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: title %s", ErrNotFound, titleID)
	}
	return nil
}
