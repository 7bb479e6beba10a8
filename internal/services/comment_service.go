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

// CommentService mirrors ReviewService without the uniqueness constraint
// and without any rating side effect.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Create(actor *models.User, titleID, reviewID uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if err := access.Authorize(actor, access.ActionWriteOwnContent, nil); err != nil {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	if req.Text == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}
	if err := s.reviewExists(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:       uuid.New(),
		Text:     req.Text,
		ReviewID: reviewID,
		AuthorID: actor.ID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = actor
	return &comment, nil
}

func (s *CommentService) Update(actor *models.User, titleID, reviewID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.get(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionMutateContent, comment); err != nil {
		return nil, fmt.Errorf("%w: only the author, a moderator or an admin may edit a comment", ErrForbidden)
	}
	if req.Text == nil {
		return comment, nil
	}
	if *req.Text == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}
	if err := s.db.Model(comment).Update("text", *req.Text).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) Delete(actor *models.User, titleID, reviewID, commentID uuid.UUID) error {
	comment, err := s.get(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionMutateContent, comment); err != nil {
		return fmt.Errorf("%w: only the author, a moderator or an admin may delete a comment", ErrForbidden)
	}
	return s.db.Delete(comment).Error
}

// List returns a review's comments ordered by publish date, oldest first.
func (s *CommentService) List(titleID, reviewID uuid.UUID, p pagination.Params) ([]models.Comment, int64, error) {
	if err := s.reviewExists(titleID, reviewID); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Comment{}).Where("review_id = ?", reviewID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := query.Preload("Author").
		Order("pub_date").
		Offset(p.Offset).Limit(p.Limit).
		Find(&comments).Error
	return comments, total, err
}

func (s *CommentService) Get(titleID, reviewID, commentID uuid.UUID) (*models.Comment, error) {
	return s.get(titleID, reviewID, commentID)
}

// get resolves a comment scoped to both parents: a comment under a review
// that does not belong to the title in the URL is not found.
func (s *CommentService) get(titleID, reviewID, commentID uuid.UUID) (*models.Comment, error) {
	if err := s.reviewExists(titleID, reviewID); err != nil {
		return nil, err
	}
	var comment models.Comment
	err := s.db.Preload("Author").
		Where("id = ? AND review_id = ?", commentID, reviewID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
		}
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) reviewExists(titleID, reviewID uuid.UUID) error {
	var count int64
	err := s.db.Model(&models.Review{}).
		Where("id = ? AND title_id = ?", reviewID, titleID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
	}
	return nil
}
