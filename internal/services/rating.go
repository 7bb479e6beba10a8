package services

import (
	"database/sql"
	"math"

	"github.com/ahmetcoskunkizilkaya/reviewhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recomputeRating rewrites the materialized rating of a title from its
// current review set. It must run on the same transaction as the review
// mutation that triggered it so readers never observe a stale rating.
//
// The mean is rounded half-to-even. A title with no reviews has a null
// rating, not zero.
func recomputeRating(tx *gorm.DB, titleID uuid.UUID) error {
	var avg sql.NullFloat64
	err := tx.Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	var rating *int
	if avg.Valid {
		rounded := int(math.RoundToEven(avg.Float64))
		rating = &rounded
	}
	return tx.Model(&models.Title{}).Where("id = ?", titleID).Update("rating", rating).Error
}
