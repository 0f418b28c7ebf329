package services

import (
	"context"
	"errors"

	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"gorm.io/gorm"
)

// CanDelete reports whether principal may delete review.
func CanDelete(principal types.Principal, review *models.Review) bool {
	return principal.IsAdmin() || principal.ID == review.UserID
}

// CanFlag reports whether principal may change a review's flagged state.
func CanFlag(principal types.Principal) bool {
	return principal.IsAdmin()
}

type SetFlagRequest struct {
	IsFlagged *bool `json:"isFlagged"`
}

// SetFlag sets the flagged state. Setting the value a review already has is a
// successful no-op. The author is notified only by the request whose update
// actually moved the review from unflagged to flagged.
func (s *ReviewService) SetFlag(ctx context.Context, reviewID uint, isFlagged bool, principal types.Principal) error {
	if !CanFlag(principal) {
		return types.NewForbidden("admin access required")
	}

	var review models.Review
	var changed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("review not found")
			}
			return types.NewUnavailable("failed to find review", err)
		}

		res := tx.Model(&models.Review{}).
			Where("id = ? AND is_flagged <> ?", reviewID, isFlagged).
			Update("is_flagged", isFlagged)
		if res.Error != nil {
			return types.NewUnavailable("failed to update review", res.Error)
		}
		changed = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return err
	}

	if changed && isFlagged && s.notifier != nil {
		review.IsFlagged = true
		s.notifier.NotifyReviewFlagged(review.User, review)
	}
	return nil
}
