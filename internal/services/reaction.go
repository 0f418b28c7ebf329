package services

import (
	"context"
	"errors"

	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactRequest struct {
	ReactionType string `json:"reactionType"`
}

// ReactionCounts are recounted after the write, inside the same transaction.
type ReactionCounts struct {
	ReviewID     uint                `json:"review_id"`
	Reaction     models.ReactionType `json:"reaction"`
	LikeCount    int64               `json:"like_count"`
	DislikeCount int64               `json:"dislike_count"`
}

// React records userID's like or dislike on a review. A second reaction from
// the same user overwrites the first through a single INSERT ... ON CONFLICT
// on the (review_id, user_id) primary key.
func (s *ReviewService) React(ctx context.Context, reviewID, userID uint, reactionType string) (*ReactionCounts, error) {
	rt, ok := models.ParseReactionType(reactionType)
	if !ok {
		return nil, types.NewInvalidInput("reactionType must be 'like' or 'dislike'")
	}

	var counts ReactionCounts
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.Select("id").First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("review not found")
			}
			return types.NewUnavailable("failed to find review", err)
		}

		reaction := models.Reaction{
			ReviewID: reviewID,
			UserID:   userID,
			Type:     rt,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).Create(&reaction).Error
		if err != nil {
			// The review (or the user) vanished between the lookup and the write.
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return types.NewNotFound("review not found")
			}
			return types.NewUnavailable("failed to save reaction", err)
		}

		tallies, err := countReactions(tx, reviewID)
		if err != nil {
			return types.NewUnavailable("failed to count reactions", err)
		}
		tally := tallies[reviewID]
		counts = ReactionCounts{
			ReviewID:     reviewID,
			Reaction:     rt,
			LikeCount:    tally.Likes,
			DislikeCount: tally.Dislikes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &counts, nil
}
