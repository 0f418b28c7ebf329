package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"github.com/princeprakhar/reviewhub-backend/internal/utils"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultPublicPageLimit = 6
	DefaultAdminPageLimit  = 10
	MaxPageLimit           = 100
)

type ReviewService struct {
	db              *gorm.DB
	classifier      Classifier
	classifyTimeout time.Duration
	notifier        FlagNotifier
}

// NewReviewService wires the store, the sentiment classifier and an optional
// flag notifier. A zero classifyTimeout means no deadline beyond ctx.
func NewReviewService(db *gorm.DB, classifier Classifier, classifyTimeout time.Duration, notifier FlagNotifier) *ReviewService {
	return &ReviewService{
		db:              db,
		classifier:      classifier,
		classifyTimeout: classifyTimeout,
		notifier:        notifier,
	}
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID             uint                   `json:"id"`
	UserID         uint                   `json:"user_id"`
	UserName       string                 `json:"user_name"`
	Rating         int                    `json:"rating"`
	Comment        string                 `json:"comment"`
	SentimentScore *float64               `json:"sentiment_score"`
	SentimentLabel *models.SentimentLabel `json:"sentiment_label"`
	IsFlagged      bool                   `json:"is_flagged"`
	CreatedAt      time.Time              `json:"created_at"`
	LikeCount      int64                  `json:"like_count"`
	DislikeCount   int64                  `json:"dislike_count"`
}

// ReviewFilter narrows a listing. The zero value matches every review.
type ReviewFilter struct {
	AuthorID    *uint
	Search      string
	FlaggedOnly bool
}

func (f ReviewFilter) scope(db *gorm.DB) *gorm.DB {
	if f.AuthorID != nil {
		db = db.Where("user_id = ?", *f.AuthorID)
	}
	if f.Search != "" {
		db = db.Where(searchCondition(db.Dialector.Name()), "%"+escapeLike(f.Search)+"%")
	}
	if f.FlaggedOnly {
		db = db.Where("is_flagged = ?", true)
	}
	return db
}

// searchCondition is a case-insensitive substring match on comment. Postgres
// folds case with ILIKE; sqlite LIKE is already case-insensitive for ASCII.
func searchCondition(dialect string) string {
	if dialect == "postgres" {
		return `comment ILIKE ? ESCAPE '\'`
	}
	return `comment LIKE ? ESCAPE '\'`
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListReviews returns one page of reviews, newest first, optionally limited to
// a single author.
func (s *ReviewService) ListReviews(ctx context.Context, authorID *uint, page, limit int) (*types.Page[ReviewResponse], error) {
	return s.list(ctx, ReviewFilter{AuthorID: authorID}, page, limit)
}

// SearchReviews matches term anywhere in the comment, ignoring case. An empty
// term matches everything.
func (s *ReviewService) SearchReviews(ctx context.Context, term string, flaggedOnly bool, page, limit int) (*types.Page[ReviewResponse], error) {
	return s.list(ctx, ReviewFilter{Search: term, FlaggedOnly: flaggedOnly}, page, limit)
}

func (s *ReviewService) list(ctx context.Context, filter ReviewFilter, page, limit int) (*types.Page[ReviewResponse], error) {
	if page < 1 {
		return nil, types.NewInvalidInput("page must be a positive integer")
	}
	if limit < 1 {
		return nil, types.NewInvalidInput("limit must be a positive integer")
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Review{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, types.NewUnavailable("failed to count reviews", err)
	}

	pagination := types.NewPagination(total, page, limit)
	result := &types.Page[ReviewResponse]{
		Items:      []ReviewResponse{},
		Pagination: pagination,
	}
	// Compare pages rather than offsets: (page-1)*limit overflows for huge pages.
	if int64(page) > int64(pagination.TotalPages) {
		return result, nil
	}

	var reviews []models.Review
	err := db.Preload("User").
		Scopes(filter.scope).
		Order("created_at DESC").
		Order("id DESC").
		Offset(pagination.Offset()).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, types.NewUnavailable("failed to fetch reviews", err)
	}

	ids := make([]uint, len(reviews))
	for i, review := range reviews {
		ids[i] = review.ID
	}
	tallies, err := countReactions(db, ids...)
	if err != nil {
		return nil, types.NewUnavailable("failed to count reactions", err)
	}

	for _, review := range reviews {
		result.Items = append(result.Items, toReviewResponse(review, tallies[review.ID]))
	}
	return result, nil
}

// GetReview returns a single enriched review.
func (s *ReviewService) GetReview(ctx context.Context, reviewID uint) (*ReviewResponse, error) {
	db := s.db.WithContext(ctx)

	var review models.Review
	if err := db.Preload("User").First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("review not found")
		}
		return nil, types.NewUnavailable("failed to find review", err)
	}

	tallies, err := countReactions(db, review.ID)
	if err != nil {
		return nil, types.NewUnavailable("failed to count reactions", err)
	}
	resp := toReviewResponse(review, tallies[review.ID])
	return &resp, nil
}

// CreateReview validates input, classifies the comment and stores the review.
// Nothing is written when classification fails.
func (s *ReviewService) CreateReview(ctx context.Context, authorID uint, req CreateReviewRequest) (*ReviewResponse, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, types.NewInvalidInput("rating must be an integer between 1 and 5")
	}
	comment := utils.SanitizeString(req.Comment)
	if comment == "" {
		return nil, types.NewInvalidInput("comment must not be empty")
	}

	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.Select("id", "name").First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFound("user not found")
		}
		return nil, types.NewUnavailable("failed to find user", err)
	}

	sentiment, err := s.classify(ctx, comment)
	if err != nil {
		logger.WithFields(logrus.Fields{"user_id": authorID}).WithError(err).Warn("Sentiment classification failed")
		return nil, types.NewUnavailable("sentiment analysis unavailable", err)
	}

	review := models.Review{
		UserID:         authorID,
		Rating:         req.Rating,
		Comment:        comment,
		SentimentScore: &sentiment.Score,
		SentimentLabel: &sentiment.Label,
	}
	if err := db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, types.NewNotFound("user not found")
		}
		return nil, types.NewUnavailable("failed to create review", err)
	}

	review.User = author
	resp := toReviewResponse(review, reactionTally{})
	return &resp, nil
}

func (s *ReviewService) classify(ctx context.Context, text string) (Sentiment, error) {
	if s.classifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.classifyTimeout)
		defer cancel()
	}
	sentiment, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return Sentiment{}, err
	}
	if err := sentiment.validate(); err != nil {
		return Sentiment{}, err
	}
	return sentiment, nil
}

// DeleteReview removes a review and its reactions in one transaction. Only the
// author or an admin may delete.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uint, principal types.Principal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.Select("id", "user_id").First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFound("review not found")
			}
			return types.NewUnavailable("failed to find review", err)
		}

		if !CanDelete(principal, &review) {
			return types.NewForbidden("only the author or an admin can delete this review")
		}

		if err := tx.Where("review_id = ?", reviewID).Delete(&models.Reaction{}).Error; err != nil {
			return types.NewUnavailable("failed to delete reactions", err)
		}

		res := tx.Delete(&models.Review{}, reviewID)
		if res.Error != nil {
			return types.NewUnavailable("failed to delete review", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.NewNotFound("review not found")
		}
		return nil
	})
}

type reactionTally struct {
	ReviewID uint
	Likes    int64
	Dislikes int64
}

// countReactions counts live reaction rows for the given reviews. Reviews
// without reactions are absent from the result and read as zero.
func countReactions(db *gorm.DB, reviewIDs ...uint) (map[uint]reactionTally, error) {
	tallies := make(map[uint]reactionTally, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return tallies, nil
	}

	var rows []reactionTally
	err := db.Model(&models.Reaction{}).
		Select("review_id, "+
			"SUM(CASE WHEN type = ? THEN 1 ELSE 0 END) AS likes, "+
			"SUM(CASE WHEN type = ? THEN 1 ELSE 0 END) AS dislikes",
			models.ReactionLike, models.ReactionDislike).
		Where("review_id IN ?", reviewIDs).
		Group("review_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		tallies[row.ReviewID] = row
	}
	return tallies, nil
}

func toReviewResponse(review models.Review, tally reactionTally) ReviewResponse {
	userName := review.User.Name
	if userName == "" {
		userName = "Anonymous"
	}
	return ReviewResponse{
		ID:             review.ID,
		UserID:         review.UserID,
		UserName:       userName,
		Rating:         review.Rating,
		Comment:        review.Comment,
		SentimentScore: review.SentimentScore,
		SentimentLabel: review.SentimentLabel,
		IsFlagged:      review.IsFlagged,
		CreatedAt:      review.CreatedAt,
		LikeCount:      tally.Likes,
		DislikeCount:   tally.Dislikes,
	}
}
