package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/princeprakhar/reviewhub-backend/internal/database"
	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.SetOutput(io.Discard)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init("sqlite", filepath.Join(t.TempDir(), "reviewhub.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "password123",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func insertReview(t *testing.T, db *gorm.DB, authorID uint, comment string, createdAt time.Time) models.Review {
	t.Helper()
	review := models.Review{
		UserID:    authorID,
		Rating:    4,
		Comment:   comment,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&review).Error)
	return review
}

func principalOf(user models.User) types.Principal {
	return types.Principal{ID: user.ID, Role: user.Role}
}

type fakeClassifier struct {
	mu     sync.Mutex
	calls  int
	result Sentiment
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// blockingClassifier waits for its context to end.
type blockingClassifier struct{}

func (blockingClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	<-ctx.Done()
	return Sentiment{}, ctx.Err()
}

type fakeNotifier struct {
	mu      sync.Mutex
	flagged []uint
}

func (f *fakeNotifier) NotifyReviewFlagged(author models.User, review models.Review) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flagged = append(f.flagged, review.ID)
}

func (f *fakeNotifier) Flagged() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.flagged...)
}

func newTestReviewService(db *gorm.DB, notifier FlagNotifier) (*ReviewService, *fakeClassifier) {
	classifier := &fakeClassifier{result: Sentiment{Score: 0.9, Label: models.SentimentPositive}}
	return NewReviewService(db, classifier, time.Second, notifier), classifier
}
