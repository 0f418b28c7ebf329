package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/config"
	"github.com/princeprakhar/reviewhub-backend/internal/database"
	"github.com/princeprakhar/reviewhub-backend/internal/models"
	"github.com/princeprakhar/reviewhub-backend/internal/services"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)
}

type staticClassifier struct{}

func (staticClassifier) Classify(ctx context.Context, text string) (services.Sentiment, error) {
	return services.Sentiment{Score: 0.8, Label: models.SentimentPositive}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Init("sqlite", filepath.Join(t.TempDir(), "reviewhub.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.SeedAdmin(db, "Admin", "admin@example.com", "adminpass123"))

	cfg := &config.Config{
		JWTSecret:          "test-secret-for-routes",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		Sentiment:          config.SentimentConfig{Timeout: time.Second},
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}

	router := gin.New()
	SetupRoutes(router, db, cfg, Dependencies{Classifier: staticClassifier{}})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) token(method, path string, body interface{}) string {
	s.t.Helper()
	code, env := s.do(method, path, "", body)
	require.Contains(s.t, []int{http.StatusOK, http.StatusCreated}, code, env.Message)

	var auth struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &auth))
	return auth.Tokens.AccessToken
}

func (s *testServer) register(name string) string {
	return s.token(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "password123",
	})
}

type reviewPage struct {
	Items      []services.ReviewResponse `json:"items"`
	Pagination struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestReviewLifecycle(t *testing.T) {
	s := newTestServer(t)

	alice := s.register("alice")
	bob := s.register("bob")
	admin := s.token(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "admin@example.com", "password": "adminpass123"})

	code, env := s.do(http.MethodPost, "/api/v1/reviews", alice, gin.H{"rating": 5, "comment": "Great!"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decode[services.ReviewResponse](t, env.Data)
	require.NotNil(t, created.SentimentLabel)
	assert.Equal(t, models.SentimentPositive, *created.SentimentLabel)
	reviewPath := fmt.Sprintf("/api/v1/reviews/%d", created.ID)

	code, env = s.do(http.MethodPost, reviewPath+"/reactions", bob, gin.H{"reactionType": "like"})
	require.Equal(t, http.StatusOK, code, env.Message)
	counts := decode[services.ReactionCounts](t, env.Data)
	assert.Equal(t, int64(1), counts.LikeCount)

	code, env = s.do(http.MethodPost, reviewPath+"/reactions", bob, gin.H{"reactionType": "dislike"})
	require.Equal(t, http.StatusOK, code, env.Message)
	counts = decode[services.ReactionCounts](t, env.Data)
	assert.Zero(t, counts.LikeCount)
	assert.Equal(t, int64(1), counts.DislikeCount)

	code, env = s.do(http.MethodGet, "/api/v1/reviews?page=1", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[reviewPage](t, env.Data)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 6, page.Pagination.Limit)
	assert.Equal(t, int64(1), page.Items[0].DislikeCount)
	assert.Equal(t, "alice", page.Items[0].UserName)

	code, _ = s.do(http.MethodDelete, reviewPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	flagPath := fmt.Sprintf("/api/v1/admin/reviews/%d/flag", created.ID)
	code, _ = s.do(http.MethodPut, flagPath, bob, gin.H{"isFlagged": true})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPut, flagPath, admin, gin.H{"isFlagged": true})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodGet, "/api/v1/admin/reviews?search=GREAT&flagged=true", admin, nil)
	require.Equal(t, http.StatusOK, code)
	page = decode[reviewPage](t, env.Data)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsFlagged)
	assert.Equal(t, 10, page.Pagination.Limit)

	code, _ = s.do(http.MethodDelete, reviewPath, admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, "/api/v1/reviews", "", nil)
	require.Equal(t, http.StatusOK, code)
	page = decode[reviewPage](t, env.Data)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Pagination.Total)

	code, _ = s.do(http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, reviewPath+"/reactions", bob, gin.H{"reactionType": "like"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	code, env := s.do(http.MethodPost, "/api/v1/reviews", alice, gin.H{"rating": 3, "comment": "fine"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decode[services.ReviewResponse](t, env.Data)
	flagPath := fmt.Sprintf("/api/v1/admin/reviews/%d/flag", created.ID)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"duplicate registration", http.MethodPost, "/api/v1/auth/register", "",
			gin.H{"name": "Again", "email": "ALICE@example.com", "password": "password123"}, http.StatusConflict},
		{"bad login", http.MethodPost, "/api/v1/auth/login", "",
			gin.H{"email": "alice@example.com", "password": "wrong-password"}, http.StatusUnauthorized},
		{"anonymous create", http.MethodPost, "/api/v1/reviews", "",
			gin.H{"rating": 3, "comment": "fine"}, http.StatusUnauthorized},
		{"rating out of range", http.MethodPost, "/api/v1/reviews", alice,
			gin.H{"rating": 6, "comment": "fine"}, http.StatusBadRequest},
		{"unknown reaction", http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/reactions", created.ID), alice,
			gin.H{"reactionType": "love"}, http.StatusBadRequest},
		{"non-numeric id", http.MethodGet, "/api/v1/reviews/abc", "", nil, http.StatusBadRequest},
		{"missing review", http.MethodGet, "/api/v1/reviews/9999", "", nil, http.StatusNotFound},
		{"non-numeric page", http.MethodGet, "/api/v1/reviews?page=abc", "", nil, http.StatusBadRequest},
		{"zero limit", http.MethodGet, "/api/v1/reviews?limit=0", "", nil, http.StatusBadRequest},
		{"bad author filter", http.MethodGet, "/api/v1/reviews?userId=x", "", nil, http.StatusBadRequest},
		{"admin route as user", http.MethodGet, "/api/v1/admin/reviews", alice, nil, http.StatusForbidden},
		{"flag as user", http.MethodPut, flagPath, alice, gin.H{"isFlagged": true}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run("Should map "+tt.name, func(t *testing.T) {
			code, env := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, code, env.Message)
			assert.False(t, env.Success)
		})
	}

	t.Run("Should require isFlagged", func(t *testing.T) {
		admin := s.token(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "admin@example.com", "password": "adminpass123"})
		code, _ := s.do(http.MethodPut, flagPath, admin, gin.H{})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("Should serve the profile of the caller", func(t *testing.T) {
		code, env := s.do(http.MethodGet, "/api/v1/auth/me", alice, nil)
		require.Equal(t, http.StatusOK, code)
		user := decode[models.User](t, env.Data)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, user.Password)
	})

	t.Run("Should report health", func(t *testing.T) {
		code, _ := s.do(http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, code)
	})
}
