package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/api/middleware"
	"github.com/princeprakhar/reviewhub-backend/internal/services"
	"github.com/princeprakhar/reviewhub-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, limit, err := parsePage(c, services.DefaultPublicPageLimit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	var authorID *uint
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.SendValidationError(c, "Invalid user ID")
			return
		}
		uid := uint(id)
		authorID = &uid
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), authorID, page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", result)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, err := parseID(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), principal.ID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Review created successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	reviewID, err := parseID(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, principal); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Review deleted successfully", nil)
}

func (h *ReviewHandler) React(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	reviewID, err := parseID(c, "id")
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	var req services.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	counts, err := h.reviewService.React(c.Request.Context(), reviewID, principal.ID, req.ReactionType)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	message := "Review liked successfully"
	if req.ReactionType == "dislike" {
		message = "Review disliked successfully"
	}

	utils.SendSuccess(c, message, counts)
}
