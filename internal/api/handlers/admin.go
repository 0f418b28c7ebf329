package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/api/middleware"
	"github.com/princeprakhar/reviewhub-backend/internal/services"
	"github.com/princeprakhar/reviewhub-backend/internal/utils"
)

type AdminHandler struct {
	reviewService *services.ReviewService
}

func NewAdminHandler(reviewService *services.ReviewService) *AdminHandler {
	return &AdminHandler{reviewService: reviewService}
}

// SearchReviews lists every review, optionally filtered by comment text and
// flagged state.
func (h *AdminHandler) SearchReviews(c *gin.Context) {
	page, limit, err := parsePage(c, services.DefaultAdminPageLimit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	flaggedOnly := false
	if raw := c.Query("flagged"); raw != "" {
		flaggedOnly, err = strconv.ParseBool(raw)
		if err != nil {
			utils.SendValidationError(c, "flagged must be true or false")
			return
		}
	}

	result, err := h.reviewService.SearchReviews(c.Request.Context(), c.Query("search"), flaggedOnly, page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", result)
}

func (h *AdminHandler) SetFlag(c *gin.Context) {
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

	var req services.SetFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsFlagged == nil {
		utils.SendValidationError(c, "isFlagged is required")
		return
	}

	if err := h.reviewService.SetFlag(c.Request.Context(), reviewID, *req.IsFlagged, principal); err != nil {
		utils.SendAppError(c, err)
		return
	}

	message := "Review unflagged successfully"
	if *req.IsFlagged {
		message = "Review flagged successfully"
	}
	utils.SendSuccess(c, message, gin.H{"id": reviewID, "is_flagged": *req.IsFlagged})
}
