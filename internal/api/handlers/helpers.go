package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
)

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, types.NewInvalidInput("Invalid review ID")
	}
	return uint(id), nil
}

// parsePage reads page and limit query parameters. Missing values take the
// defaults; range checks are left to the service.
func parsePage(c *gin.Context, defaultLimit int) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, types.NewInvalidInput("page must be a positive integer")
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil {
		return 0, 0, types.NewInvalidInput("limit must be a positive integer")
	}
	return page, limit, nil
}
