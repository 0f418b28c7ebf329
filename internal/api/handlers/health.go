package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/database"
	"github.com/princeprakhar/reviewhub-backend/internal/utils"
	"gorm.io/gorm"
)

func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			utils.SendError(c, http.StatusServiceUnavailable, "Database unreachable", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	}
}
