package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/reviewhub-backend/internal/types"
	"github.com/princeprakhar/reviewhub-backend/pkg/logger"
	"github.com/sirupsen/logrus"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(statusCode, response)
}

func SendValidationError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message, nil)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message, nil)
}

func SendForbidden(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, message, nil)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message, nil)
}

// SendInternalError logs err and answers with a generic message; the cause
// never leaves the server.
func SendInternalError(c *gin.Context, message string, err error) {
	entry := logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)

	SendError(c, http.StatusInternalServerError, "Internal server error", nil)
}

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind types.ErrorKind) int {
	switch kind {
	case types.InvalidInput:
		return http.StatusBadRequest
	case types.Unauthenticated:
		return http.StatusUnauthorized
	case types.Forbidden:
		return http.StatusForbidden
	case types.NotFound:
		return http.StatusNotFound
	case types.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SendAppError writes the response for a service error.
func SendAppError(c *gin.Context, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Kind == types.Unavailable {
		SendInternalError(c, "Request failed", err)
		return
	}
	SendError(c, StatusForKind(appErr.Kind), appErr.Message, nil)
}
