package util

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// HandleError logs the detailed error and returns a generic error message to the user
func HandleError(c *gin.Context, statusCode int, userMessage string, detailedError error) {
	if detailedError != nil {
		log.WithError(detailedError).Error(userMessage)
	}

	c.JSON(statusCode, ErrorResponse{
		Error: userMessage,
	})
}

// HandleValidationError returns a 400 with field-level detail from request binding
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(400, ErrorResponse{
		Error:   "Invalid input",
		Details: err.Error(),
	})
}

// Common error messages for different scenarios
const (
	ErrUnauthorized     = "Unauthorized"
	ErrForbiddenAccess  = "Forbidden"
	ErrInvalidRequest   = "Invalid request"
	ErrInternalServer   = "Internal server error, please try again"
	ErrDatabaseFailure  = "Database operation failed"
	ErrCampaignNotFound = "Campaign not found"
	ErrResponseNotFound = "Response not found"
	ErrUserNotFound     = "User not found"
	ErrReportNotFound   = "Report not found"
)
