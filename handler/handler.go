package handler

import (
	"errors"
	"net/http"

	"github.com/bobibcgroup/safespace/service"
	"github.com/bobibcgroup/safespace/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError translates typed service outcomes into HTTP responses.
// Unrecognized errors become a logged 500 with a generic message.
func handleServiceError(c *gin.Context, err error) {
	var reassign *service.ReassignmentRequiredError
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.HandleError(c, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, service.ErrForbidden):
		util.HandleError(c, http.StatusForbidden, util.ErrForbiddenAccess, nil)
	case errors.Is(err, service.ErrCampaignClosed):
		util.HandleError(c, http.StatusBadRequest, "Campaign is closed", nil)
	case errors.Is(err, service.ErrDuplicateEmail):
		util.HandleError(c, http.StatusBadRequest, "Email already in use", nil)
	case errors.Is(err, service.ErrSelfDelete):
		util.HandleError(c, http.StatusBadRequest, "Cannot delete your own account", nil)
	case errors.Is(err, service.ErrInvalidTarget):
		util.HandleError(c, http.StatusNotFound, "Reassignment target user not found", nil)
	case errors.Is(err, service.ErrNoResponses):
		util.HandleError(c, http.StatusBadRequest, "No responses found for this campaign", nil)
	case errors.Is(err, service.ErrInvalidPassword):
		util.HandleError(c, http.StatusUnauthorized, "Invalid password", nil)
	case errors.Is(err, service.ErrReportNotPublic):
		util.HandleError(c, http.StatusForbidden, "This report is not publicly available", nil)
	case errors.Is(err, service.ErrUpstreamTimeout):
		util.HandleError(c, http.StatusGatewayTimeout, "AI request timed out", err)
	case errors.Is(err, service.ErrUpstreamFailure):
		util.HandleError(c, http.StatusBadGateway, "AI request failed", err)
	case errors.Is(err, service.ErrParseFailure):
		util.HandleError(c, http.StatusBadGateway, "AI response could not be parsed", err)
	case errors.Is(err, service.ErrAINotConfigured):
		util.HandleError(c, http.StatusServiceUnavailable, "AI is not configured", nil)
	case errors.As(err, &reassign):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                "User has associated data. Please specify a user to reassign data to.",
			"requiresReassignment": true,
			"dataCounts": gin.H{
				"campaigns": reassign.Campaigns,
				"notes":     reassign.Notes,
			},
		})
	default:
		util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
	}
}
