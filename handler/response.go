package handler

import (
	"net/http"
	"strconv"

	"github.com/bobibcgroup/safespace/middleware"
	"github.com/bobibcgroup/safespace/model"
	"github.com/bobibcgroup/safespace/service"
	"github.com/bobibcgroup/safespace/util"

	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	responses *service.ResponseService
	campaigns *service.CampaignService
}

func NewResponseHandler(responses *service.ResponseService, campaigns *service.CampaignService) *ResponseHandler {
	return &ResponseHandler{
		responses: responses,
		campaigns: campaigns,
	}
}

// SubmitResponse accepts an anonymous submission. No authentication and no
// author tracking of any kind.
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	var req model.CreateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	response, err := h.responses.CreateResponse(h.campaigns, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you for your feedback",
		"data": gin.H{
			"id":        response.ID,
			"sentiment": response.Sentiment,
		},
	})
}

func (h *ResponseHandler) GetResponse(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	response, err := h.responses.GetResponseForUser(id, userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}

func (h *ResponseHandler) ListResponses(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	filter := service.ResponseFilter{
		Status:    c.Query("status"),
		Sentiment: c.Query("sentiment"),
	}
	if raw := c.Query("campaignId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, nil)
			return
		}
		campaignID := uint(id)
		filter.CampaignID = &campaignID
	}

	responses, err := h.responses.ListResponses(userID, role, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

func (h *ResponseHandler) UpdateResponse(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	response, err := h.responses.UpdateResponse(id, userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}

// BulkUpdateResponses applies one change set to many responses at once. The
// whole batch is rejected when any response falls outside the caller's
// campaigns.
func (h *ResponseHandler) BulkUpdateResponses(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.BulkUpdateResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	updated, err := h.responses.BulkUpdate(userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
