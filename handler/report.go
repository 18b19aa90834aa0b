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

type ReportHandler struct {
	reports   *service.ReportService
	campaigns *service.CampaignService
}

func NewReportHandler(reports *service.ReportService, campaigns *service.CampaignService) *ReportHandler {
	return &ReportHandler{
		reports:   reports,
		campaigns: campaigns,
	}
}

// GenerateReport runs the AI analysis over the campaign's responses and
// persists the result. Regenerating overwrites the previous report.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	campaign, err := h.campaigns.GetCampaignForUser(strconv.FormatUint(uint64(req.CampaignID), 10), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	report, err := h.reports.GenerateReport(campaign.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// GetReport serves a stored report. Staff with campaign access always get it;
// anonymous viewers only when public sharing is on, presenting a report token
// when the report is password protected.
func (h *ReportHandler) GetReport(c *gin.Context) {
	campaign, err := h.campaigns.GetCampaign(c.Param("id"))
	if err != nil {
		util.HandleError(c, http.StatusNotFound, util.ErrCampaignNotFound, nil)
		return
	}

	userID, role, authed := middleware.SessionUser(c)
	if !authed || (role != model.RoleAdmin && (campaign.UserID == nil || *campaign.UserID != userID)) {
		if !campaign.PublicReportOn {
			util.HandleError(c, http.StatusForbidden, "This report is not publicly available", nil)
			return
		}
		if campaign.PublicReportPassword != nil && *campaign.PublicReportPassword != "" {
			token := c.GetHeader("X-Report-Token")
			if token == "" || !middleware.VerifyReportToken(token, campaign.ID) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":            "Password required",
					"passwordRequired": true,
				})
				return
			}
		}
	}

	report, err := h.reports.GetReport(campaign.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": report,
		"campaign": gin.H{
			"id":    campaign.ID,
			"title": campaign.Title,
			"slug":  campaign.Slug,
		},
	})
}

// VerifyReportPassword checks the public report password and hands back a
// token scoped to this campaign so the viewer does not re-enter it per fetch.
func (h *ReportHandler) VerifyReportPassword(c *gin.Context) {
	campaign, err := h.campaigns.GetCampaign(c.Param("id"))
	if err != nil {
		util.HandleError(c, http.StatusNotFound, util.ErrCampaignNotFound, nil)
		return
	}

	var req model.VerifyReportPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	if err := h.reports.VerifyReportPassword(campaign.ID, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}

	token, err := middleware.IssueReportToken(campaign.ID)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report_token": token})
}

// SuggestActions asks the AI for concrete follow-up actions, either for one
// response or for the campaign's recent responses.
func (h *ReportHandler) SuggestActions(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.SuggestActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	campaign, err := h.campaigns.GetCampaignForUser(strconv.FormatUint(uint64(req.CampaignID), 10), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	suggestions, err := h.reports.SuggestActions(campaign.ID, req.ResponseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}
