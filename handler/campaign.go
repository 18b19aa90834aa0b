package handler

import (
	"net/http"
	"time"

	"github.com/bobibcgroup/safespace/middleware"
	"github.com/bobibcgroup/safespace/model"
	"github.com/bobibcgroup/safespace/service"
	"github.com/bobibcgroup/safespace/util"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaigns *service.CampaignService
	export    *service.ExportService
	qr        *service.QRService
}

func NewCampaignHandler(campaigns *service.CampaignService, export *service.ExportService, qr *service.QRService) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		export:    export,
		qr:        qr,
	}
}

// campaignView decorates a campaign with its derived lifecycle status and
// response count for list and detail endpoints.
type campaignView struct {
	model.Campaign
	Status        string `json:"status"`
	ResponseCount int64  `json:"response_count"`
}

func (h *CampaignHandler) view(campaign *model.Campaign, now time.Time) campaignView {
	count, err := h.campaigns.CountResponses(campaign.ID)
	if err != nil {
		count = 0
	}
	return campaignView{
		Campaign:      *campaign,
		Status:        campaign.Status(now),
		ResponseCount: count,
	}
}

func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	userID, _, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	campaign, err := h.campaigns.CreateCampaign(userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": h.view(campaign, time.Now())})
}

func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	campaigns, err := h.campaigns.ListCampaigns(userID, role)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
		return
	}

	now := time.Now()
	out := make([]campaignView, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, h.view(&campaigns[i], now))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// campaignDetailView is the owner/admin detail payload: the campaign plus
// its responses, notes with authors, and action items.
type campaignDetailView struct {
	campaignView
	Responses   []model.Response   `json:"responses"`
	Notes       []model.Note       `json:"notes"`
	ActionItems []model.ActionItem `json:"action_items"`
}

// GetCampaign serves the full campaign tree to the owner or an admin, and
// the public submission projection to anonymous callers. An authenticated
// caller without access to the campaign gets 403. The route runs behind the
// optional auth middleware so both audiences share it.
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		campaign, err := h.campaigns.GetCampaign(c.Param("id"))
		if err != nil {
			util.HandleError(c, http.StatusNotFound, util.ErrCampaignNotFound, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": campaign.ToPublic()})
		return
	}

	detail, err := h.campaigns.GetCampaignDetail(c.Param("id"), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": campaignDetailView{
		campaignView: campaignView{
			Campaign:      *detail.Campaign,
			Status:        detail.Campaign.Status(time.Now()),
			ResponseCount: int64(len(detail.Responses)),
		},
		Responses:   detail.Responses,
		Notes:       detail.Notes,
		ActionItems: detail.ActionItems,
	}})
}

func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	campaign, err := h.campaigns.UpdateCampaign(c.Param("id"), userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.view(campaign, time.Now())})
}

// DeleteCampaign removes a campaign and everything hanging off it. Admin only.
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	campaign, err := h.campaigns.GetCampaign(c.Param("id"))
	if err != nil {
		util.HandleError(c, http.StatusNotFound, util.ErrCampaignNotFound, nil)
		return
	}

	if err := h.campaigns.DeleteCampaign(campaign.ID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

func (h *CampaignHandler) CloneCampaign(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.CloneCampaignRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleValidationError(c, err)
			return
		}
	}

	clone, err := h.campaigns.CloneCampaign(c.Param("id"), userID, role, req.IncludeResponses)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": h.view(clone, time.Now())})
}

func parseExportFilter(c *gin.Context) service.ExportFilter {
	filter := service.ExportFilter{
		Status:    c.Query("status"),
		Sentiment: c.Query("sentiment"),
	}
	if raw := c.Query("startDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.StartDate = &t
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.EndDate = &t
		}
	}
	return filter
}

// ExportResponses streams the campaign's responses as a CSV or JSON download.
func (h *CampaignHandler) ExportResponses(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	campaign, err := h.campaigns.GetCampaignForUser(c.Param("id"), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filter := parseExportFilter(c)
	format := c.DefaultQuery("format", "csv")

	switch format {
	case "csv":
		csv, err := h.export.ExportCSV(campaign.ID, filter)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(campaign.Title, "csv")+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
	case "json":
		payload, err := h.export.ExportJSON(campaign.ID, filter)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(campaign.Title, "json")+`"`)
		c.Data(http.StatusOK, "application/json", payload)
	default:
		util.HandleError(c, http.StatusBadRequest, "Unsupported export format", nil)
	}
}

// GetQRCode returns the submission link for the campaign together with a QR
// code rendered as a base64 data URL.
func (h *CampaignHandler) GetQRCode(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	campaign, err := h.campaigns.GetCampaignForUser(c.Param("id"), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	dataURL, err := h.qr.GenerateSubmissionQR(campaign.Slug)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, "Failed to generate QR code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":     h.qr.SubmissionURL(campaign.Slug),
		"qr_code": dataURL,
	})
}
