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

type ActionItemHandler struct {
	items *service.ActionItemService
}

func NewActionItemHandler(items *service.ActionItemService) *ActionItemHandler {
	return &ActionItemHandler{items: items}
}

func (h *ActionItemHandler) CreateActionItem(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.CreateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	item, err := h.items.CreateActionItem(userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (h *ActionItemHandler) ListActionItems(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	campaignID, err := strconv.ParseUint(c.Query("campaignId"), 10, 32)
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, "campaignId is required", nil)
		return
	}

	items, err := h.items.ListActionItems(uint(campaignID), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *ActionItemHandler) UpdateActionItem(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	item, err := h.items.UpdateActionItem(id, userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (h *ActionItemHandler) DeleteActionItem(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.items.DeleteActionItem(id, userID, role); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Action item deleted"})
}
