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

type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	note, err := h.notes.CreateNote(userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": note})
}

// ListNotes returns notes in a campaign's tree: notes on the campaign itself
// plus notes on any of its responses.
func (h *NoteHandler) ListNotes(c *gin.Context) {
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

	notes, err := h.notes.ListNotes(uint(campaignID), userID, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notes})
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	note, err := h.notes.UpdateNote(id, userID, role, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": note})
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, role, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notes.DeleteNote(id, userID, role); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
