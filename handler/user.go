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

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		util.HandleError(c, http.StatusBadRequest, util.ErrInvalidRequest, nil)
		return 0, false
	}
	return uint(id), true
}

// CreateUser registers a new HR account. Admin only (enforced in the router).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	user, err := h.users.CreateUser(req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user.ToResponse()})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers()
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
		return
	}

	out := make([]model.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, user.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetProfile returns the calling user's own record.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        user.ToResponse(),
		"preferences": user.Preferences(),
	})
}

// UpdateUser edits a user record. HR may only edit itself; role changes are
// honored for admin callers only.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, callerRole, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if callerRole != model.RoleAdmin && callerID != id {
		util.HandleError(c, http.StatusForbidden, util.ErrForbiddenAccess, nil)
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	user, err := h.users.UpdateUser(id, callerRole, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user.ToResponse()})
}

// UpdateNotificationPreferences merges partial preference updates for the caller.
func (h *UserHandler) UpdateNotificationPreferences(c *gin.Context) {
	userID, _, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	var req model.UpdateNotificationPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	user, err := h.users.UpdateNotificationPreferences(userID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": user.Preferences()})
}

// DeleteUser removes a user. When the user still owns campaigns or notes the
// service reports the counts and a reassignment target must be supplied.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, _, ok := middleware.SessionUser(c)
	if !ok {
		util.HandleError(c, http.StatusUnauthorized, util.ErrUnauthorized, nil)
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.DeleteUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleValidationError(c, err)
			return
		}
	}

	if err := h.users.DeleteUser(id, callerID, req.ReassignToUserID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
