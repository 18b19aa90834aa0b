package handler

import (
	"net/http"

	"github.com/bobibcgroup/safespace/middleware"
	"github.com/bobibcgroup/safespace/service"
	"github.com/bobibcgroup/safespace/util"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a 24h session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.HandleValidationError(c, err)
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		util.HandleError(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := middleware.IssueToken(user)
	if err != nil {
		util.HandleError(c, http.StatusInternalServerError, util.ErrInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToResponse(),
	})
}
