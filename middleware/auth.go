package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bobibcgroup/safespace/config"
	"github.com/bobibcgroup/safespace/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs a 24h session token for an authenticated user.
func IssueToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(config.AppCfg.JWTSecret))
}

// IssueReportToken signs a short-lived token remembering a successful public
// report password verification, scoped to one campaign.
func IssueReportToken(campaignID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"campaign_id": campaignID,
		"scope":       "report",
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(config.AppCfg.JWTSecret))
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppCfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func setSession(c *gin.Context, claims jwt.MapClaims) bool {
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	c.Set("user_id", uint(userIDFloat))
	c.Set("user_role", role)
	return true
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := parseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !setSession(c, claims) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware populates the session when a valid token is
// present and lets anonymous callers through. Used on endpoints that serve
// a public projection without identity.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := parseToken(tokenStr); err == nil {
				setSession(c, claims)
			}
		}
		c.Next()
	}
}

// AdminMiddleware gates admin-only routes. Runs after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// VerifyReportToken checks a report-access token against a campaign id.
func VerifyReportToken(tokenString string, campaignID uint) bool {
	claims, err := parseToken(tokenString)
	if err != nil {
		return false
	}
	if scope, _ := claims["scope"].(string); scope != "report" {
		return false
	}
	idFloat, ok := claims["campaign_id"].(float64)
	return ok && uint(idFloat) == campaignID
}

// SessionUser extracts the caller identity stored by the auth middleware.
func SessionUser(c *gin.Context) (uint, string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, "", false
	}
	role, _ := c.Get("user_role")
	roleStr, _ := role.(string)
	return userID.(uint), roleStr, true
}
