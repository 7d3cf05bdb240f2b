package middleware

import (
	"net/http"
	"strings"

	"shop-api/models"
	"shop-api/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

func AuthMiddleware(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Authorization header required",
				Error:   "Authorization header required",
			})
			return
		}

		claims, err := parseBearer(tokens, authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid or expired token",
				Error:   "Invalid or expired token",
			})
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuth(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if claims, err := parseBearer(tokens, authHeader); err == nil {
				setPrincipal(c, claims)
			}
		}
		c.Next()
	}
}

func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok || !principal.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "Access denied. Staff role required",
				Error:   "Access denied. Staff role required",
			})
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	principal, ok := v.(models.Principal)
	return principal, ok
}

func parseBearer(tokens *utils.JWTManager, header string) (*utils.Claims, error) {
	tokenParts := strings.Split(header, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, utils.ErrInvalidToken
	}
	return tokens.ValidateToken(tokenParts[1])
}

func setPrincipal(c *gin.Context, claims *utils.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set(principalKey, models.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsStaff:  claims.IsStaff,
	})
}
