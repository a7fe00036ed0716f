package middleware

import (
	"strings"

	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/climasgama/pos-terminal/pkg/utils"
	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the entity.Session of the request.
const SessionKey = "session"

// AuthMiddleware reads the backend's bearer token and stores the cashier
// session in the context. The raw token travels with the session so every
// upstream call is made on the cashier's behalf.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := parts[1]

		claims, err := jwtManager.ParseSessionToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(SessionKey, entity.Session{
			Token:    tokenString,
			UserID:   claims.UserID,
			Username: claims.Username,
			Name:     claims.Name,
			Role:     claims.Role,
		})
		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

// GetSession returns the session set by AuthMiddleware.
func GetSession(c *gin.Context) (entity.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return entity.Session{}, false
	}
	session, ok := v.(entity.Session)
	return session, ok
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
