package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/Balraj7906/todo/internal/constants"
	apierrors "github.com/Balraj7906/todo/internal/errors"
	"github.com/Balraj7906/todo/internal/services"
	"github.com/gin-gonic/gin"
)

// RequireAuth validates the bearer token on the request and stores the
// resolved user ID in the context. The client always sees the same 401
// regardless of why the token was rejected; the reason is logged.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		userID, err := tokens.Verify(raw)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				log.Printf("auth: rejected expired token")
			default:
				log.Printf("auth: rejected invalid token: %v", err)
			}
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
