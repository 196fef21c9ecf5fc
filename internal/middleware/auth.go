package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasker-be/internal/jwt"
	"tasker-be/internal/repository"
)

// Context keys set by AuthMiddleware for downstream handlers
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// AuthMiddleware resolves the bearer token to an authenticated user. The
// token must both carry a valid signature and still be on the user's active
// token list; the second check is what makes logout effective before the
// signature expires. Every failure produces the same 401 response.
func AuthMiddleware(jwtService *jwt.JWTService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(c)
			return
		}

		userID, err := jwtService.ValidateToken(token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		user, err := userRepo.FindByIDAndToken(userID, token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		// The token is kept alongside the user so logout can remove
		// exactly the session that made the request.
		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "please authenticate",
	})
}
