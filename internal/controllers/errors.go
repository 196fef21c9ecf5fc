package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasker-be/internal/apperrors"
	"tasker-be/internal/entities"
	"tasker-be/internal/middleware"
)

func errInvalidQueryParam(name string) error {
	return apperrors.NewValidationError(name, "is not a valid query parameter value")
}

// respondError maps core errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please authenticate"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// currentUser returns the user and token attached by the auth middleware
func currentUser(c *gin.Context) (*entities.User, string, bool) {
	userValue, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, "", false
	}
	user, ok := userValue.(*entities.User)
	if !ok {
		return nil, "", false
	}
	token := c.GetString(middleware.ContextTokenKey)
	return user, token, true
}

// mustCurrentUser is currentUser with a 401 on absence; a miss means the
// route was wired without the auth middleware
func mustCurrentUser(c *gin.Context) (*entities.User, string, bool) {
	user, token, ok := currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please authenticate"})
	}
	return user, token, ok
}
