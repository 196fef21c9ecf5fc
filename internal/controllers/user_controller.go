package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasker-be/internal/models"
	"tasker-be/internal/service"
)

type UserController struct {
	userService    service.UserService
	maxAvatarBytes int64
}

func NewUserController(userService service.UserService, maxAvatarBytes int64) *UserController {
	return &UserController{
		userService:    userService,
		maxAvatarBytes: maxAvatarBytes,
	}
}

// Me handles GET /users/me
func (uc *UserController) Me(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me. The body is decoded as a free-form
// object so unknown fields reject the whole request.
func (uc *UserController) UpdateMe(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	updated, err := uc.userService.UpdateProfile(user.ID, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(updated))
}

// DeleteMe handles DELETE /users/me. Owned tasks go with the account.
func (uc *UserController) DeleteMe(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	if err := uc.userService.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// UploadAvatar handles POST /users/me/avatar with a multipart "avatar" field
func (uc *UserController) UploadAvatar(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if fileHeader.Size > uc.maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}
	defer file.Close()

	avatar, err := io.ReadAll(io.LimitReader(file, uc.maxAvatarBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
		return
	}

	if err := uc.userService.SetAvatar(c.Request.Context(), user.ID, avatar); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "avatar uploaded"})
}

// DeleteAvatar handles DELETE /users/me/avatar
func (uc *UserController) DeleteAvatar(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	if err := uc.userService.ClearAvatar(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "avatar removed"})
}

// GetAvatar handles GET /users/:id/avatar - public avatar fetch
func (uc *UserController) GetAvatar(c *gin.Context) {
	userID := c.Param("id")

	avatar, err := uc.userService.GetAvatar(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(avatar), avatar)
}
