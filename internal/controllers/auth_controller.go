package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tasker-be/internal/models"
	"tasker-be/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Signup handles POST /users
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := ac.authService.Signup(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /users/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := ac.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles POST /users/logout - drops the session token that made
// this request, leaving other sessions logged in
func (ac *AuthController) Logout(c *gin.Context) {
	user, token, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	if err := ac.authService.Logout(user.ID, token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// LogoutAll handles POST /users/logoutAll - drops every session token
func (ac *AuthController) LogoutAll(c *gin.Context) {
	user, _, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	if err := ac.authService.LogoutAll(user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out everywhere"})
}
