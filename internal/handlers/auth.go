package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maplecart/storefront-backend/internal/response"
	"github.com/maplecart/storefront-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	pair, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	pair, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	if err := ah.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "logged out"})
}
