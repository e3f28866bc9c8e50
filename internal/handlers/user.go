package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maplecart/storefront-backend/internal/requestdata"
	"github.com/maplecart/storefront-backend/internal/response"
	"github.com/maplecart/storefront-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	me, err := uh.userService.GetUser(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": me})
}

func (uh *UserHandler) GetUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	user, err := uh.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

func (uh *UserHandler) ListUsers(c *gin.Context) {
	users, err := uh.userService.ListUsers(c.Request.Context(), parseLimitQuery(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (uh *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	user, err := uh.userService.UpdateUser(c.Request.Context(), userID, req.Name, req.Email)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

func (uh *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := uh.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "user deleted"})
}
