package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maplecart/storefront-backend/internal/response"
	"github.com/maplecart/storefront-backend/internal/services"
	"github.com/maplecart/storefront-backend/internal/types"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (ch *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := ch.categoryService.ListCategories(c.Request.Context(), parseLimitQuery(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": categories})
}

func (ch *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	category, err := ch.categoryService.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": category})
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (ch *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	category, err := ch.categoryService.CreateCategory(c.Request.Context(), &types.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": category})
}

type categoryUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (ch *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	category, err := ch.categoryService.UpdateCategory(c.Request.Context(), categoryID, updates)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ch.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "category deleted"})
}
