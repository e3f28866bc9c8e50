package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/maplecart/storefront-backend/internal/response"
	"github.com/maplecart/storefront-backend/internal/services"
	"github.com/maplecart/storefront-backend/internal/types"
)

type ProductHandler struct {
	catalogService services.CatalogService
}

func NewProductHandler(catalogService services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

func (ph *ProductHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	limit := parseLimitQuery(c)

	if query := c.Query("search"); query != "" {
		products, err := ph.catalogService.SearchProducts(ctx, query, limit)
		if err != nil {
			response.RespondError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"products": products})
		return
	}

	products, err := ph.catalogService.ListProducts(ctx, limit)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"products": products})
}

func (ph *ProductHandler) ListProductsByCategory(c *gin.Context) {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	products, err := ph.catalogService.ListProductsByCategory(c.Request.Context(), categoryID, parseLimitQuery(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"products": products})
}

func (ph *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	product, err := ph.catalogService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}

type productRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    uint            `json:"category_id" binding:"required"`
	Attributes    datatypes.JSON  `json:"attributes"`
}

func (ph *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	product, err := ph.catalogService.CreateProduct(c.Request.Context(), &types.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		Attributes:    req.Attributes,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"product": product})
}

type productUpdateRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	CategoryID    *uint            `json:"category_id"`
	Attributes    datatypes.JSON   `json:"attributes"`
}

func (ph *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Attributes != nil {
		updates["attributes"] = req.Attributes
	}
	product, err := ph.catalogService.UpdateProduct(c.Request.Context(), productID, updates)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}

func (ph *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ph.catalogService.DeleteProduct(c.Request.Context(), productID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "product deleted"})
}
