package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/requestdata"
	"github.com/maplecart/storefront-backend/internal/response"
	"github.com/maplecart/storefront-backend/internal/services"
)

// CartHandler is the customer-facing view of the open order. The customer
// identity comes from the access token, never from the payload.
type CartHandler struct {
	orderService services.OrderService
}

func NewCartHandler(orderService services.OrderService) *CartHandler {
	return &CartHandler{orderService: orderService}
}

func (ch *CartHandler) GetCart(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	cart, err := ch.orderService.FindOpenOrder(c.Request.Context(), rd.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			response.RespondOK(c, gin.H{"cart": nil})
			return
		}
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": cart})
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

func (ch *CartHandler) AddItem(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	cart, err := ch.orderService.AddToCart(c.Request.Context(), rd.UserID, rd.Email, req.ProductID, req.Quantity)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": cart})
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
	OrderEmail      string `json:"order_email"`
}

func (ch *CartHandler) Checkout(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	cart, err := ch.orderService.FindOpenOrder(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	placed, err := ch.orderService.PlaceOrder(c.Request.Context(), cart.ID, req.ShippingAddress, req.BillingAddress, req.OrderEmail)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": placed})
}
