package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/maplecart/storefront-backend/internal/response"
	"github.com/maplecart/storefront-backend/internal/services"
	"github.com/maplecart/storefront-backend/internal/types"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (oh *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := oh.orderService.GetOrders(c.Request.Context(), parseLimitQuery(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": orders})
}

func (oh *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	order, err := oh.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

func (oh *OrderHandler) ListOrdersByCustomer(c *gin.Context) {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	orders, err := oh.orderService.GetOrdersByCustomer(c.Request.Context(), customerID, parseLimitQuery(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": orders})
}

type createOrderRequest struct {
	CustomerID      uint                 `json:"customer_id" binding:"required"`
	ShippingAddress string               `json:"shipping_address"`
	BillingAddress  string               `json:"billing_address"`
	OrderEmail      string               `json:"order_email"`
	Items           []services.LineInput `json:"items" binding:"required"`
}

func (oh *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	order, err := oh.orderService.CreateOrder(c.Request.Context(), req.CustomerID, req.ShippingAddress, req.BillingAddress, req.OrderEmail, req.Items)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"order": order})
}

type updateOrderRequest struct {
	Status          string `json:"status"`
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
}

func (oh *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}

	ctx := c.Request.Context()
	var order *types.Order
	if req.ShippingAddress != "" || req.BillingAddress != "" {
		order, err = oh.orderService.UpdateOrderAddresses(ctx, orderID, req.ShippingAddress, req.BillingAddress)
		if err != nil {
			response.RespondError(c, err)
			return
		}
	}
	if req.Status != "" {
		order, err = oh.orderService.UpdateOrderStatus(ctx, orderID, types.OrderStatus(req.Status))
		if err != nil {
			response.RespondError(c, err)
			return
		}
	}
	if order == nil {
		order, err = oh.orderService.GetOrderByID(ctx, orderID)
		if err != nil {
			response.RespondError(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{"order": order})
}

func (oh *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := oh.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "order deleted"})
}

type bulkAddLinesRequest struct {
	Items []services.LineInput `json:"items" binding:"required"`
}

func (oh *OrderHandler) BulkAddLines(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req bulkAddLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	order, err := oh.orderService.BulkAddLines(c.Request.Context(), orderID, req.Items)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (oh *OrderHandler) SetLineQuantity(c *gin.Context) {
	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	order, err := oh.orderService.SetLineQuantity(c.Request.Context(), lineID, req.Quantity)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

type bulkSetQuantitiesRequest struct {
	Updates []services.QuantityUpdate `json:"updates" binding:"required"`
}

func (oh *OrderHandler) BulkSetQuantities(c *gin.Context) {
	var req bulkSetQuantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, invalidBody(err))
		return
	}
	order, err := oh.orderService.BulkSetQuantities(c.Request.Context(), req.Updates)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

func (oh *OrderHandler) RemoveLine(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	order, err := oh.orderService.RemoveLine(c.Request.Context(), orderID, productID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}

func (oh *OrderHandler) RemoveAllLines(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	order, err := oh.orderService.RemoveAllLines(c.Request.Context(), orderID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order})
}
