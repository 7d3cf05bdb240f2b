package controllers

import (
	"net/http"

	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// @Summary List orders
// @Description Staff see every order, other users only their own
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(Pending, Shipped, Delivered)
// @Param ordering query string false "Ordering" Enums(created_at, -created_at, total_price, -total_price)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse{data=[]models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Router /orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))

	result, err := ctrl.orderService.List(c.Request.Context(), principal(c), status, c.Query("ordering"), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Create order
// @Description Prices the items at current product prices and stores the order as Pending
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateOrderRequest true "Order items"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Order created successfully",
		Data:    order,
	})
}

// @Summary Get order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "order")
	if !ok {
		return
	}

	order, err := ctrl.orderService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}

// @Summary Update order
// @Description Status moves forward only. recompute_total is staff only.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body models.UpdateOrderRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [patch]
func (ctrl *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "order")
	if !ok {
		return
	}

	var req models.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := ctrl.orderService.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order updated successfully",
		Data:    order,
	})
}
