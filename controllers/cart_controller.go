package controllers

import (
	"net/http"

	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// @Summary Add to cart
// @Description Set the quantity of a product in a cart. Repeating the call replaces the quantity.
// @Tags Carts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AddToCartRequest true "Cart, product and quantity"
// @Success 201 {object} models.Response{data=models.CartItem}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /add-to-cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := ctrl.cartService.AddOrUpdateItem(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    item,
	})
}

// @Summary My carts
// @Description The caller's cart, created on first access
// @Tags Carts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.Cart}
// @Router /carts [get]
func (ctrl *CartController) GetCarts(c *gin.Context) {
	cart, err := ctrl.cartService.GetOrCreate(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Carts retrieved successfully",
		Data:    []models.Cart{*cart},
	})
}

// @Summary Get or create cart
// @Tags Carts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /carts [post]
func (ctrl *CartController) CreateCart(c *gin.Context) {
	cart, err := ctrl.cartService.GetOrCreate(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    cart,
	})
}

// @Summary Get cart
// @Tags Carts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart ID"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /carts/{id} [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	id, ok := paramID(c, "cart")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    cart,
	})
}

// @Summary My cart items
// @Tags Cart Items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.CartItem}
// @Router /cart-items [get]
func (ctrl *CartController) GetCartItems(c *gin.Context) {
	items, err := ctrl.cartService.ListItems(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart items retrieved successfully",
		Data:    items,
	})
}

// @Summary Add item to my cart
// @Tags Cart Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CartItemRequest true "Product and quantity"
// @Success 201 {object} models.Response{data=models.CartItem}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart-items [post]
func (ctrl *CartController) CreateCartItem(c *gin.Context) {
	var req models.CartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := ctrl.cartService.AddToMyCart(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    item,
	})
}

// @Summary Update cart item quantity
// @Tags Cart Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart item ID"
// @Param request body models.UpdateCartItemRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.CartItem}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart-items/{id} [patch]
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	id, ok := paramID(c, "cart item")
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := ctrl.cartService.UpdateItem(c.Request.Context(), principal(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart item updated successfully",
		Data:    item,
	})
}

// @Summary Remove cart item
// @Tags Cart Items
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart item ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart-items/{id} [delete]
func (ctrl *CartController) DeleteCartItem(c *gin.Context) {
	id, ok := paramID(c, "cart item")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart item removed successfully",
	})
}
