package routes

import (
	"shop-api/controllers"
	"shop-api/middleware"
	"shop-api/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth    *controllers.AuthController
	Product *controllers.ProductController
	Comment *controllers.CommentController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, tokens *utils.JWTManager) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", middleware.OptionalAuth(tokens), ctrl.Auth.Register)
	router.POST("/auth/login", ctrl.Auth.Login)
	router.POST("/auth/check-email", ctrl.Auth.CheckEmail)
	router.GET("/categories", ctrl.Product.GetAllCategories)
	router.GET("/products", ctrl.Product.GetAllProducts)
	router.GET("/products/:id", ctrl.Product.GetProductByID)
	router.GET("/trending-products", ctrl.Product.GetTrendingProducts)
	router.GET("/comments", ctrl.Comment.GetComments)
	router.GET("/comments/:id", ctrl.Comment.GetComment)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(tokens))
	{
		auth.GET("/auth/me", ctrl.Auth.Me)
		auth.POST("/auth/verify-token", ctrl.Auth.VerifyToken)

		auth.POST("/comments", ctrl.Comment.CreateComment)
		auth.DELETE("/comments/:id", ctrl.Comment.DeleteComment)

		auth.POST("/add-to-cart", ctrl.Cart.AddToCart)
		auth.GET("/carts", ctrl.Cart.GetCarts)
		auth.POST("/carts", ctrl.Cart.CreateCart)
		auth.GET("/carts/:id", ctrl.Cart.GetCart)
		auth.GET("/cart-items", ctrl.Cart.GetCartItems)
		auth.POST("/cart-items", ctrl.Cart.CreateCartItem)
		auth.PATCH("/cart-items/:id", ctrl.Cart.UpdateCartItem)
		auth.DELETE("/cart-items/:id", ctrl.Cart.DeleteCartItem)

		auth.GET("/orders", ctrl.Order.GetOrders)
		auth.POST("/orders", ctrl.Order.CreateOrder)
		auth.GET("/orders/:id", ctrl.Order.GetOrderByID)
		auth.PATCH("/orders/:id", ctrl.Order.UpdateOrder)
	}

	staff := router.Group("/")
	staff.Use(middleware.AuthMiddleware(tokens), middleware.StaffMiddleware())
	{
		staff.POST("/categories", ctrl.Product.CreateCategory)
		staff.POST("/products", ctrl.Product.CreateProduct)
		staff.PATCH("/products/:id", ctrl.Product.UpdateProduct)
		staff.DELETE("/products/:id", ctrl.Product.DeleteProduct)
	}
}
