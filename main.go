package main

import (
	"shop-api/app"
	"shop-api/config"
	_ "shop-api/docs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Shop API
// @version 1.0
// @description Catalog, carts, orders and sentiment-tagged comments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()
	defer zap.L().Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	application, err := app.New(cfg)
	if err != nil {
		zap.L().Fatal("failed to start application", zap.Error(err))
	}
	defer application.Close()

	port := ":" + cfg.Port
	zap.L().Info("server starting",
		zap.String("port", port),
		zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"),
	)

	if err := application.Router.Run(port); err != nil {
		zap.L().Fatal("failed to start server", zap.Error(err))
	}
}
