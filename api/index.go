package api

import (
	"net/http"
	"sync"

	"shop-api/app"
	"shop-api/config"
	"shop-api/models"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	application *app.App
	initErr     error
	once        sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)
		application, initErr = app.New(config.LoadConfig())
		if initErr != nil {
			zap.L().Error("failed to initialize application", zap.Error(initErr))
		}
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Message: "Service unavailable",
			Error:   "Service unavailable",
		})
		return
	}
	application.Router.ServeHTTP(w, r)
}
