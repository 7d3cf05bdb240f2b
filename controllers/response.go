package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", middleware.RequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	message := services.PublicMessage(err)
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   message,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   message,
	})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondBadRequest(c, "Invalid "+name+" ID")
		return 0, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) services.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return services.NewPage(page, limit)
}

// principal is only called behind AuthMiddleware.
func principal(c *gin.Context) models.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}
