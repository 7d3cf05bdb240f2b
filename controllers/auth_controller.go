package controllers

import (
	"net/http"
	"strings"

	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// @Summary Register user
// @Description Create an account. is_staff is honored only when the caller is staff.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register request"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	var caller *models.Principal
	if p, ok := middleware.CurrentPrincipal(c); ok {
		caller = &p
	}

	user, err := ctrl.authService.Register(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "User registered successfully",
		Data:    user,
	})
}

// @Summary Login
// @Description Exchange credentials for a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    res,
	})
}

// @Summary Check email
// @Description Report whether an email is already registered
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.CheckEmailRequest true "Email"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/check-email [post]
func (ctrl *AuthController) CheckEmail(c *gin.Context) {
	var req models.CheckEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	exists, err := ctrl.authService.EmailRegistered(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Email checked",
		Data:    gin.H{"exists": exists},
	})
}

// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.authService.Me(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// @Summary Verify token
// @Description Validate the bearer token and return its claims
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/verify-token [post]
func (ctrl *AuthController) VerifyToken(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	p, err := ctrl.authService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Message: "Invalid or expired token",
			Error:   "Invalid or expired token",
		})
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Token is valid",
		Data: gin.H{
			"user_id":  p.UserID,
			"username": p.Username,
			"is_staff": p.IsStaff,
		},
	})
}
