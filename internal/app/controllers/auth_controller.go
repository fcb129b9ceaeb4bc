package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseapi/internal/app/models/dto"
	"github.com/yigit/courseapi/internal/app/services"
	"github.com/yigit/courseapi/internal/middleware"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
)

// AuthController handles authentication requests
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a user account. Username and email must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.APIResponse{data=dto.RegisterResponse} "User registered successfully"
// @Failure 400 {object} dto.APIResponse{data=[]dto.FieldError} "Invalid data or username/email already in use"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	middleware.RespondWithSuccess(ctx, http.StatusCreated, "User registered successfully", dto.NewRegisterResponse(user))
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials and returns the user's bearer token. A still valid token is returned again.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse{data=[]dto.FieldError} "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Invalid username or password"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	token, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	middleware.RespondWithSuccess(ctx, http.StatusOK, "Login successful", token)
}

// Logout revokes the caller's token
// @Summary Log out
// @Description Revokes the current bearer token; the next login issues a new one.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logout successful"
// @Failure 401 {object} dto.APIResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError(apperrors.ErrTokenInvalid, "Authentication required"))
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	middleware.RespondWithSuccess(ctx, http.StatusOK, "Logout successful", nil)
}
