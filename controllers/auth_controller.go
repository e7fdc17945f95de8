package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contenthub/middleware"
	"contenthub/services"
	"contenthub/utils"
)

// AuthController handles registration, login, logout and the current
// user lookup.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account with the default role.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}

	user, err := a.users.Register(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	utils.SuccessMessage(ctx, http.StatusCreated, "User registered successfully", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// Login verifies credentials and returns a bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}

	result, err := a.users.Login(req.Email, req.Password)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	utils.SuccessMessage(ctx, http.StatusOK, "Login successful", result)
}

// Me returns the authenticated user's record.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		_ = ctx.Error(utils.NewUnauthorizedError("Not authorized"))
		return
	}

	user, err := a.users.GetUser(userID)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	utils.Success(ctx, http.StatusOK, user)
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenVal, _ := ctx.Get(middleware.ContextTokenKey)
	token, _ := tokenVal.(string)
	claimsVal, _ := ctx.Get(middleware.ContextClaimsKey)
	claims, _ := claimsVal.(*utils.Claims)

	if token != "" && claims != nil && claims.ExpiresAt != nil {
		utils.BlacklistToken(token, claims.ExpiresAt.Time)
	}

	utils.SuccessMessage(ctx, http.StatusOK, "Logged out", nil)
}
