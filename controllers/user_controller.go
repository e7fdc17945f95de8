package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"contenthub/middleware"
	"contenthub/models"
	"contenthub/services"
	"contenthub/upload"
	"contenthub/utils"
)

// UserController manages CRUD over user records.
type UserController struct {
	users     *services.UserService
	uploadDir string
}

// NewUserController creates a UserController.
func NewUserController(users *services.UserService, uploadDir string) *UserController {
	return &UserController{users: users, uploadDir: uploadDir}
}

type createUserRequest struct {
	Name     string      `json:"name" binding:"required,max=50"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Name     *string      `json:"name" binding:"omitempty,max=50"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Password *string      `json:"password" binding:"omitempty,min=6"`
	Role     *models.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// List returns every user, password field excluded.
func (u *UserController) List(ctx *gin.Context) {
	users, err := u.users.ListUsers()
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.SuccessCount(ctx, http.StatusOK, len(users), users)
}

// Get returns a single user by id.
func (u *UserController) Get(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	user, err := u.users.GetUser(id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, user)
}

// Create adds a user, optionally with an explicit role.
func (u *UserController) Create(ctx *gin.Context) {
	var req createUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}

	user, err := u.users.CreateUser(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusCreated, user)
}

// Update applies a partial update. Users may update themselves; only
// admins may update others or change roles.
func (u *UserController) Update(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if !u.canManage(ctx, id) {
		_ = ctx.Error(utils.NewForbiddenError("You can only update your own account"))
		return
	}

	var req updateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(utils.NewValidationError(bindingErrors(err)...))
		return
	}
	if req.Role != nil && !middleware.IsAdmin(ctx) {
		_ = ctx.Error(utils.NewForbiddenError("Only admins can change roles"))
		return
	}

	user, err := u.users.UpdateUser(id, services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, user)
}

// Delete removes a user record. Authored posts keep their dangling
// author reference.
func (u *UserController) Delete(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if err := u.users.DeleteUser(id); err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.SuccessMessage(ctx, http.StatusOK, "User deleted", gin.H{})
}

// UpdateProfileImage stores an uploaded image as the user's profile
// picture, deleting the previously stored file.
func (u *UserController) UpdateProfileImage(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if !u.canManage(ctx, id) {
		_ = ctx.Error(utils.NewForbiddenError("You can only update your own profile image"))
		return
	}

	user, err := u.users.GetUser(id)
	if err != nil {
		_ = ctx.Error(err)
		return
	}

	filename, err := upload.SaveImage(ctx, "profileImage", u.uploadDir)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	if filename == "" {
		_ = ctx.Error(utils.NewValidationError("Please upload a file"))
		return
	}

	if user.ProfileImage != "" {
		old := filepath.Join(u.uploadDir, filepath.Base(user.ProfileImage))
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			utils.Sugar.Warnf("failed to remove old profile image %s: %v", old, err)
		}
	}

	updated, err := u.users.UpdateUser(id, services.UpdateUserInput{ProfileImage: &filename})
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	utils.Success(ctx, http.StatusOK, updated)
}

// canManage reports whether the caller is the target user or an admin.
func (u *UserController) canManage(ctx *gin.Context, targetID uint) bool {
	if middleware.IsAdmin(ctx) {
		return true
	}
	callerID, ok := middleware.CurrentUserID(ctx)
	return ok && callerID == targetID
}
