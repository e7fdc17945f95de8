package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"contenthub/models"
	"contenthub/utils"
)

// UserService owns CRUD over user records and the registration/login
// orchestration.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserInput is the payload for user creation and registration.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// UpdateUserInput carries partial update fields; nil means unchanged.
type UpdateUserInput struct {
	Name         *string
	Email        *string
	Password     *string
	Role         *models.Role
	ProfileImage *string
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
	Role  models.Role       `json:"role"`
}

// ListUsers returns every user. Intentionally unpaginated; the user
// collection is small and the original API never paginated it.
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, utils.NewInternalError("failed to retrieve users")
	}
	return users, nil
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, utils.NewInternalError("failed to retrieve user")
	}
	return &user, nil
}

// CreateUser persists a new user with a hashed password. Duplicate
// emails are rejected.
func (s *UserService) CreateUser(in CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, utils.NewInternalError("failed to check existing user")
	}
	if count > 0 {
		return nil, utils.NewConflictError("User already exists")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.NewInternalError("failed to hash password")
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("User already exists")
		}
		return nil, utils.NewInternalError("failed to create user")
	}

	utils.Sugar.Infow("user created", "id", user.ID, "email", user.Email)
	return &user, nil
}

// Register is the auth-flow alias for CreateUser. Registration never
// grants a role other than the default.
func (s *UserService) Register(in CreateUserInput) (*models.User, error) {
	in.Role = models.RoleUser
	return s.CreateUser(in)
}

// UpdateUser applies a partial update. A supplied password is re-hashed
// before persisting.
func (s *UserService) UpdateUser(id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			var count int64
			if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, utils.NewInternalError("failed to check existing user")
			}
			if count > 0 {
				return nil, utils.NewConflictError("User already exists")
			}
		}
		updates["email"] = email
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, utils.NewInternalError("failed to hash password")
		}
		updates["password_hash"] = hash
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.ProfileImage != nil {
		updates["profile_image"] = *in.ProfileImage
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, utils.NewInternalError("failed to update user")
		}
	}

	return s.GetUser(id)
}

// DeleteUser removes the record. Authored posts are left in place with a
// dangling author reference, matching the original behavior.
func (s *UserService) DeleteUser(id uint) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(user).Error; err != nil {
		return utils.NewInternalError("failed to delete user")
	}
	utils.Sugar.Infow("user deleted", "id", id)
	return nil
}

// Login verifies credentials and issues a signed token embedding the
// user id and role.
func (s *UserService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewUnauthorizedError("Invalid credentials")
		}
		return nil, utils.NewInternalError("failed to retrieve user")
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, utils.NewUnauthorizedError("Invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, utils.NewInternalError("failed to issue token")
	}

	utils.Sugar.Infow("user logged in", "id", user.ID)
	return &LoginResult{Token: token, User: user.Public(), Role: user.Role}, nil
}
