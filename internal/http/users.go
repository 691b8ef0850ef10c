package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// UserStore defines database operations for user management.
type UserStore interface {
	GetUserByID(id uint) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	ListUsers(params pagination.Params) ([]entities.User, error)
	UpdateUser(id uint, in users.UserUpdate) (*entities.User, error)
	DeleteUser(id uint) error
}

// AccountService creates accounts and hashes passwords. *auth.Service
// satisfies it.
type AccountService interface {
	CreateUser(email, password, displayName string, role entities.UserRole) (*entities.User, error)
	HashPassword(password string) (string, error)
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// UpdateUserRequest is the body of PUT /users/:id. An empty password
// keeps the current one.
type UpdateUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type UsersController struct {
	store    UserStore
	accounts AccountService
	limits   PageLimits
}

func NewUsersController(store UserStore, accounts AccountService, limits PageLimits) *UsersController {
	return &UsersController{store: store, accounts: accounts, limits: limits}
}

// GET /users
func (uc *UsersController) ListUsers(c *gin.Context) {
	params, ok := parsePagination(c, uc.limits)
	if !ok {
		return
	}

	list, err := uc.store.ListUsers(params)
	if err != nil {
		respondAppError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /users/:id
func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.store.GetUserByID(id)
	if err != nil {
		respondAppError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /users/email/:email
func (uc *UsersController) GetUserByEmail(c *gin.Context) {
	user, err := uc.store.GetUserByEmail(c.Param("email"))
	if err != nil {
		respondAppError(c, err, "get user by email")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /users
func (uc *UsersController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	role := entities.UserRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	user, err := uc.accounts.CreateUser(req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		respondAppError(c, err, "create user")
		return
	}
	respondCreated(c, user)
}

// UpdateUser replaces a user's email and display name and, when given,
// re-hashes the password.
// PUT /users/:id
func (uc *UsersController) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email is required")
		return
	}

	update := users.UserUpdate{Email: req.Email, DisplayName: req.DisplayName}
	if req.Password != "" {
		hash, err := uc.accounts.HashPassword(req.Password)
		if err != nil {
			respondAppError(c, err, "hash password")
			return
		}
		update.PasswordHash = hash
	}

	user, err := uc.store.UpdateUser(id, update)
	if err != nil {
		respondAppError(c, err, "update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user with an empty reading list.
// DELETE /users/:id
func (uc *UsersController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := uc.store.DeleteUser(id); err != nil {
		respondAppError(c, err, "delete user")
		return
	}
	respondSuccess(c, "user deleted")
}
