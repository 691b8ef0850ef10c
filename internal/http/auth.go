package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Authenticator is the part of *auth.Service the auth endpoints use.
type Authenticator interface {
	Register(email, password, displayName string) (*entities.User, error)
	Login(email, password string) (*auth.LoginResult, error)
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest accepts either a JSON body or an OAuth2-style password
// form where the email travels in "username".
type LoginRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

type AuthController struct {
	service Authenticator
}

func NewAuthController(service Authenticator) *AuthController {
	return &AuthController{service: service}
}

// POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	user, err := ac.service.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondAppError(c, err, "register")
		return
	}
	respondCreated(c, user)
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" || req.Password == "" {
		respondBadRequest(c, "email and password are required")
		return
	}

	result, err := ac.service.Login(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "invalid_credentials"})
		return
	}
	if err != nil {
		respondAppError(c, err, "login")
		return
	}
	c.JSON(http.StatusOK, result)
}
