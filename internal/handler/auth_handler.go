package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AuthHandler handles registration and login HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	CurrencyPreference *string `json:"currencyPreference,omitempty"`
	MonthlyIncome      *string `json:"monthlyIncome,omitempty"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	CurrencyPreference string `json:"currencyPreference"`
	MonthlyIncome      string `json:"monthlyIncome"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register handles POST /users/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var income *decimal.Decimal
	if req.MonthlyIncome != nil && *req.MonthlyIncome != "" {
		parsed, err := decimal.NewFromString(*req.MonthlyIncome)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "monthlyIncome", Message: "Must be a valid decimal number"},
			})
		}
		income = &parsed
	}

	user, err := h.authService.Register(service.RegisterInput{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		CurrencyPreference: req.CurrencyPreference,
		MonthlyIncome:      income,
	})
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(c, "Validation failed", fieldErrors(verrs))
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			return NewConflictError(c, "Email is already registered")
		}
		log.Error().Err(err).Msg("Registration failed")
		return NewInternalError(c, "Failed to register user")
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login handles POST /users/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.Email == "" || req.Password == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "email", Message: "Email and password are required"},
		})
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Login failed")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                 user.ID.String(),
		Name:               user.Name,
		Email:              user.Email,
		CurrencyPreference: user.CurrencyPreference,
		MonthlyIncome:      user.MonthlyIncome.StringFixed(2),
		CreatedAt:          user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
