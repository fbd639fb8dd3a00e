package handler

import (
	"errors"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request body. Omitted
// fields are left unchanged.
type UpdateProfileRequest struct {
	Name               *string `json:"name,omitempty"`
	Email              *string `json:"email,omitempty"`
	CurrencyPreference *string `json:"currencyPreference,omitempty"`
	MonthlyIncome      *string `json:"monthlyIncome,omitempty"`
}

// GetProfile handles GET /users/profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	user, err := h.profileService.Get(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PUT /users/profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateUserData{
		Name:               req.Name,
		Email:              req.Email,
		CurrencyPreference: req.CurrencyPreference,
	}

	if req.MonthlyIncome != nil {
		parsed, err := decimal.NewFromString(*req.MonthlyIncome)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "monthlyIncome", Message: "Must be a valid decimal number"},
			})
		}
		data.MonthlyIncome = &parsed
	}

	user, err := h.profileService.Update(userID, data)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(c, "Validation failed", fieldErrors(verrs))
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			return NewConflictError(c, "Email is already registered")
		}
		log.Error().Err(err).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteAccount handles DELETE /users/account
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)

	if err := h.profileService.DeleteAccount(userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	return c.NoContent(http.StatusNoContent)
}
