package service

import (
	"strings"

	"github.com/centsible/centsible-backend/internal/domain"
	ws "github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileService handles the authenticated user's own account
type ProfileService struct {
	userRepo  domain.UserRepository
	publisher ws.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, publisher ws.EventPublisher) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Get retrieves the user's profile
func (s *ProfileService) Get(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// Update applies a partial profile update. All violated fields are reported
// together; nil fields are left unchanged.
func (s *ProfileService) Update(userID uuid.UUID, data *domain.UpdateUserData) (*domain.User, error) {
	var verrs domain.ValidationErrors

	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if len(name) < domain.MinUserNameLength || len(name) > domain.MaxUserNameLength {
			verrs.Add("name", "name must be between 2 and 100 characters")
		} else if !nameRegexp.MatchString(name) {
			verrs.Add("name", "name can only contain letters and spaces")
		} else {
			data.Name = &name
		}
	}

	if data.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*data.Email))
		if !emailRegexp.MatchString(email) {
			verrs.Add("email", "invalid email format")
		} else {
			data.Email = &email
		}
	}

	if data.CurrencyPreference != nil {
		currency := strings.ToUpper(strings.TrimSpace(*data.CurrencyPreference))
		if !currencyRegexp.MatchString(currency) {
			verrs.Add("currencyPreference", "currency must be a 3-letter code")
		} else {
			data.CurrencyPreference = &currency
		}
	}

	if data.MonthlyIncome != nil && data.MonthlyIncome.IsNegative() {
		verrs.Add("monthlyIncome", "monthly income cannot be negative")
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	updated, err := s.userRepo.Update(userID, data)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, ws.ProfileUpdated(updated))

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")
	return updated, nil
}

// DeleteAccount removes the user and every transaction and budget they own
func (s *ProfileService) DeleteAccount(userID uuid.UUID) error {
	if err := s.userRepo.DeleteCascade(userID); err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Msg("Account deleted")
	return nil
}
