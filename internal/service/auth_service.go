package service

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing
const bcryptCost = 10

var (
	nameRegexp     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRegexp    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	currencyRegexp = regexp.MustCompile(`^[A-Z]{3}$`)
)

// AuthService handles registration, login, and token issuance
type AuthService struct {
	userRepo  domain.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterInput carries a registration request
type RegisterInput struct {
	Name               string
	Email              string
	Password           string
	CurrencyPreference *string
	MonthlyIncome      *decimal.Decimal
}

// AuthResult is a logged-in user together with their access token
type AuthResult struct {
	User  *domain.User
	Token string
}

// Register validates the input, hashes the password, and creates the user.
// All violated fields are reported together.
func (s *AuthService) Register(input RegisterInput) (*domain.User, error) {
	var verrs domain.ValidationErrors

	name := strings.TrimSpace(input.Name)
	if len(name) < domain.MinUserNameLength || len(name) > domain.MaxUserNameLength {
		verrs.Add("name", "name must be between 2 and 100 characters")
	} else if !nameRegexp.MatchString(name) {
		verrs.Add("name", "name can only contain letters and spaces")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRegexp.MatchString(email) {
		verrs.Add("email", "invalid email format")
	}

	validatePassword(input.Password, &verrs)

	currency := "USD"
	if input.CurrencyPreference != nil {
		currency = strings.ToUpper(strings.TrimSpace(*input.CurrencyPreference))
		if !currencyRegexp.MatchString(currency) {
			verrs.Add("currencyPreference", "currency must be a 3-letter code")
		}
	}

	income := decimal.Zero
	if input.MonthlyIncome != nil {
		income = *input.MonthlyIncome
		if income.IsNegative() {
			verrs.Add("monthlyIncome", "monthly income cannot be negative")
		}
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return nil, domain.ErrInternalError
	}

	user := &domain.User{
		Name:               name,
		Email:              email,
		PasswordHash:       string(hash),
		CurrencyPreference: currency,
		MonthlyIncome:      income,
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to create user")
		return nil, err
	}

	log.Info().Str("user_id", created.ID.String()).Msg("User registered")
	return created, nil
}

// Login verifies the credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("Failed to look up user for login")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to sign token")
		return nil, domain.ErrInternalError
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return &AuthResult{User: user, Token: token}, nil
}

// ParseToken validates an access token and returns the user ID from its
// subject claim
func (s *AuthService) ParseToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	return userID, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func validatePassword(password string, verrs *domain.ValidationErrors) {
	if len(password) < domain.MinPasswordLength {
		verrs.Add("password", "password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		verrs.Add("password", "password must contain uppercase, lowercase, number and special character")
	}
}
