package service

import (
	"errors"
	"testing"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestGetProfile_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo, testutil.NewMockPublisher())

	existing := &domain.User{
		ID:                 uuid.New(),
		Name:               "Test User",
		Email:              "test@example.com",
		CurrencyPreference: "USD",
	}
	userRepo.AddUser(existing)

	user, err := profileService.Get(existing.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Email != "test@example.com" {
		t.Errorf("Expected email 'test@example.com', got %s", user.Email)
	}
}

func TestGetProfile_UserNotFound(t *testing.T) {
	profileService := NewProfileService(testutil.NewMockUserRepository(), testutil.NewMockPublisher())

	_, err := profileService.Get(uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	publisher := testutil.NewMockPublisher()
	profileService := NewProfileService(userRepo, publisher)

	existing := &domain.User{
		ID:                 uuid.New(),
		Name:               "Old Name",
		Email:              "update@example.com",
		CurrencyPreference: "USD",
	}
	userRepo.AddUser(existing)

	name := "New Name"
	income := decimal.RequireFromString("2500.00")
	user, err := profileService.Update(existing.ID, &domain.UpdateUserData{
		Name:          &name,
		MonthlyIncome: &income,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Name != "New Name" {
		t.Errorf("Expected name 'New Name', got %q", user.Name)
	}
	if !user.MonthlyIncome.Equal(income) {
		t.Errorf("Expected income 2500.00, got %s", user.MonthlyIncome)
	}
	// Email untouched
	if user.Email != "update@example.com" {
		t.Errorf("Expected email unchanged, got %s", user.Email)
	}
	if types := publisher.EventTypes(); len(types) != 1 || types[0] != "profile.updated" {
		t.Errorf("Expected profile.updated event, got %v", types)
	}
}

func TestUpdateProfile_InvalidFields(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo, testutil.NewMockPublisher())

	existing := &domain.User{ID: uuid.New(), Name: "Test", Email: "a@b.com"}
	userRepo.AddUser(existing)

	name := "X"
	currency := "usd4"
	_, err := profileService.Update(existing.ID, &domain.UpdateUserData{
		Name:               &name,
		CurrencyPreference: &currency,
	})

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Errorf("Expected 2 field errors, got %v", verrs)
	}
}

func TestUpdateProfile_NormalizesCurrency(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo, testutil.NewMockPublisher())

	existing := &domain.User{ID: uuid.New(), Name: "Test", Email: "a@b.com", CurrencyPreference: "USD"}
	userRepo.AddUser(existing)

	currency := "eur"
	user, err := profileService.Update(existing.ID, &domain.UpdateUserData{CurrencyPreference: &currency})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.CurrencyPreference != "EUR" {
		t.Errorf("Expected uppercased currency EUR, got %s", user.CurrencyPreference)
	}
}

func TestDeleteAccount_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo, testutil.NewMockPublisher())

	existing := &domain.User{ID: uuid.New(), Name: "Test", Email: "a@b.com"}
	userRepo.AddUser(existing)

	if err := profileService.DeleteAccount(existing.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := profileService.Get(existing.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected user to be gone, got %v", err)
	}
}

func TestDeleteAccount_UserNotFound(t *testing.T) {
	profileService := NewProfileService(testutil.NewMockUserRepository(), testutil.NewMockPublisher())

	if err := profileService.DeleteAccount(uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
