package usecase

import (
	"testing"
	"time"

	authdto "github.com/sampurn31/my-med/internal/auth/dto"
	"github.com/sampurn31/my-med/internal/auth/repository"
	"github.com/sampurn31/my-med/internal/testutil"
	"github.com/sampurn31/my-med/pkg/config"
)

func newAuthUsecase(t *testing.T) (AuthUsecase, repository.DeviceTokenRepository) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
	tokenRepo := repository.NewDeviceTokenRepository(db)
	return NewAuthUsecase(repository.NewUserRepository(db), tokenRepo, cfg), tokenRepo
}

func registerReq() *authdto.RegisterRequest {
	return &authdto.RegisterRequest{
		Email:    "asha@example.com",
		Password: "secret123",
		Name:     "Asha",
		Timezone: "Asia/Kolkata",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(registerReq())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens in the response")
	}
	if resp.User.Timezone != "Asia/Kolkata" {
		t.Errorf("unexpected timezone %q", resp.User.Timezone)
	}

	if _, err := uc.Register(registerReq()); err == nil {
		t.Error("expected error for duplicate email")
	}

	login, err := uc.Login(&authdto.LoginRequest{Email: "asha@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Error("login returned a different user")
	}

	if _, err := uc.Login(&authdto.LoginRequest{Email: "asha@example.com", Password: "wrong"}); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, err := uc.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); err == nil {
		t.Error("expected error for unknown email")
	}
}

func TestRegisterValidatesTimezone(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	req := registerReq()
	req.Timezone = "Not/AZone"
	if _, err := uc.Register(req); err == nil {
		t.Error("expected error for invalid timezone")
	}

	req = registerReq()
	req.Timezone = ""
	resp, err := uc.Register(req)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.User.Timezone != "Asia/Kolkata" {
		t.Errorf("expected default timezone, got %q", resp.User.Timezone)
	}
}

func TestValidateToken(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(registerReq())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := uc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if user.ID != resp.User.ID {
		t.Error("validated token resolved to a different user")
	}

	if _, err := uc.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected error for a malformed token")
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(registerReq())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	refreshed, err := uc.RefreshToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("expected a new access token")
	}

	if err := uc.Logout(resp.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := uc.RefreshToken(resp.RefreshToken); err == nil {
		t.Error("expected error refreshing a logged-out token")
	}
}

func TestUpdateProfile(t *testing.T) {
	uc, _ := newAuthUsecase(t)

	resp, err := uc.Register(registerReq())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	name := "Asha S"
	tz := "Europe/Berlin"
	user, err := uc.UpdateProfile(resp.User.ID, &authdto.UpdateProfileRequest{Name: &name, Timezone: &tz})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Name != name || user.Timezone != tz {
		t.Errorf("unexpected profile %+v", user)
	}

	bad := "Not/AZone"
	if _, err := uc.UpdateProfile(resp.User.ID, &authdto.UpdateProfileRequest{Timezone: &bad}); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestDeviceRegistration(t *testing.T) {
	uc, tokenRepo := newAuthUsecase(t)

	resp, err := uc.Register(registerReq())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	userID := resp.User.ID

	if err := uc.RegisterDevice(userID, "fcm-token-1", "pixel"); err != nil {
		t.Fatalf("RegisterDevice failed: %v", err)
	}
	// Re-registering the same token is an upsert, not a duplicate.
	if err := uc.RegisterDevice(userID, "fcm-token-1", "pixel again"); err != nil {
		t.Fatalf("repeat RegisterDevice failed: %v", err)
	}

	tokens, err := tokenRepo.GetEnabledTokens(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || tokens[0] != "fcm-token-1" {
		t.Errorf("unexpected tokens %v", tokens)
	}

	if err := uc.UnregisterDevice("fcm-token-1"); err != nil {
		t.Fatalf("UnregisterDevice failed: %v", err)
	}
	tokens, err = tokenRepo.GetEnabledTokens(userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens after unregister, got %v", tokens)
	}
}
