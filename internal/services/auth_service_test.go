package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UDLA-2025/assignment-service/internal/config"
	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/validator"
)

func newTestAuthService(repo *memoryRepository) AuthService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewAuthService(repo, logger, validator.New(), config.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
	})
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	service := newTestAuthService(repo)

	resp, err := service.Register(ctx, &validator.RegisterRequest{
		Username: "profesora",
		Email:    "profesora@example.com",
		Password: "secreto123",
		Role:     models.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.UserID == 0 {
		t.Fatal("expected a user id")
	}

	// Registration creates the teacher profile in the same transaction.
	if _, err := repo.Teacher().GetByUserID(ctx, nil, resp.UserID); err != nil {
		t.Errorf("expected teacher profile for user %d: %v", resp.UserID, err)
	}

	auth, err := service.Login(ctx, &validator.LoginRequest{
		Username: "profesora",
		Password: "secreto123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if auth.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if auth.User.Role != models.RoleTeacher {
		t.Errorf("expected teacher role, got %s", auth.User.Role)
	}

	claims, err := service.VerifyToken(auth.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.UserID != resp.UserID {
		t.Errorf("expected user id %d in claims, got %d", resp.UserID, claims.UserID)
	}
	if claims.Role != models.RoleTeacher {
		t.Errorf("expected teacher role in claims, got %s", claims.Role)
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	service := newTestAuthService(repo)

	base := validator.RegisterRequest{
		Username: "estudiante",
		Email:    "estudiante@example.com",
		Password: "secreto123",
		Role:     models.RoleStudent,
	}

	if _, err := service.Register(ctx, &base); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	dupUsername := base
	dupUsername.Email = "otro@example.com"
	if _, err := service.Register(ctx, &dupUsername); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected validation error for duplicate username, got %v", err)
	}

	dupEmail := base
	dupEmail.Username = "otronombre"
	if _, err := service.Register(ctx, &dupEmail); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("expected validation error for duplicate email, got %v", err)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	service := newTestAuthService(repo)

	if _, err := service.Register(ctx, &validator.RegisterRequest{
		Username: "estudiante",
		Email:    "estudiante@example.com",
		Password: "secreto123",
		Role:     models.RoleStudent,
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name string
		req  validator.LoginRequest
	}{
		{name: "wrong password", req: validator.LoginRequest{Username: "estudiante", Password: "equivocada"}},
		{name: "unknown user", req: validator.LoginRequest{Username: "nadie", Password: "secreto123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.Login(ctx, &tt.req); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestAuthService(repo)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.VerifyToken(tt.token); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}
