package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/auth"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService() (*AuthServiceImpl, jwt.Service) {
	jwtService := jwt.NewJWTService(testSecret, testAccessExp)
	svc := NewAuthService(memory.NewUserRepository(memory.NewStore()), jwtService).(*AuthServiceImpl)
	svc.cost = bcrypt.MinCost
	return svc, jwtService
}

func TestRegister_DefaultsToAdmin(t *testing.T) {
	svc, jwtService := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, auth.RegisterRequest{
		Username:        "supervisor",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, "Bearer", resp.TokenType)

	claims, err := jwtService.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestRegister_StaffRole(t *testing.T) {
	svc, _ := newTestAuthService()
	role := "staff"

	resp, err := svc.Register(context.Background(), auth.RegisterRequest{
		Username:        "clerk",
		Password:        "password123",
		ConfirmPassword: "password123",
		Role:            &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "staff", resp.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	req := auth.RegisterRequest{Username: "dup", Password: "password123", ConfirmPassword: "password123"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, user.ErrUsernameExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Username:        "x",
		Password:        "short",
		ConfirmPassword: "other",
	})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "confirm_password")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, auth.RegisterRequest{
		Username:        "lead",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Username: "lead", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "lead", resp.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "lead", Password: "wrong-password"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "ghost", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
