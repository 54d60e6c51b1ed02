package service

import (
	"context"
	"testing"

	"vims/internal/model"
	"vims/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = func() []byte { return []byte("test-secret") }

func TestRegisterAndLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, testSecret)
	ctx := context.Background()
	admin := Actor{Username: "admin", Role: model.RoleAdmin}

	_, err := svc.Register(ctx, RegisterUserRequest{
		Username: "fin1", Email: "fin1@x.example", Password: "secret123", Role: model.RoleFinance,
	}, admin)
	require.NoError(t, err)

	token, err := svc.Login(ctx, LoginRequest{Username: "fin1", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	parsed, err := jwt.Parse(token.Token, func(*jwt.Token) (interface{}, error) {
		return testSecret(), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "fin1", claims["username"])
	assert.Equal(t, model.RoleFinance, claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterUserRequest{
		Username: "u1", Email: "u1@x.example", Password: "secret123", Role: model.RoleUser,
	}, Actor{Username: "admin", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Username: "u1", Password: "wrong"})
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))
}

func TestRegister_Guards(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testSecret)
	ctx := context.Background()
	admin := Actor{Username: "admin", Role: model.RoleAdmin}

	_, err := svc.Register(ctx, RegisterUserRequest{
		Username: "u1", Email: "u1@x.example", Password: "secret123", Role: model.RoleUser,
	}, Actor{Username: "u2", Role: model.RoleUser})
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))

	_, err = svc.Register(ctx, RegisterUserRequest{
		Username: "u1", Email: "u1@x.example", Password: "secret123", Role: "SUPERVISOR",
	}, admin)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Register(ctx, RegisterUserRequest{
		Username: "u1", Email: "u1@x.example", Password: "secret123", Role: model.RoleUser,
	}, admin)
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterUserRequest{
		Username: "u1", Email: "other@x.example", Password: "secret123", Role: model.RoleUser,
	}, admin)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestSeedAdmin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, testSecret)
	ctx := context.Background()

	require.NoError(t, svc.SeedAdmin(ctx))

	admin, err := userRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	// Idempotent: a second call does not add another user.
	require.NoError(t, svc.SeedAdmin(ctx))
	count, _ := userRepo.Count(ctx)
	assert.EqualValues(t, 1, count)
}
