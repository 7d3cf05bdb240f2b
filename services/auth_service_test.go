package services

import (
	"context"
	"testing"
	"time"

	"shop-api/models"
	"shop-api/repositories/memstore"
	"shop-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *memstore.Store) {
	store := memstore.New()
	return NewAuthService(store, utils.NewJWTManager("test-secret", time.Hour)), store
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, nil, models.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	res, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.False(t, res.IsStaff)
	assert.NotEmpty(t, res.Token)

	principal, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)

	me, err := svc.Me(ctx, *principal)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Login(ctx, models.LoginRequest{Username: "nobody", Password: "wrong"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_StaffFlagRequiresStaffCaller(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	self, err := svc.Register(ctx, nil, models.RegisterRequest{
		Username: "mallory", Email: "mallory@example.com", Password: "password1", IsStaff: true,
	})
	require.NoError(t, err)
	assert.False(t, self.IsStaff)

	promoted, err := svc.Register(ctx, &models.Principal{UserID: 99, IsStaff: true}, models.RegisterRequest{
		Username: "clerk", Email: "clerk@example.com", Password: "password1", IsStaff: true,
	})
	require.NoError(t, err)
	assert.True(t, promoted.IsStaff)

	_, err = svc.Register(ctx, nil, models.RegisterRequest{
		Username: "clerk", Email: "other@example.com", Password: "password1",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_EnsureStaffUserAndEmailCheck(t *testing.T) {
	svc, store := newAuthService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureStaffUser(ctx, "admin", "admin@example.com", "changeme"))
	require.NoError(t, svc.EnsureStaffUser(ctx, "admin", "admin@example.com", "changeme"))

	admin, err := store.FindUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)

	exists, err := svc.EmailRegistered(ctx, " ADMIN@example.com ")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.EmailRegistered(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.EmailRegistered(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
}
