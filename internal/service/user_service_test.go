package service_test

import (
	"context"
	"testing"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Create(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewUserService(deps)
	ctx := context.Background()

	role := testutil.CreateRole(t, db, "Admin")

	dto, err := svc.Create(ctx, &domain.UserRequest{
		Username:        "anna",
		FullName:        "Anna Volkova",
		Email:           "anna@example.com",
		RoleID:          domain.Some(role.ID),
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Admin", dto.RoleName)

	var stored domain.User
	require.NoError(t, db.First(&stored, dto.ID).Error)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, auth.ComparePassword(stored.PasswordHash, "secret1"))

	t.Run("username taken ignoring case", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.UserRequest{
			Username: "ANNA", FullName: "Other", Password: "secret1", ConfirmPassword: "secret1",
		})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "is already taken", verrs.Fields()["username"])
	})

	t.Run("password rules", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.UserRequest{Username: "bob", FullName: "Bob", Password: "123"})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("password"))

		_, err = svc.Create(ctx, &domain.UserRequest{Username: "bob", FullName: "Bob", Password: "secret1", ConfirmPassword: "secret2"})
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("confirmPassword"))
	})

	t.Run("update without password keeps hash", func(t *testing.T) {
		_, err := svc.Update(ctx, dto.ID, &domain.UserRequest{Username: "anna", FullName: "Anna V."})
		require.NoError(t, err)

		var after domain.User
		require.NoError(t, db.First(&after, dto.ID).Error)
		assert.Equal(t, stored.PasswordHash, after.PasswordHash)
		assert.Equal(t, "Anna V.", after.FullName)
		assert.Nil(t, after.RoleID)
	})
}

func TestUserService_DeleteBlockedByMaster(t *testing.T) {
	deps, db := setupDeps(t)
	svc := service.NewUserService(deps)

	user := testutil.CreateUser(t, db, "mechanic", nil)
	testutil.CreateMaster(t, db, user.ID)

	err := svc.Delete(context.Background(), user.ID)
	var blocked *domain.IntegrityBlocked
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, []domain.Blocker{{Relation: "masters.user_id", Count: 1}}, blocked.Blockers)
}

func TestAuthService_Login(t *testing.T) {
	deps, db := setupDeps(t)
	users := service.NewUserService(deps)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.UserRequest{
		Username: "Operator", FullName: "Shift Operator", Password: "pa55word", ConfirmPassword: "pa55word",
	})
	require.NoError(t, err)

	tokens := auth.NewTokenService(&config.AuthConfig{JWTSecret: "test-secret", Issuer: "assets", TokenTTL: 60})
	svc := service.NewAuthService(db, tokens, zap.NewNop())

	resp, err := svc.Login(ctx, &domain.LoginRequest{Username: "operator", Password: "pa55word"})
	require.NoError(t, err)
	assert.Equal(t, "Operator", resp.User.Username)

	uc, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, uc.UserID)

	me, err := svc.Me(auth.WithUserContext(ctx, uc))
	require.NoError(t, err)
	assert.Equal(t, "Shift Operator", me.FullName)

	_, err = svc.Login(ctx, &domain.LoginRequest{Username: "operator", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, &domain.LoginRequest{Username: "ghost", Password: "pa55word"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
