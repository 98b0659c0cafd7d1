package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user := env.register(t, "alice", "secret1")
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.Equal(t, []events.Type{events.TypeUserRegistered}, env.publisher.types())

	tests := []struct {
		name      string
		req       RegisterRequest
		wantErr   error
		wantField string
	}{
		{
			name:    "duplicate username",
			req:     RegisterRequest{Username: "alice", Password: "another1", ConfirmPassword: "another1"},
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "duplicate after trimming",
			req:     RegisterRequest{Username: "  alice ", Password: "another1", ConfirmPassword: "another1"},
			wantErr: ErrUsernameTaken,
		},
		{
			name:      "short password",
			req:       RegisterRequest{Username: "bob", Password: "abc", ConfirmPassword: "abc"},
			wantField: "password",
		},
		{
			name:      "password longer than bcrypt accepts",
			req:       RegisterRequest{Username: "bob", Password: strings.Repeat("a", 80), ConfirmPassword: strings.Repeat("a", 80)},
			wantField: "password",
		},
		{
			name:      "confirmation mismatch",
			req:       RegisterRequest{Username: "bob", Password: "secret1", ConfirmPassword: "secret2"},
			wantField: "confirm_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.manager.Auth().Register(ctx, &req)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			verrs, ok := validator.AsValidationErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}

	// nothing beyond alice and the seeded admin was written
	count, err := env.repo.User().Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")

	user, err := env.manager.Auth().Authenticate(ctx, &LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.False(t, user.IsAdmin())

	admin, err := env.manager.Auth().Authenticate(ctx, &LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, wrongPassword := env.manager.Auth().Authenticate(ctx, &LoginRequest{Username: "alice", Password: "wrong!!"})
	_, unknownUser := env.manager.Auth().Authenticate(ctx, &LoginRequest{Username: "mallory", Password: "secret1"})
	_, emptyForm := env.manager.Auth().Authenticate(ctx, &LoginRequest{})

	for _, err := range []error{wrongPassword, unknownUser, emptyForm} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthService_PublishFailureDoesNotFailRegistration(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")

	user := env.register(t, "carol", "secret1")
	assert.NotZero(t, user.ID)
}
