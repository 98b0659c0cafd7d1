package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

func TestServiceManagerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "default", cost: DefaultServiceManagerConfig().BcryptCost},
		{name: "too low", cost: 1, wantErr: true},
		{name: "too high", cost: 99, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ServiceManagerConfig{BcryptCost: tt.cost}
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestServiceManager_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("getters panic before initialize", func(t *testing.T) {
		sm := NewServiceManager(nil, slog.New(slog.DiscardHandler), validator.New(), nil, nil, DefaultServiceManagerConfig())
		assert.Panics(t, func() { sm.Auth() })
		assert.Panics(t, func() { sm.Review() })
		assert.Error(t, sm.HealthCheck(ctx))
	})

	t.Run("invalid config", func(t *testing.T) {
		sm := NewServiceManager(nil, slog.New(slog.DiscardHandler), validator.New(), nil, nil, ServiceManagerConfig{})
		assert.Error(t, sm.Initialize(ctx))
	})

	t.Run("healthy then shut down", func(t *testing.T) {
		env := newTestEnv(t)
		require.NotNil(t, env.manager.Profile())
		require.NotNil(t, env.manager.Export())
		assert.NoError(t, env.manager.HealthCheck(ctx))

		require.NoError(t, env.manager.Shutdown(ctx))
		assert.Error(t, env.manager.HealthCheck(ctx))
		assert.NoError(t, env.manager.Shutdown(ctx))
	})
}

func TestServiceManager_HealthCheckPingsCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := newTestEnvWithCache(t, cache.NewCacheManager(client))
	assert.NoError(t, env.manager.HealthCheck(ctx))

	mr.Close()
	err := env.manager.HealthCheck(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache health check failed")
}

func TestAliceScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	alice := env.register(t, "alice", "secret1")

	_, err := env.manager.Auth().Authenticate(ctx, &LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.manager.Profile().SaveDraft(ctx, alice.ID, &ProfileForm{FullName: "Alice Liddell"}, nil)
	require.NoError(t, err)

	_, err = env.manager.Profile().GetPublished(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrPortfolioNotPublished)

	items, err := env.manager.Review().Queue(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Alice Liddell", items[0].DisplayName())

	_, err = env.manager.Review().Publish(ctx, alice.ID, &ProfileForm{FullName: "Alice Liddell"}, nil)
	require.NoError(t, err)

	overview, err := env.manager.Profile().GetPublished(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", overview.Profile.FullName)
}
