package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/folio-hub/portfolio-service/internal/cache"
	"github.com/folio-hub/portfolio-service/internal/events"
	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/repositories/postgres"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

// recordingPublisher keeps published events in memory
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *recordingPublisher
	manager   ServiceManager
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, cm *cache.CacheManager) *testEnv {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	adminHash, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)

	rm := postgres.NewRepositoryManager(postgres.RepositoryConfig{DB: db, AdminPasswordHash: adminHash})
	require.NoError(t, rm.Initialize(ctx))

	publisher := &recordingPublisher{}
	sm := NewServiceManager(rm.GetRepository(), slog.New(slog.DiscardHandler), validator.New(), publisher, cm,
		ServiceManagerConfig{BcryptCost: bcrypt.MinCost})
	require.NoError(t, sm.Initialize(ctx))

	return &testEnv{db: db, repo: rm.GetRepository(), publisher: publisher, manager: sm}
}

func (e *testEnv) register(t *testing.T, username, password string) *models.User {
	t.Helper()
	user, err := e.manager.Auth().Register(context.Background(), &RegisterRequest{
		Username: username, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return user
}
