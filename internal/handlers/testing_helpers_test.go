package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/folio-hub/portfolio-service/internal/models"
	"github.com/folio-hub/portfolio-service/internal/repositories"
	"github.com/folio-hub/portfolio-service/internal/repositories/postgres"
	"github.com/folio-hub/portfolio-service/internal/services"
	"github.com/folio-hub/portfolio-service/internal/session"
	"github.com/folio-hub/portfolio-service/internal/utils"
	"github.com/folio-hub/portfolio-service/internal/validator"
)

const (
	testAdminPassword = "admin123"
	testPhotoMaxBytes = 64 << 10
)

type testApp struct {
	db       *gorm.DB
	repo     repositories.Repository
	store    *session.MemoryStore
	services services.ServiceManager
	handler  http.Handler
}

type testAppOptions struct {
	csrf bool
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithOptions(t, testAppOptions{})
}

func newTestAppWithOptions(t *testing.T, opts testAppOptions) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
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

	adminHash, err := services.HashPassword(testAdminPassword, bcrypt.MinCost)
	require.NoError(t, err)

	rm := postgres.NewRepositoryManager(postgres.RepositoryConfig{DB: db, AdminPasswordHash: adminHash})
	require.NoError(t, rm.Initialize(ctx))

	log := utils.NewSlogLogger(utils.Discard())
	sm := services.NewServiceManager(rm.GetRepository(), log.Slog(), validator.New(), nil, nil,
		services.ServiceManagerConfig{BcryptCost: bcrypt.MinCost})
	require.NoError(t, sm.Initialize(ctx))

	store := session.NewMemoryStore(time.Hour)
	sessions := session.NewManager(store, session.Options{TTL: time.Hour})

	hm := NewHandlerManager(sm, sessions, log, HandlerConfig{PhotoMaxBytes: testPhotoMaxBytes})
	router, err := hm.NewRouter()
	require.NoError(t, err)

	var handler http.Handler = router
	if opts.csrf {
		handler = ProtectCSRF(router, CSRFConfig{Secret: "test-secret"}, log)
	}

	return &testApp{db: db, repo: rm.GetRepository(), store: store, services: sm, handler: handler}
}

// client keeps cookies between requests like a browser would
func (a *testApp) client() *testClient {
	return &testClient{handler: a.handler, cookies: make(map[string]*http.Cookie)}
}

func (a *testApp) userID(t *testing.T, username string) uint {
	t.Helper()
	user, err := a.repo.User().GetByUsername(context.Background(), nil, username)
	require.NoError(t, err)
	return user.ID
}

// registerAndLogin returns a client logged in as a freshly registered user
func (a *testApp) registerAndLogin(t *testing.T, username, password string) *testClient {
	t.Helper()
	c := a.client()
	rec := c.postForm("/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
	})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	c.login(t, username, password, "/user")
	return c
}

func (a *testApp) adminClient(t *testing.T) *testClient {
	t.Helper()
	c := a.client()
	c.login(t, models.AdminUsername, testAdminPassword, "/admin")
	return c
}

type testClient struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// postMultipart sends fields plus an optional photo file part
func (c *testClient) postMultipart(t *testing.T, path string, fields url.Values, photo []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if photo != nil {
		fw, err := mw.CreateFormFile("photo", "photo.bin")
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(photo))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *testClient) login(t *testing.T, username, password, wantLocation string) {
	t.Helper()
	rec := c.postForm("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	require.Equal(t, wantLocation, rec.Header().Get("Location"))
}
