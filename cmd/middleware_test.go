package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jmlastro/internal/handlers"
	"jmlastro/internal/models"
	"jmlastro/internal/services"
	"jmlastro/utils"
)

type refreshOnlyStore struct {
	user    models.User
	token   string
	session models.Session
}

func (s *refreshOnlyStore) CreateUser(context.Context, models.User) (models.User, error) {
	return models.User{}, nil
}

func (s *refreshOnlyStore) GetUserByID(context.Context, string) (models.User, error) {
	return s.user, nil
}

func (s *refreshOnlyStore) GetUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, models.ErrUserNotFound
}

func (s *refreshOnlyStore) UpdateProfile(_ context.Context, u models.User) (models.User, error) {
	return u, nil
}

func (s *refreshOnlyStore) SetSession(_ context.Context, _ string, sess models.Session) error {
	s.session = sess
	return nil
}

func (s *refreshOnlyStore) GetByRefreshToken(_ context.Context, token string) (models.User, error) {
	if token != s.token {
		return models.User{}, models.ErrUnauthorized
	}
	return s.user, nil
}

func (s *refreshOnlyStore) ClearSession(context.Context, string) error { return nil }

func testApp(t *testing.T) (*application, *refreshOnlyStore) {
	t.Helper()
	tokens, err := utils.NewManager("middleware-test-key")
	require.NoError(t, err)
	store := &refreshOnlyStore{user: models.User{ID: "u1", Role: models.RoleUser}, token: "refresh-1"}
	return &application{
		log:      zap.NewNop().Sugar(),
		tokens:   tokens,
		sessions: handlers.NewSessions("0123456789abcdef0123456789abcdef", false, 3600),
		userService: &services.UserService{
			UserRepo: store, TokenManager: tokens, AccessTTL: time.Hour, RefreshTTL: time.Hour,
		},
	}, store
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	userID, role, _ := handlers.UserFromContext(r.Context())
	_, _ = w.Write([]byte(userID + "|" + role))
}

func TestAuthenticateBearer(t *testing.T) {
	app, _ := testApp(t)
	token, err := app.tokens.NewJWT("u7", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	h := alice.New(app.authenticate, requireAdmin).ThenFunc(whoAmI)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u7|admin", rec.Body.String())
}

func TestAuthenticateRefreshesExpiredToken(t *testing.T) {
	app, store := testApp(t)
	expired, err := app.tokens.NewJWT("u1", models.RoleUser, -time.Minute)
	require.NoError(t, err)

	h := alice.New(app.authenticate, requireAuth).ThenFunc(whoAmI)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.Header.Set("Refresh-Token", "refresh-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|user", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Authorization"))
	assert.Equal(t, store.session.RefreshToken, rec.Header().Get("Refresh-Token"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	req.Header.Set("Refresh-Token", "stolen")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateSessionCookie(t *testing.T) {
	app, _ := testApp(t)
	login := httptest.NewRecorder()
	require.NoError(t, app.sessions.Start(login, httptest.NewRequest(http.MethodPost, "/", nil), "u3", models.RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	alice.New(app.authenticate, requireAuth).ThenFunc(whoAmI).ServeHTTP(rec, req)
	assert.Equal(t, "u3|user", rec.Body.String())

	rec = httptest.NewRecorder()
	alice.New(app.authenticate, requireAdmin).ThenFunc(whoAmI).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	app, _ := testApp(t)
	rec := httptest.NewRecorder()
	alice.New(app.authenticate, requireAuth).ThenFunc(whoAmI).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
}

func TestRateLimiterPerIP(t *testing.T) {
	l := newIPRateLimiter(60, 2, nil)
	h := l.middleware(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/calculators/numerology", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/calculators/numerology", nil)
	other.RemoteAddr = "198.51.100.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 0, l.sweep(time.Now()))
	assert.Equal(t, 2, l.sweep(time.Now().Add(limiterIdleTTL+time.Second)))
}

func TestRateLimiterIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	l := newIPRateLimiter(60, 2, nil)
	h := l.middleware(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/calculators/numerology", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	tests := []struct {
		name   string
		remote string
		fwd    string
		realIP string
		want   string
	}{
		{"direct client", "203.0.113.9:5555", "198.51.100.7", "", "203.0.113.9"},
		{"proxy forwards client", "10.0.0.2:443", "198.51.100.7", "", "198.51.100.7"},
		{"spoofed leftmost hop", "10.0.0.2:443", "1.2.3.4, 198.51.100.7", "", "198.51.100.7"},
		{"proxy chain", "10.0.0.2:443", "198.51.100.7, 10.0.0.9", "", "198.51.100.7"},
		{"real ip header", "10.0.0.2:443", "", "198.51.100.8", "198.51.100.8"},
		{"garbage header", "10.0.0.2:443", "not-an-ip", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, clientIP(req, proxies))
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	app, _ := testApp(t)
	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
