package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/account-service/internal/cache"
	"github.com/pribylovaa/account-service/internal/config"
	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/password"
	"github.com/pribylovaa/account-service/internal/service"
	"github.com/pribylovaa/account-service/internal/storage"
	"github.com/pribylovaa/account-service/internal/token"
	"github.com/pribylovaa/account-service/mocks"
)

const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

type env struct {
	srv *httptest.Server
	st  *mocks.MockStorage
	rt  *cache.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	rt := cache.NewMemoryStore(time.Now)

	ks, err := token.NewKeyStore(testSecret)
	require.NoError(t, err)

	cfg := config.AuthConfig{
		JWTSecret:           testSecret,
		AccessTokenTTL:      30 * time.Minute,
		RefreshTokenTTL:     time.Hour,
		IssueRefreshOnLogin: true,
		AddressPolicy:       config.AddressPolicyDegrade,
		BcryptCost:          bcrypt.MinCost,
	}

	svc := service.New(service.Deps{
		Storage:   st,
		Refresh:   rt,
		Issuer:    token.NewIssuer(ks, rt, token.Options{AccessTTL: cfg.AccessTokenTTL, RefreshTTL: cfg.RefreshTokenTTL}),
		Validator: token.NewValidator(ks),
		Hasher:    password.NewBcrypt(cfg.BcryptCost),
	}, cfg)

	h := NewRouter(svc, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		BasePath: "/api/v1",
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &env{srv: srv, st: st, rt: rt}
}

func (e *env) do(t *testing.T, method, path, bearer string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+"/api/v1"+path, rd)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}

	return resp, out
}

func activeUser(t *testing.T) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)

	return &models.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: string(hash),
		Name:         "Kim",
		Nickname:     "kim",
		Status:       models.StatusActive,
		Birthday:     time.Date(1995, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestLoginProfileLogout(t *testing.T) {
	e := newEnv(t)
	u := activeUser(t)

	e.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).AnyTimes()
	e.st.EXPECT().DefaultAddress(gomock.Any(), u.ID).
		Return(&models.Address{LocalAddress: "Seoul", ExtraAddress: "7"}, nil)

	resp, body := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Seoul 7", body["address"])
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	resp, body = e.do(t, http.MethodGet, "/users/me", refresh, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "unauthenticated", errCode(body))

	resp, body = e.do(t, http.MethodGet, "/users/me", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "a@x.com", body["email"])
	require.Equal(t, "1995-01-02", body["birthday"])
	require.NotContains(t, body, "password_hash")

	resp, _ = e.do(t, http.MethodPost, "/auth/logout", access, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "unauthenticated", errCode(body))
}

func TestLogin_Failures(t *testing.T) {
	e := newEnv(t)
	u := activeUser(t)
	gone := *u
	gone.Email = "gone@x.com"
	gone.Status = models.StatusWithdrawn

	e.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil)
	e.st.EXPECT().UserByEmail(gomock.Any(), "ghost@x.com").Return(nil, storage.ErrNotFound)
	e.st.EXPECT().UserByEmail(gomock.Any(), "gone@x.com").Return(&gone, nil)

	resp, body := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "a@x.com", "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "login_failed", errCode(body))

	resp, body = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@x.com", "password": "bad"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "login_failed", errCode(body))

	resp, body = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "gone@x.com", "password": "Passw0rd!"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "withdrawn_account", errCode(body))

	resp, body = e.do(t, http.MethodPost, "/auth/login", "", map[string]any{"email": "a@x.com", "extra": 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_argument", errCode(body))
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/users/me", "/users/address", "/users/address/default"} {
		resp, body := e.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		require.Equal(t, "unauthenticated", errCode(body), path)
	}

	resp, _ := e.do(t, http.MethodGet, "/users/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmailExists(t *testing.T) {
	e := newEnv(t)

	e.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(&models.User{}, nil)

	resp, body := e.do(t, http.MethodGet, "/users/email-exists?email=a@x.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["exists"])

	resp, _ = e.do(t, http.MethodGet, "/users/email-exists", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddressRoutes(t *testing.T) {
	e := newEnv(t)
	u := activeUser(t)
	def := uuid.New()

	e.st.EXPECT().UserByEmail(gomock.Any(), "a@x.com").Return(u, nil).AnyTimes()
	e.st.EXPECT().DefaultAddress(gomock.Any(), u.ID).Return(nil, storage.ErrNotFound)
	e.st.EXPECT().AddressByID(gomock.Any(), u.ID, def).Return(&models.Address{ID: def, IsDefault: true}, nil)

	_, body := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "a@x.com", "password": "Passw0rd!"})
	access, _ := body["access_token"].(string)

	resp, body := e.do(t, http.MethodDelete, "/users/address/"+def.String(), access, nil)
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	require.Equal(t, "failed_precondition", errCode(body))

	resp, _ = e.do(t, http.MethodDelete, "/users/address/not-a-uuid", access, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
