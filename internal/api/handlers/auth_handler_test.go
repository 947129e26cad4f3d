package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/armaan/kanban-be/internal/apperr"
	"github.com/armaan/kanban-be/internal/api"
	"github.com/armaan/kanban-be/internal/auth"
	"github.com/armaan/kanban-be/internal/models"
	"github.com/armaan/kanban-be/internal/services"
)

// memStore is an in-memory credential store for end-to-end handler tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemStore() *memStore { return &memStore{users: make(map[string]models.User)} }

func (m *memStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *memStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return models.User{}, apperr.ErrUserNotFound
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.ErrUserNotFound
}

func (m *memStore) Create(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return apperr.ErrDuplicateUsername
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperr.ErrDuplicateEmail
		}
	}
	m.users[user.Username] = user
	return nil
}

func (m *memStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, u := range m.users {
		if u.ID == id {
			t := at
			u.LastLoginAt = &t
			m.users[name] = u
			return nil
		}
	}
	return apperr.ErrUserNotFound
}

type testEnv struct {
	router http.Handler
	store  *memStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec([]byte("handler-test-secret"), time.Hour)
	service := services.NewAuthService(store, hasher, codec)
	return &testEnv{router: api.NewRouter(service, codec, store), store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerAlice(t *testing.T, e *testEnv) map[string]any {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "correct horse",
		"firstName": "Alice",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}

func TestRegister_Created(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	body := registerAlice(t, e)

	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, "Alice", body["firstName"])
	assert.Equal(t, false, body["emailVerified"])
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "password")
}

func TestRegister_ValidationFailed(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "al",
		"email":    "not-an-email",
		"password": "short",
	}, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Validation Failed", body["error"])
	assert.Equal(t, "/api/v1/auth/register", body["path"])
	assert.Len(t, body["validationErrors"], 3)
}

func TestRegister_DuplicateConflict(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	registerAlice(t, e)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "irrelevant1",
	}, "")

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(http.StatusConflict), body["status"])
	assert.Equal(t, "User Already Exists", body["error"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, "/api/v1/auth/register", body["path"])
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	registerAlice(t, e)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"usernameOrEmail": "alice@example.com",
		"password":        "correct horse",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "alice", body["username"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	registerAlice(t, e)

	wrongPass := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"usernameOrEmail": "alice",
		"password":        "wrong",
	}, "")
	unknown := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"usernameOrEmail": "doesnotexist",
		"password":        "anything",
	}, "")

	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)

	// The two failures must be indistinguishable to the caller.
	a, b := decodeBody(t, wrongPass), decodeBody(t, unknown)
	assert.Equal(t, a["error"], b["error"])
	assert.Equal(t, a["message"], b["message"])
}

func TestLogin_DisabledAccount(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	registerAlice(t, e)

	u := e.store.users["alice"]
	u.IsActive = false
	e.store.users["alice"] = u

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"usernameOrEmail": "alice",
		"password":        "correct horse",
	}, "")

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Account Disabled", decodeBody(t, rec)["error"])
}

func TestLogout_StatelessAck(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Logged out successfully", body["message"])
}

func TestProfile_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/user/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/v1/user/profile", nil, "tampered.token.value")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication Failed", decodeBody(t, rec)["error"])
}

func TestProfile_OK(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	reg := registerAlice(t, e)
	token, _ := reg["token"].(string)
	require.NotEmpty(t, token)

	rec := e.do(t, http.MethodGet, "/api/v1/user/profile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, true, body["isActive"])
	assert.Contains(t, body, "lastLoginAt")
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestProfile_ExpiredToken(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	registerAlice(t, e)

	expired := auth.NewTokenCodec([]byte("handler-test-secret"), -time.Minute)
	token, err := expired.Issue("alice")
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/api/v1/user/profile", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboard_GreetsUser(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	reg := registerAlice(t, e)
	token, _ := reg["token"].(string)

	rec := e.do(t, http.MethodGet, "/api/v1/user/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to dashboard, alice!", decodeBody(t, rec)["message"])
}
