package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/claimflow/claimflow/internal/auth"
	"github.com/claimflow/claimflow/internal/shared"
	_ "github.com/claimflow/claimflow/testing"
)

type stubRepo struct {
	user     *auth.User
	sessions map[string]int64
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if s.sessions == nil {
		s.sessions = make(map[string]int64)
	}
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	handler := auth.NewHandler(testLogger(), auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

func activeUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           1,
		Email:        "user@test.local",
		PasswordHash: string(hashed),
		FullName:     "Test User",
		IsActive:     true,
	}
}

func doLogin(t *testing.T, handler *auth.Handler, sessions *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)
	require.NoError(t, sessions.Commit(ctx, res, req, sess))
	return res, sess
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "correct-password")}
	handler, sessions := newAuthHandler(t, repo)

	res, sess := doLogin(t, handler, sessions, `{"email":"user@test.local","password":"correct-password"}`)

	require.Equal(t, http.StatusOK, res.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.EqualValues(t, 1, payload["user_id"])
	require.NotEmpty(t, payload["csrf_token"])
	require.Equal(t, "1", sess.User())
	require.Contains(t, repo.sessions, sess.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t, "correct-password")})

	res, sess := doLogin(t, handler, sessions, `{"email":"user@test.local","password":"wrong-password"}`)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Empty(t, sess.User())
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t, "correct-password")
	user.IsActive = false
	handler, sessions := newAuthHandler(t, &stubRepo{user: user})

	res, _ := doLogin(t, handler, sessions, `{"email":"user@test.local","password":"correct-password"}`)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginMalformedBody(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{})

	res, _ := doLogin(t, handler, sessions, `{"email":`)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLoginShortPasswordRejected(t *testing.T) {
	handler, sessions := newAuthHandler(t, &stubRepo{user: activeUser(t, "short")})

	res, _ := doLogin(t, handler, sessions, `{"email":"user@test.local","password":"short"}`)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	repo := &stubRepo{user: activeUser(t, "correct-password")}
	handler, sessions := newAuthHandler(t, repo)

	_, sess := doLogin(t, handler, sessions, `{"email":"user@test.local","password":"correct-password"}`)
	require.Contains(t, repo.sessions, sess.ID)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()
	handler.HandleLogoutForTest(res, req)

	require.Equal(t, http.StatusNoContent, res.Code)
	require.NotContains(t, repo.sessions, sess.ID)
}
