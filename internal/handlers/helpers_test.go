package handlers_test

import (
	"NoteKeeper/internal/config"
	"NoteKeeper/internal/handlers"
	"NoteKeeper/internal/mailer"
	"NoteKeeper/internal/middleware"
	"NoteKeeper/internal/model"
	"NoteKeeper/internal/repo"
	"NoteKeeper/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

// мок почты
type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, e mailer.Email) error {
	return m.Called(ctx, e).Error(0)
}

var _ mailer.Mailer = (*mockMailer)(nil)

type testEnv struct {
	router     http.Handler
	cfg        *config.Config
	users      repo.UserRepository
	mail       *mockMailer
	activities string
}

// newTestEnv собирает роутер на in-memory пользователях и JSON-файлах во временном каталоге
func newTestEnv(t *testing.T, users repo.UserRepository) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{AuthSecret: testSecret, TokenTTL: time.Hour}
	logger := zap.NewNop().Sugar()
	if users == nil {
		users = repo.NewMemoryUserRepository()
	}

	env := &testEnv{
		cfg:        cfg,
		users:      users,
		mail:       &mockMailer{},
		activities: filepath.Join(dir, "activities.json"),
	}
	noteSvc := service.NewNoteService(
		repo.NewNoteRepository(filepath.Join(dir, "notes.json")),
		repo.NewActivityRepository(env.activities),
		logger,
	)
	h := handlers.NewHandler(service.NewUserService(users), noteSvc, nil, env.mail, logger, cfg)
	env.router = h.Router
	return env
}

// do выполняет запрос; token == "" — без заголовка Authorization
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// tokenFor подписывает токен напрямую, минуя /auth/login
func tokenFor(t *testing.T, p model.Principal) string {
	t.Helper()
	tok, err := middleware.BuildToken(p, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

// registerAndLogin проходит оба шага через API и возвращает токен
func (e *testEnv) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
