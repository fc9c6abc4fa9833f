package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gameapi "github.com/beka-birhanu/vinom-maze/api/game"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/game"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/infrastruture/kvstore"
	"github.com/beka-birhanu/vinom-maze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "correct-horse-battery-staple-42"

type apiFixture struct {
	engine *gin.Engine
	sched  *game.ManualScheduler
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := kvstore.NewBadgerStore(kvstore.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	log := logger.Discard()
	tokenizer := token.NewJwtService("api-test-secret", "vinom-maze")
	auth, err := service.NewAuthService(repo.NewPlayerRepo(store), tokenizer)
	require.NoError(t, err)

	progress, err := service.NewProgressStore(store, log)
	require.NoError(t, err)

	sched := game.NewManualScheduler(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	mgr, err := service.NewGameSessionManager(service.Config{
		Progress:  progress,
		Logger:    log,
		Scheduler: sched,
		NewRand:   func() *rand.Rand { return rand.New(rand.NewSource(7)) },
	})
	require.NoError(t, err)
	t.Cleanup(mgr.StopAll)

	gameController, err := gameapi.NewGameController(mgr, progress)
	require.NoError(t, err)

	router := NewRouter(Config{
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{identity.NewIdentityServer(auth), gameController},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
	})
	return &apiFixture{engine: router.Engine(), sched: sched}
}

func (f *apiFixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) signIn(t *testing.T) string {
	t.Helper()
	creds := identity.AuthRequest{Username: "runner", Password: strongPassword}

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res identity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	f := newAPI(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/v1/progress", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/v1/progress", "garbage", nil).Code)
}

func TestAuthErrors(t *testing.T) {
	f := newAPI(t)
	f.signIn(t)

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", identity.AuthRequest{Username: "runner", Password: strongPassword})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", identity.AuthRequest{Username: "runner", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "runner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameFlow(t *testing.T) {
	f := newAPI(t)
	tok := f.signIn(t)

	w := f.do(t, http.MethodGet, "/api/v1/progress", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var progress gameapi.ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.Equal(t, []int{1}, progress.UnlockedLevels)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/session", tok, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/api/v1/levels/2/start", tok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/levels/two/start", tok, nil).Code)

	w = f.do(t, http.MethodPost, "/api/v1/levels/1/start", tok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, game.StatusPlaying, snap.Status)
	assert.Equal(t, 15, snap.Width)
	assert.NotEmpty(t, snap.Cells)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/v1/session/move", tok, gameapi.MoveRequest{Direction: "sideways"}).Code)

	w = f.do(t, http.MethodPost, "/api/v1/session/move", tok, gameapi.MoveRequest{Direction: "up"})
	require.Equal(t, http.StatusOK, w.Code)
	var move game.MoveResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &move))
	assert.Equal(t, game.StatusPlaying, move.Status)

	w = f.do(t, http.MethodPost, "/api/v1/session/pause", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Paused)

	f.sched.Advance(10 * time.Second)
	w = f.do(t, http.MethodPost, "/api/v1/session/resume", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.False(t, snap.Paused)
	assert.Equal(t, 300.0, snap.RemainingSeconds)

	previous := snap.ID
	w = f.do(t, http.MethodPost, "/api/v1/session/restart", tok, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.NotEqual(t, previous, snap.ID)

	w = f.do(t, http.MethodGet, "/api/v1/session", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRoute(t *testing.T) {
	f := newAPI(t)
	w := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "maze_")
}
