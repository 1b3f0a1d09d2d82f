package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pokedex-list-backend/config"
	"pokedex-list-backend/internal/api"
	"pokedex-list-backend/internal/db"
	"pokedex-list-backend/internal/listing"
	"pokedex-list-backend/internal/model"
	"pokedex-list-backend/internal/notification"
	"pokedex-list-backend/internal/pokeapi"
	"pokedex-list-backend/internal/present"
	"pokedex-list-backend/internal/session"
	"pokedex-list-backend/internal/store"
)

type viewState struct {
	ID    string        `json:"id"`
	Phase string        `json:"phase"`
	Rows  []present.Row `json:"rows"`
	Error *struct {
		Kind   string `json:"kind"`
		Status int    `json:"status"`
	} `json:"error"`
}

type stack struct {
	router   *gin.Engine
	store    store.Store
	alerts   *notification.WorkerPool
	requests *atomic.Int32
}

// newStack wires the whole service against an upstream that answers with
// status and body, backed by an in-memory database.
func newStack(t *testing.T, status int, body string) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var requests atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(upstream.Close)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var cfg config.Config
	cfg.Source.BaseURL = upstream.URL
	cfg.Source.Limit = 2
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.ApplyDefaults()

	appStore := store.NewGormStore(gormDB)
	// Not started: alerts stay queued so the test can inspect them.
	alerts := notification.NewWorkerPool(1, appStore, nil, zap.NewNop())

	service := listing.NewService(pokeapi.NewFromConfig(&cfg.Source, zap.NewNop()), appStore, alerts, zap.NewNop())
	views := session.NewRegistry(context.Background(), cfg.Views.TTL, service, cfg.Source.Limit, zap.NewNop())
	t.Cleanup(views.Close)

	handler := api.NewHandler(views, present.NewPresenter(cfg.Source.ImageBaseURL), appStore, nil, zap.NewNop())
	return &stack{
		router:   api.NewRouter(&cfg.Server, handler, zap.NewNop()),
		store:    appStore,
		alerts:   alerts,
		requests: &requests,
	}
}

func (s *stack) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	s.router.ServeHTTP(w, req)
	return w
}

// openView creates a view, makes it appear and waits for the fetch to settle.
func (s *stack) openView(t *testing.T) viewState {
	t.Helper()
	w := s.do(t, "POST", "/api/views")
	require.Equal(t, http.StatusCreated, w.Code)
	var created viewState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	require.Equal(t, http.StatusAccepted, s.do(t, "PUT", "/api/views/"+created.ID+"/appear").Code)

	var state viewState
	require.Eventually(t, func() bool {
		w := s.do(t, "GET", "/api/views/"+created.ID+"/state")
		state = viewState{}
		if json.Unmarshal(w.Body.Bytes(), &state) != nil {
			return false
		}
		return state.Phase == "loaded" || state.Phase == "failed"
	}, 5*time.Second, 10*time.Millisecond)
	return state
}

func (s *stack) fetchRecords(t *testing.T) []model.FetchRecord {
	t.Helper()
	var records []model.FetchRecord
	require.Eventually(t, func() bool {
		var err error
		records, err = s.store.RecentFetches(context.Background(), store.FetchQuery{})
		return err == nil && len(records) > 0
	}, 2*time.Second, 10*time.Millisecond)
	return records
}

func TestListLoad_EndToEnd(t *testing.T) {
	s := newStack(t, http.StatusOK, `{"count":1302,"next":null,"previous":null,"results":[
		{"name":"bulbasaur","url":"https://pokeapi.co/api/v2/pokemon/1/"},
		{"name":"ivysaur","url":"https://pokeapi.co/api/v2/pokemon/2/"}]}`)

	state := s.openView(t)

	require.Equal(t, "loaded", state.Phase)
	require.Len(t, state.Rows, 2)
	assert.Equal(t, 1, state.Rows[0].ID)
	assert.Equal(t, "bulbasaur", state.Rows[0].Name)
	assert.True(t, strings.HasSuffix(state.Rows[0].ImageURL, "/1.png"))
	assert.Equal(t, 2, state.Rows[1].ID)
	assert.Equal(t, "ivysaur", state.Rows[1].Name)
	assert.True(t, strings.HasSuffix(state.Rows[1].ImageURL, "/2.png"))
	assert.Nil(t, state.Error)
	assert.Equal(t, int32(1), s.requests.Load())

	records := s.fetchRecords(t)
	require.Len(t, records, 1)
	assert.Equal(t, model.OutcomeSuccess, records[0].Outcome)
	assert.Equal(t, 2, records[0].Count)
	assert.Equal(t, 2, records[0].Limit)
	assert.Equal(t, 0, records[0].Drift)
	assert.Empty(t, s.alerts.Jobs())
}

func TestListLoad_DriftIsAudited(t *testing.T) {
	s := newStack(t, http.StatusOK, `{"results":[
		{"name":"charizard","url":"https://pokeapi.co/api/v2/pokemon/6/"},
		{"name":"ivysaur","url":"https://pokeapi.co/api/v2/pokemon/2/"}]}`)

	state := s.openView(t)

	require.Equal(t, "loaded", state.Phase)
	assert.Equal(t, 1, state.Rows[0].ID, "ids stay positional")
	assert.True(t, strings.HasSuffix(state.Rows[0].ImageURL, "/1.png"))

	records := s.fetchRecords(t)
	assert.Equal(t, 1, records[0].Drift)
}

func TestListLoad_NotFound(t *testing.T) {
	s := newStack(t, http.StatusNotFound, `Not Found`)

	state := s.openView(t)

	assert.Equal(t, "failed", state.Phase)
	assert.Empty(t, state.Rows)
	require.NotNil(t, state.Error)
	assert.Equal(t, "server", state.Error.Kind)
	assert.Equal(t, 404, state.Error.Status)

	records := s.fetchRecords(t)
	require.Len(t, records, 1)
	assert.Equal(t, model.OutcomeFailure, records[0].Outcome)
	assert.Equal(t, "server", records[0].ErrorKind)
	assert.Equal(t, 404, records[0].StatusCode)

	select {
	case alert := <-s.alerts.Jobs():
		assert.Equal(t, "server", alert.Kind)
		assert.Equal(t, 404, alert.StatusCode)
	case <-time.After(2 * time.Second):
		t.Fatal("no failure alert was dispatched")
	}
}

func TestListLoad_MissingResults(t *testing.T) {
	s := newStack(t, http.StatusOK, `{"count":0}`)

	state := s.openView(t)

	assert.Equal(t, "failed", state.Phase)
	require.NotNil(t, state.Error)
	assert.Equal(t, "decode", state.Error.Kind)
}

func TestListLoad_EmptyResults(t *testing.T) {
	s := newStack(t, http.StatusOK, `{"results":[]}`)

	state := s.openView(t)

	assert.Equal(t, "loaded", state.Phase)
	assert.Empty(t, state.Rows)
	assert.Nil(t, state.Error)
}
