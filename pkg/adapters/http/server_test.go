package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/savestate"
	api "github.com/aretw0/savestate/pkg/adapters/http"
	"github.com/aretw0/savestate/pkg/adapters/memory"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/observability"
	"github.com/aretw0/savestate/pkg/savegame"
	"github.com/aretw0/savestate/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotSave = `
campaign_type: scenario
"[snapshot]":
- id: bridge
  next_scenario: ford
  "[side]":
  - id: hero
    gold: "300"
`

type fixture struct {
	handler http.Handler
	store   *memory.Store
}

func setup(t *testing.T) fixture {
	t.Helper()
	catalog := memory.NewCatalog()
	ford := document.New()
	ford.Set("id", "ford")
	ford.AddChild("side", nil).Set("id", "hero")
	require.NoError(t, catalog.Add("scenario", ford))

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, err := savestate.New(
		savestate.WithCatalog(catalog),
		savestate.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	store := memory.NewStore()
	sessions := session.NewManager(store, session.WithGameOptions(eng.GameOptions()...))
	return fixture{
		handler: api.NewHandler(eng, sessions, api.WithMetrics(reg), api.WithVersion("1.2.3")),
		store:   store,
	}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := setup(t).do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	rr := setup(t).do(t, http.MethodGet, "/info", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "savestate-http", resp["app"])
	assert.Equal(t, "1.2.3", resp["version"])
	assert.Equal(t, api.APIVersion, resp["api_version"])
}

func TestSaveLifecycle(t *testing.T) {
	f := setup(t)

	rr := f.do(t, http.MethodPut, "/saves/c1", snapshotSave)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/saves", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"saves":["c1"]}`, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/saves/c1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "bridge")

	rr = f.do(t, http.MethodPost, "/saves/c1/start-save", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "[carryover_sides_start]")

	// A start save holds no snapshot any more.
	rr = f.do(t, http.MethodPost, "/saves/c1/start-save", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, http.MethodPost, "/saves/c1/expand", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err := f.store.Load(context.Background(), "c1")
	require.NoError(t, err)
	sg, err := savegame.FromDocument(stored)
	require.NoError(t, err)
	assert.True(t, sg.CarryoverExpanded())
	assert.Equal(t, 240, sg.StartingDocument().Child("side").Get("gold").Int(0))

	rr = f.do(t, http.MethodDelete, "/saves/c1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodGet, "/saves/c1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExpand_MissingScenario(t *testing.T) {
	f := setup(t)
	rr := f.do(t, http.MethodPut, "/saves/lost", `
"[carryover_sides_start]":
- next_scenario: nowhere
`)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodPost, "/saves/lost/expand", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// The failed update left the stored save untouched.
	stored, err := f.store.Load(context.Background(), "lost")
	require.NoError(t, err)
	assert.True(t, stored.HasChild("carryover_sides_start"))
}

func TestPutSave_Malformed(t *testing.T) {
	rr := setup(t).do(t, http.MethodPut, "/saves/bad", "- not\n- a mapping\n")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetrics(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/saves/m", snapshotSave).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/saves/m/start-save", "").Code)

	rr := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "savestate_start_saves_total 1")
}

type watchEngine struct {
	api.Engine
	events chan struct{}
}

func (w watchEngine) Watch(ctx context.Context) (<-chan struct{}, error) {
	return w.events, nil
}

func TestSubscribeEvents(t *testing.T) {
	events := make(chan struct{}, 1)
	handler := api.NewHandler(watchEngine{events: events}, session.NewManager(memory.NewStore()))

	srv := httptest.NewServer(handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events <- struct{}{}
	close(events)

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, []string{"event: ping", "data: connected", "event: catalog", "data: reloaded"}, lines)
}
