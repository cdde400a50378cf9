package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/moneyd/internal/directory"
	"github.com/fastprodman/moneyd/internal/ledger"
	"github.com/fastprodman/moneyd/internal/messages"
	"github.com/fastprodman/moneyd/internal/metrics"
	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/resolver"
	"github.com/fastprodman/moneyd/internal/services/balance"
)

var (
	steveID = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	alexID  = uuid.MustParse("16fd2706-8baf-433b-82eb-8c7fada847da")
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	h, _ := newTestRouterWithStore(t)

	return h
}

func newTestRouterWithStore(t *testing.T) (http.Handler, *ledger.Store) {
	t.Helper()

	dir, err := directory.New("world", []string{"world", "nether"})
	require.NoError(t, err)
	require.NoError(t, dir.Upsert(steveID, "Steve", true))
	require.NoError(t, dir.Upsert(alexID, "Alex", true))

	store, err := ledger.NewStore(ledger.Settings{
		DecimalPlaces: 2,
		StartBalance:  money.FromInt(50),
		Mode:          ledger.ModeMulti,
		DefaultScope:  "world",
	}, nil)
	require.NoError(t, err)

	res := resolver.New(resolver.Config{Multi: true, DecimalPlaces: 2}, dir, dir)
	format := money.Formatter{Places: 2, Separator: ",", Sign: "$", Template: "{sign}{value}"}
	svc := balance.New(store, res, messages.Default(), format, dir)

	return NewRouter(Deps{
		Balance:   svc,
		Directory: dir,
		Metrics:   metrics.New(store.Len, func() int { return 0 }),
	}), store
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}

	return rec, decoded
}

const steveSends = `{
	"caller": {"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "name": "Steve", "scope": "world", "interactive": true, "permissions": ["send"]},
	"args": ["send", "alex", "12.5"]
}`

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCommandHandler_Send(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec, body := do(t, h, http.MethodPost, "/commands", steveSends)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "send", body["intent"])
	assert.Equal(t, "ok", body["outcome"])
	assert.Equal(t, []any{"You have sent $12.50 to Alex."}, body["replies"])
	assert.Equal(t, []any{
		map[string]any{"to": alexID.String(), "text": "You have received $12.50 from Steve."},
	}, body["notices"])

	rec, body = do(t, h, http.MethodGet, "/accounts/"+steveID.String()+"/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "37.50", body["balance"])
	assert.Equal(t, "$37.50", body["formatted"])
	assert.Equal(t, "world", body["scope"])

	rec, body = do(t, h, http.MethodGet, "/accounts/"+alexID.String()+"/balance?scope=nether", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "50.00", body["balance"])

	rec, _ = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `moneyd_commands_total{outcome="ok",verb="send"} 1`)
	assert.Contains(t, rec.Body.String(), "moneyd_accounts 2")
}

func TestCommandHandler_Rejected(t *testing.T) {
	t.Parallel()

	body := `{"caller": {"interactive": false}, "args": ["give", "alex", "5", "world"]}`

	rec, resp := do(t, newTestRouter(t), http.MethodPost, "/commands", body)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "give", resp["intent"])
	assert.Equal(t, "no_permission", resp["outcome"])
	assert.Equal(t, []any{}, resp["notices"])
}

func TestCommandHandler_BadRequests(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "not_json", body: "{"},
		{name: "unknown_field", body: `{"caller": {}, "args": [], "extra": 1}`},
		{name: "unknown_permission", body: `{"caller": {"permissions": ["admin"]}, "args": []}`},
		{name: "interactive_without_id", body: `{"caller": {"interactive": true, "name": "Steve"}, "args": []}`},
		{name: "interactive_zero_id", body: `{"caller": {"interactive": true, "id": "00000000-0000-0000-0000-000000000000", "name": "Steve", "permissions": ["send"]}, "args": ["send", "alex", "5000"]}`},
		{name: "interactive_without_name", body: `{"caller": {"interactive": true, "id": "7c9e6679-7425-40de-944b-e07fc1f90ae7"}, "args": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, body := do(t, h, http.MethodPost, "/commands", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCompletionHandler(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	body := `{"caller": {"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "name": "Steve", "interactive": true, "permissions": ["send"]}, "args": ["send", ""]}`

	rec, resp := do(t, h, http.MethodPost, "/completions", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Alex"}, resp["suggestions"])

	body = `{"caller": {"interactive": false}, "args": ["zzz"]}`

	rec, resp = do(t, h, http.MethodPost, "/completions", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, resp["suggestions"])
}

func TestGetBalanceHandler_Errors(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/accounts/42/balance", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/accounts/"+steveID.String()+"/balance?scope=mars", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBalanceHandler_UnknownAccountIsNotCreated(t *testing.T) {
	t.Parallel()

	h, store := newTestRouterWithStore(t)
	before := store.Len()

	for range 3 {
		rec, resp := do(t, h, http.MethodGet, "/accounts/"+uuid.NewString()+"/balance?scope=nether", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "50.00", resp["balance"])
	}

	assert.Equal(t, before, store.Len())
}

func TestUpsertPlayerHandler(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	newcomer := uuid.New()

	rec, _ := do(t, h, http.MethodPut, "/players/"+newcomer.String(), `{"name": "Sam", "online": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// the new name resolves in commands
	body := `{"caller": {"interactive": false, "permissions": ["view.other"]}, "args": ["sam", "world"]}`
	rec, resp := do(t, h, http.MethodPost, "/commands", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"The balance of Sam in the scope world is $50.00."}, resp["replies"])

	rec, _ = do(t, h, http.MethodPut, "/players/"+newcomer.String(), `{"name": "steve", "online": true}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/players/"+newcomer.String(), `{"name": "", "online": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/players/nope", `{"name": "Sam"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
