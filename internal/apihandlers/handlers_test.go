package apihandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"hush/internal/app"
	"hush/internal/config"
	"hush/internal/irys"
	"hush/internal/services"
	"hush/internal/store/primary"
	"hush/internal/uploader"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetwork struct {
	uploads int
}

func (f *fakeNetwork) Address() string { return "0x00000000000000000000000000000000000000aa" }

func (f *fakeNetwork) Upload(_ context.Context, _ []byte, _ []irys.Tag) (*irys.NodeReceipt, error) {
	f.uploads++
	return &irys.NodeReceipt{ID: "tx" + strings.Repeat("1", f.uploads), Timestamp: 1700000000000}, nil
}

func (f *fakeNetwork) Balance(context.Context) (*big.Int, error) {
	return big.NewInt(1500000000000000000), nil
}

func newTestRouter(t *testing.T, key string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := primary.NewPrimaryStore(context.Background(), filepath.Join(t.TempDir(), "hush.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{}
	cfg.Irys.GatewayURL = "https://devnet.irys.xyz"

	network := &fakeNetwork{}
	up := uploader.New(uploader.Options{
		Dialer:     func(context.Context, string) (irys.Network, error) { return network, nil },
		PrivateKey: func() string { return key },
		GatewayURL: cfg.Irys.GatewayURL,
	})
	a := &app.App{
		Config:          cfg,
		ConfessionStore: st,
		VoteStore:       st,
		JobStore:        st,
		Uploader:        up,
		ConfessionService: services.NewConfessionService(services.ConfessionServiceDeps{
			Confessions: st,
			Votes:       st,
			Uploader:    up,
		}),
	}
	return NewRouter(NewAPIHandler(a))
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func errorMessage(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error object in %v", body)
	return e["message"].(string)
}

func TestRootAndHealth(t *testing.T) {
	r := newTestRouter(t, "key")

	w, body := do(t, r, http.MethodGet, "/api/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", body["status"])

	w, body = do(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestNetworkInfo(t *testing.T) {
	r := newTestRouter(t, "key")
	w, body := do(t, r, http.MethodGet, "/api/irys/network-info", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	for _, k := range []string{"network", "gateway_url", "rpc_url", "explorer_url", "faucet_url"} {
		assert.Contains(t, body, k)
	}
}

func TestIrysEndpoints(t *testing.T) {
	r := newTestRouter(t, "key")

	w, body := do(t, r, http.MethodPost, "/api/irys/upload", map[string]any{
		"data": map[string]any{"hello": "world"},
		"tags": []map[string]string{{"name": "Kind", "value": "test"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "tx1", body["tx_id"])
	assert.Equal(t, "https://devnet.irys.xyz/tx1", body["gateway_url"])
	assert.Equal(t, true, body["verified"])

	w, body = do(t, r, http.MethodPost, "/api/irys/upload", map[string]any{"tags": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data provided for upload", errorMessage(t, body))

	w, body = do(t, r, http.MethodGet, "/api/irys/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1500000000000000000", body["balance"])
	assert.Equal(t, "1.5", body["formatted"])

	w, body = do(t, r, http.MethodGet, "/api/irys/address", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", body["address"])
}

func TestIrysEndpoints_MissingKey(t *testing.T) {
	r := newTestRouter(t, "")
	w, body := do(t, r, http.MethodGet, "/api/irys/address", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, uploader.MissingKeyMessage, errorMessage(t, body))
	assert.Equal(t, "initialization", body["error"].(map[string]any)["kind"])
}

func TestConfessionLifecycle(t *testing.T) {
	r := newTestRouter(t, "key")

	w, body := do(t, r, http.MethodPost, "/api/confessions", map[string]any{
		"content": "I finally told my family about my new job",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Confession posted successfully!", body["message"])
	txID := body["tx_id"].(string)
	assert.Equal(t, "/#/c/"+txID, body["share_url"])

	w, body = do(t, r, http.MethodGet, "/api/confessions/"+txID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", body["author"])
	assert.Equal(t, true, body["is_public"])

	w, body = do(t, r, http.MethodPost, "/api/confessions/"+txID+"/vote", map[string]any{"vote_type": "upvote", "user_address": "0x1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "upvote recorded", body["message"])
	assert.EqualValues(t, 1, body["upvotes"])
	assert.EqualValues(t, 0, body["downvotes"])

	w, body = do(t, r, http.MethodPost, "/api/confessions/"+txID+"/vote", map[string]any{"vote_type": "downvote", "user_address": "0x1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already voted", errorMessage(t, body))

	w, body = do(t, r, http.MethodPost, "/api/confessions/"+txID+"/vote", map[string]any{"vote_type": "meh"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid vote type", errorMessage(t, body))

	w, body = do(t, r, http.MethodGet, "/api/confessions/public?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 10, body["limit"])

	w, body = do(t, r, http.MethodGet, "/api/trending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := body["confessions"].([]any)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].(map[string]any)["upvotes"])
}

func TestCreateConfession_Errors(t *testing.T) {
	r := newTestRouter(t, "key")

	w, body := do(t, r, http.MethodPost, "/api/confessions", map[string]any{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Confession content cannot be empty", errorMessage(t, body))

	w, body = do(t, r, http.MethodPost, "/api/confessions", map[string]any{"content": strings.Repeat("a", 281)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Confession must be 280 characters or less", errorMessage(t, body))

	w, body = do(t, r, http.MethodPost, "/api/confessions", map[string]any{"content": "I want to end it all tonight"})
	assert.Equal(t, http.StatusConflict, w.Code)
	support := body["support"].(map[string]any)
	assert.Equal(t, "high", support["level"])
	assert.Equal(t, true, support["must_block"])

	w, _ = do(t, r, http.MethodPost, "/api/confessions", map[string]any{"content": "I want to end it all tonight", "confirm_crisis": true})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetConfession_NotFound(t *testing.T) {
	r := newTestRouter(t, "key")
	w, body := do(t, r, http.MethodGet, "/api/confessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Confession not found", errorMessage(t, body))
}

func TestListPublic_BadQuery(t *testing.T) {
	r := newTestRouter(t, "key")
	w, _ := do(t, r, http.MethodGet, "/api/confessions/public?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := do(t, r, http.MethodGet, "/api/confessions/public?limit=1000", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, MaxPageSize, body["limit"])
	assert.Equal(t, []any{}, body["confessions"])
}

func TestAnalyze(t *testing.T) {
	r := newTestRouter(t, "key")

	w, body := do(t, r, http.MethodPost, "/api/analyze", map[string]any{"text": "I am so anxious about school"})
	require.Equal(t, http.StatusOK, w.Code)
	a := body["analysis"].(map[string]any)
	assert.Equal(t, "anxious", a["mood"])
	assert.Equal(t, []any{"school"}, a["tags"])

	w, _ = do(t, r, http.MethodPost, "/api/analyze", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, "key")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
