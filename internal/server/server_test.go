package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"visual-mapper/internal/cache"
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/validation"
	"visual-mapper/internal/mapping/pipeline"
	"visual-mapper/internal/vocabulary"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ===== Test Helper Functions =====

func createTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	return cfg
}

func createTestServer(t *testing.T, c *cache.Cache) *Server {
	t.Helper()
	cfg := createTestConfig()
	schemas := validation.LoadSchemaStore(filepath.Join("..", "..", "schemas"))
	m, err := pipeline.New(cfg.Mapping(), vocabulary.Builtin(), schemas, logger.NewTestLogger(t))
	require.NoError(t, err)
	return New(Deps{Config: cfg, Mapper: m, Cache: c, Logger: logger.NewTestLogger(t)})
}

// newRedisMock closes the client at test end; goleak flags the go-redis
// background goroutines of clients left open.
func newRedisMock(t *testing.T) (*redis.Client, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ===== Tests =====

func TestMap_MedicalClinic(t *testing.T) {
	s := createTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/map",
		`{"session_id":"sess-42","entities":["врач","запись"],"keyphrases":["клиника"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "sess-42", resp.SessionID)
	assert.Equal(t, "medical-clinic", resp.Layout.Template)
	assert.Equal(t, resp.Layout.Sections.Total(), resp.Layout.Count)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, catalog.DoctorsList, resp.Matches[0].Component)
	assert.Len(t, resp.Explanations, len(resp.Matches)+1)

	raw := rec.Body.String()
	assert.Less(t, strings.Index(raw, `"hero"`), strings.Index(raw, `"main"`))
	assert.Less(t, strings.Index(raw, `"main"`), strings.Index(raw, `"footer"`))
}

func TestMap_EmptyInput(t *testing.T) {
	s := createTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/map", `{"session_id":"e","entities":[],"keyphrases":[]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []interface{}{}, body["matches"])
	assert.NotContains(t, body, "warnings")
	assert.Equal(t, "hero-main-footer", body["layout"].(map[string]interface{})["template"])
}

func TestMap_InvalidRequests(t *testing.T) {
	s := createTestServer(t, nil)
	tooMany := `{"entities":[` + strings.Repeat(`"x",`, maxTerms) + `"x"]}`

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"entities": [`},
		{"wrong type", `{"entities": "врач"}`},
		{"too many entities", tooMany},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/map", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, "INVALID_REQUEST", body["error"].(map[string]interface{})["code"])
		})
	}
}

func TestRequestID_Propagated(t *testing.T) {
	s := createTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestComponents(t *testing.T) {
	s := createTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v1/components", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Components []catalog.Entry `json:"components"`
		Count      int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(catalog.Listing()), body.Count)
	for _, e := range body.Components {
		assert.NotEmpty(t, e.Section, e.Name)
		assert.NotNil(t, e.ExampleProps, e.Name)
	}
}

func TestHealthz(t *testing.T) {
	s := createTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)

	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, vocabulary.BuiltinVersion, body["vocabulary_version"])
	scoring := body["scoring"].(map[string]interface{})
	assert.Equal(t, 0.6, scoring["threshold"])
	features := body["features"].(map[string]interface{})
	assert.Equal(t, true, features["props_synthesis"])
	assert.Equal(t, false, features["response_cache"])
}

func TestIndexAndMetrics(t *testing.T) {
	s := createTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POST /v1/map")

	do(t, s, http.MethodPost, "/v1/map", `{"entities":["врач"]}`)
	rec = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mapper_requests_total")
}

func TestReady(t *testing.T) {
	t.Run("without cache", func(t *testing.T) {
		rec := do(t, createTestServer(t, nil), http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cache unreachable", func(t *testing.T) {
		db, mock := newRedisMock(t)
		mock.ExpectPing().SetErr(stderrors.New("connection refused"))
		c := cache.New(db, cache.Options{TTL: time.Minute}, nil)

		rec := do(t, createTestServer(t, c), http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", decode(t, rec)["status"])
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMap_CacheOutageStillServes(t *testing.T) {
	db, mock := newRedisMock(t)
	mock.MatchExpectationsInOrder(false)
	c := cache.New(db, cache.Options{TTL: time.Minute, KeyPrefix: "t:"}, nil)
	s := createTestServer(t, c)

	req := pipeline.Request{Entities: []string{"врач"}}
	mock.ExpectGet(cache.Key("t:", vocabulary.BuiltinVersion, req)).SetErr(stderrors.New("connection refused"))

	rec := do(t, s, http.MethodPost, "/v1/map", `{"entities":["врач"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestRun_GracefulShutdown(t *testing.T) {
	s := createTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestResponseBodyIsValidJSON(t *testing.T) {
	s := createTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/v1/map", `{"entities":["интернет-магазин","корзина"],"keyphrases":["кнопка купить"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))
	assert.False(t, bytes.Contains(rec.Body.Bytes(), []byte(`"sections":null`)))
}
