// test/e2e/e2e_test.go
//
// End-to-end checks against a live stack: Redis, PostgreSQL and a Zeebe
// gateway on localhost. Set MAPPER_E2E=1 to run them.
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visual-mapper/internal/bootstrap"
	"visual-mapper/internal/common/camunda"
	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/database"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/observability"
	"visual-mapper/internal/mapping/pipeline"
	"visual-mapper/internal/server"
	"visual-mapper/internal/vocabulary"

	mel "visual-mapper/internal/workers/layout/map-entities-to-layout"
)

const processID = "map-layout"

var zapLog *zap.Logger

func TestMain(m *testing.M) {
	zapLog, _ = zap.NewProduction()
	code := m.Run()
	_ = zapLog.Sync()
	os.Exit(code)
}

// ==========================
// Helpers
// ==========================

func loadE2EConfig(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv("MAPPER_E2E") == "" {
		t.Skip("set MAPPER_E2E=1 to run end-to-end tests against a live stack")
	}
	cfg, err := config.Load()
	if err != nil {
		t.Logf("config problems: %v", err)
	}
	require.NotNil(t, cfg)

	// force localhost for the docker-compose stack
	cfg.Cache.Enabled = true
	cfg.Cache.Redis.Address = "localhost:6379"
	cfg.Vocabulary.Postgres.Host = "localhost"
	cfg.Camunda.BrokerAddress = "localhost:26500"
	cfg.PropsSynthesis.SchemasPath = filepath.Join("..", "..", "schemas")
	return cfg
}

func newMapper(t *testing.T, cfg *config.Config) *pipeline.Mapper {
	t.Helper()
	m, err := bootstrap.NewMapper(context.Background(), cfg, logger.NewZapAdapter(zapLog))
	require.NoError(t, err)
	return m
}

// ==========================
// 1. Service connectivity
// ==========================

func TestServicesConnectivity(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx := context.Background()

	rdb, err := database.NewRedis(cfg.Cache.Redis)
	require.NoError(t, err, "Redis client creation failed")
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(ctx), "Redis ping failed")

	pg, err := database.NewPostgres(cfg.Vocabulary.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	defer pg.Close()
	assert.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")

	client, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	require.NoError(t, err, "Zeebe gateway unreachable")
	defer client.Close()
	assert.NoError(t, client.HealthCheck(ctx))
}

// ==========================
// 2. PostgreSQL vocabulary store
// ==========================

func TestPostgresVocabulary_SeedLoadReload(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx := context.Background()
	cfg.Vocabulary.Source = vocabulary.SourceSQL
	cfg.Vocabulary.Driver = string(vocabulary.DialectPostgres)

	store, closeFn, err := vocabulary.OpenStore(cfg.Vocabulary)
	require.NoError(t, err)
	defer closeFn()
	require.NoError(t, store.Migrate(ctx))

	override, err := vocabulary.LoadFile(filepath.Join("..", "..", "configs", "vocabulary.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.Seed(ctx, override))

	m := newMapper(t, cfg)
	assert.Equal(t, override.Version, m.VocabularyVersion())

	builtin := vocabulary.Builtin()
	require.NoError(t, store.Seed(ctx, builtin))
	require.NoError(t, bootstrap.ReloadVocabulary(ctx, m, cfg, logger.NewZapAdapter(zapLog)))
	assert.Equal(t, builtin.Version, m.VocabularyVersion())
}

// ==========================
// 3. HTTP shell with the Redis cache
// ==========================

func TestHTTPMap_RedisCache(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx := context.Background()
	log := logger.NewZapAdapter(zapLog)
	cfg.Cache.KeyPrefix = "mapper:e2e:" + time.Now().Format("150405.000") + ":"

	c, closeCache := bootstrap.OpenCache(ctx, cfg, log)
	defer closeCache()
	require.True(t, c.Enabled(), "redis cache did not connect")

	obs := observability.New(observability.Options{ServiceName: "mapper-e2e", Registerer: prometheus.NewRegistry()}, log)
	defer obs.Shutdown(ctx)

	srv := server.New(server.Deps{Config: cfg, Mapper: newMapper(t, cfg), Cache: c, Observability: obs, Logger: log})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	post := func(session string) (*http.Response, pipeline.Response) {
		body := `{"session_id":"` + session + `","entities":["врач","запись"],"keyphrases":["клиника"]}`
		res, err := http.Post(ts.URL+"/v1/map", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer res.Body.Close()
		var out pipeline.Response
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		return res, out
	}

	first, firstBody := post("e2e-1")
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))
	second, secondBody := post("e2e-2")
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))

	assert.Equal(t, "e2e-2", secondBody.SessionID)
	assert.Equal(t, firstBody.Layout, secondBody.Layout)

	ready, err := http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	ready.Body.Close()
	assert.Equal(t, http.StatusOK, ready.StatusCode)
}

// ==========================
// 4. Zeebe worker through a deployed process
// ==========================

func TestZeebeWorker_MapLayoutProcess(t *testing.T) {
	cfg := loadE2EConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	log := logger.NewZapAdapter(zapLog)

	client, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	require.NoError(t, err)
	defer client.Close()
	zb := client.GetClient()

	deployBPMN(t, ctx, zb)

	wcfg := config.GetWorkerConfig(cfg, mel.TaskType)
	handler := mel.NewHandler(mel.ConfigFrom(wcfg), newMapper(t, cfg), nil, log)
	w := camunda.NewWorker(zb, mel.TaskType, wcfg, handler, log)
	defer w.Stop()

	cmd, err := zb.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(map[string]interface{}{
			"sessionId":  "e2e-zeebe",
			"entities":   []string{"интернет-магазин", "корзина", "товар"},
			"keyphrases": []string{"кнопка купить"},
		})
	require.NoError(t, err)

	result, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err)

	var vars struct {
		SelectedTemplate string            `json:"selectedTemplate"`
		ComponentCount   int               `json:"componentCount"`
		Mapping          pipeline.Response `json:"mapping"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.GetVariables()), &vars))
	assert.Equal(t, "ecommerce-landing", vars.SelectedTemplate)
	assert.Equal(t, "e2e-zeebe", vars.Mapping.SessionID)
	assert.Equal(t, vars.Mapping.Layout.Count, vars.ComponentCount)
}

func deployBPMN(t *testing.T, ctx context.Context, zb zbc.Client) {
	t.Helper()
	path := filepath.Join("bpmn", processID+".bpmn")
	_, err := zb.NewDeployResourceCommand().AddResourceFile(path).Send(ctx)
	require.NoError(t, err, "deploying %s failed", path)
	t.Logf("deployed %s", path)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkMapper_Map(b *testing.B) {
	cfg := config.Default()
	cfg.PropsSynthesis.SchemasPath = filepath.Join("..", "..", "schemas")
	m, err := bootstrap.NewMapper(context.Background(), cfg, logger.NewNoOpLogger())
	if err != nil {
		b.Fatal(err)
	}
	req := pipeline.Request{
		SessionID:  "bench",
		Entities:   []string{"врач", "запись", "услуги", "контакты"},
		Keyphrases: []string{"клиника", "внизу страницы"},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Map(req)
	}
}
