package di

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"GraphAxis/internal/datasource"
	"GraphAxis/internal/domain/data"
	"GraphAxis/internal/domain/repository"
	"GraphAxis/internal/handler/api"
	mid "GraphAxis/internal/middleware"
	internalrepo "GraphAxis/internal/repository"
	icache "GraphAxis/internal/service/cache"
	"GraphAxis/internal/service/ratelimit"
	"GraphAxis/internal/service/stream"
	"GraphAxis/internal/usecase"
	pkgch "GraphAxis/pkg/clickhouse"
	"GraphAxis/pkg/config"
	applogger "GraphAxis/pkg/logger"
	"GraphAxis/pkg/metrics"
	"GraphAxis/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideVariables builds column metadata from configuration. Column order
// in the config is the physical row order.
func ProvideVariables(cfg *config.Config) ([]*data.Variable, error) {
	vars := make([]*data.Variable, len(cfg.Axis.Columns))
	for i, col := range cfg.Axis.Columns {
		kind := data.ParseKind(col.Kind)
		if col.MissingOp == "" {
			vars[i] = data.NewVariable(col.ID, i, kind)
			continue
		}
		threshold, ok := data.Parse(kind, col.MissingValue)
		if !ok {
			return nil, fmt.Errorf("column %q: bad missing_value %q", col.ID, col.MissingValue)
		}
		vars[i] = data.NewVariableWithMissing(col.ID, i, kind, threshold, col.MissingOp)
	}
	return vars, nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the rows
// table exists.
func ProvideClickHouseClient(cfg *config.Config, vars []*data.Variable) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		rowsTableDDL(cfg.ClickHouse.Database, cfg.ClickHouse.Table, vars),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// rowsTableDDL builds an idempotent CREATE TABLE for the configured columns,
// ordered by the key column.
func rowsTableDDL(db, table string, vars []*data.Variable) string {
	cols := make([]string, len(vars))
	for i, v := range vars {
		t := "Float64"
		if v.Kind() == data.Datetime {
			t = "DateTime64(3)"
		}
		cols[i] = v.ID() + " " + t
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.%s (%s) ENGINE=MergeTree ORDER BY %s",
		db, table, strings.Join(cols, ", "), vars[0].ID())
}

// ProvideCache creates the fetch cache, or nil when caching is off.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	switch cfg.Cache.Type {
	case "memory":
		return icache.NewMemoryCache(cfg.Cache.TTL)
	case "redis":
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return nil
}

// ProvideFetcher creates the range fetcher for dynamic backends, wrapped in
// the configured cache.
func ProvideFetcher(cfg *config.Config, chClient *pkgch.Client, vars []*data.Variable, l *applogger.Logger, c icache.BytesCache) (repository.RowFetcher, error) {
	var fetcher repository.RowFetcher
	switch cfg.Backend.Type {
	case "http":
		fetcher = internalrepo.NewHTTPRowStore(cfg.Backend.BaseURL, cfg.Backend.Dataset, vars, cfg.Backend.Timeout)
	case "clickhouse":
		store := internalrepo.NewClickHouseRowStore(chClient, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table, vars)
		store.SetLogger(l)
		fetcher = store
	default:
		return nil, fmt.Errorf("no fetcher for backend %q", cfg.Backend.Type)
	}
	if c != nil {
		fetcher = internalrepo.NewCachedFetcher(fetcher, c, cfg.Cache.TTL, cfg.Cache.Prefix, vars)
	}
	return fetcher, nil
}

// ProvideSource creates the data source for the configured backend.
func ProvideSource(cfg *config.Config, vars []*data.Variable, fetcher repository.RowFetcher, m repository.Metrics, l *applogger.Logger) (datasource.Source, error) {
	if cfg.Backend.Type == "static" {
		rows, err := loadStaticRows(cfg.Backend.RowsFile, vars)
		if err != nil {
			return nil, err
		}
		return datasource.NewStaticSource(vars, rows)
	}
	return datasource.NewDynamicSource(vars, fetcher,
		datasource.WithLogger(l),
		datasource.WithMetrics(m),
		datasource.WithFetchTimeout(cfg.Backend.FetchTimeout),
		datasource.WithRateLimiter(ratelimit.New(float64(cfg.Backend.RateLimit), float64(cfg.Backend.RateLimit))),
	)
}

// loadStaticRows reads a JSON file of real-projection rows.
func loadStaticRows(path string, vars []*data.Variable) ([]data.Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rows file: %w", err)
	}
	var reals [][]float64
	if err := json.Unmarshal(b, &reals); err != nil {
		return nil, fmt.Errorf("parse rows file: %w", err)
	}
	rows := make([]data.Row, 0, len(reals))
	for i, r := range reals {
		row := data.RowFromReals(vars, r)
		if row == nil {
			return nil, fmt.Errorf("rows file row %d has %d values, want %d", i, len(r), len(vars))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ProvideCollector creates the live row collector when streaming is enabled.
// Only dynamic sources accept appended rows.
func ProvideCollector(cfg *config.Config, src datasource.Source, vars []*data.Variable, m repository.Metrics) *usecase.RowCollector {
	if !cfg.Stream.Enabled {
		return nil
	}
	sink, ok := src.(mid.Sink)
	if !ok {
		return nil
	}
	st := stream.New(cfg.Stream.URL, cfg.Stream.Dataset, vars, cfg.Stream.ReconnectDelay, cfg.Stream.PingInterval)
	pipe := mid.NewLivePipeline(sink, m, len(vars),
		mid.WithMaxRPS(cfg.Stream.MaxRPS),
		mid.WithBatchSize(cfg.Stream.BatchSize),
		mid.WithFlushInterval(cfg.Stream.FlushInterval),
	)
	return usecase.NewRowCollector(st, sink, m, pipe)
}

// InitializeApp wires every dependency and returns the runnable app.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	l, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	m := ProvideMetrics()

	vars, err := ProvideVariables(cfg)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var chClient *pkgch.Client
	if cfg.Backend.Type == "clickhouse" {
		chClient, err = ProvideClickHouseClient(cfg, vars)
		if err != nil {
			return nil, err
		}
	}

	cache := ProvideCache(cfg)

	var fetcher repository.RowFetcher
	if cfg.Backend.Type != "static" {
		fetcher, err = ProvideFetcher(cfg, chClient, vars, l, cache)
		if err != nil {
			return nil, err
		}
	}

	src, err := ProvideSource(cfg, vars, fetcher, m, l)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	windowUC := usecase.NewWindowUseCase(src)
	ticksUC := usecase.NewTicksUseCase(src)
	handler := api.NewAxisEchoHandler(l, windowUC, ticksUC)

	collector := ProvideCollector(cfg, src, vars, m)

	app := server.New(cfg, l, handler, collector, chClient)
	if rc, ok := cache.(*icache.RedisCache); ok {
		app.AddCloser(rc)
	}
	return app, nil
}
