package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"GraphAxis/internal/domain/data"
	pkgch "GraphAxis/pkg/clickhouse"
	applogger "GraphAxis/pkg/logger"
)

// ClickHouseRowStore implements RowFetcher over a ClickHouse table whose
// columns mirror the source schema. Column 0 is the table's ordering key.
type ClickHouseRowStore struct {
	db      *sql.DB
	table   string
	columns []*data.Variable
	l       *applogger.Logger
}

func NewClickHouseRowStore(ch *pkgch.Client, table string, columns []*data.Variable) *ClickHouseRowStore {
	return &ClickHouseRowStore{db: ch.DB(), table: table, columns: columns}
}

// SetLogger injects a structured logger.
func (s *ClickHouseRowStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseRowStore) FetchRange(ctx context.Context, min, max data.Value) ([]data.Row, error) {
	start := time.Now()
	ids := make([]string, len(s.columns))
	for i, v := range s.columns {
		ids[i] = v.ID()
	}
	key := ids[0]
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s >= ? AND %s <= ? ORDER BY %s ASC",
		strings.Join(ids, ", "), s.table, key, key, key)

	rows, err := s.db.QueryContext(ctx, q, driverValue(min), driverValue(max))
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse range query error",
				applogger.String("table", s.table),
				applogger.String("min", min.String()),
				applogger.String("max", max.String()),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("fetch range: %w", err)
	}
	defer rows.Close()

	out := make([]data.Row, 0, 1024)
	for rows.Next() {
		dest := make([]any, len(s.columns))
		for i, v := range s.columns {
			if v.Kind() == data.Datetime {
				dest[i] = new(time.Time)
			} else {
				dest[i] = new(float64)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse range scan error",
					applogger.String("table", s.table),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(data.Row, len(dest))
		for i, d := range dest {
			switch p := d.(type) {
			case *time.Time:
				row[i] = data.DatetimeValue(float64(p.UnixMilli()))
			case *float64:
				row[i] = data.NumberValue(*p)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse range rows error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse range ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// driverValue converts a bound to what the driver expects: time.Time for
// DateTime columns, plain float for numeric keys.
func driverValue(v data.Value) any {
	if dv, ok := v.(data.DatetimeValue); ok {
		return dv.Time()
	}
	return v.Real()
}
