package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"GraphAxis/internal/domain/data"
	xhttp "GraphAxis/pkg/http"
)

// HTTPRowStore implements RowFetcher against a JSON range endpoint:
//
//	GET {base}/rows?dataset=...&min=...&max=...
//
// The endpoint answers {"rows": [[...reals...], ...]} sorted by column 0;
// reals are decoded with the schema's column kinds.
type HTTPRowStore struct {
	client  *xhttp.Client
	baseURL string
	dataset string
	columns []*data.Variable
}

func NewHTTPRowStore(baseURL, dataset string, columns []*data.Variable, timeout time.Duration) *HTTPRowStore {
	return &HTTPRowStore{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		dataset: dataset,
		columns: columns,
	}
}

type rangePayload struct {
	Rows [][]float64 `json:"rows"`
}

func (s *HTTPRowStore) FetchRange(ctx context.Context, min, max data.Value) ([]data.Row, error) {
	var payload rangePayload
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    s.baseURL + "/rows",
		QueryParams: map[string][]string{
			"dataset": {s.dataset},
			"min":     {formatReal(min)},
			"max":     {formatReal(max)},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch range: %w", err)
	}

	out := make([]data.Row, 0, len(payload.Rows))
	for _, reals := range payload.Rows {
		if row := data.RowFromReals(s.columns, reals); row != nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func formatReal(v data.Value) string {
	return strconv.FormatFloat(v.Real(), 'f', -1, 64)
}
