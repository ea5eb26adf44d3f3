package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"GraphAxis/internal/datasource"
	"GraphAxis/internal/domain/data"
	"GraphAxis/internal/usecase"
	xlogger "GraphAxis/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *echo.Echo {
	t.Helper()

	columns := []*data.Variable{
		data.NewVariable("x", 0, data.Number),
		data.NewVariable("y", 1, data.Number),
	}
	rows := []data.Row{
		{data.NumberValue(1), data.NumberValue(10)},
		{data.NumberValue(2), data.NumberValue(20)},
		{data.NumberValue(3), data.NumberValue(30)},
	}
	src, err := datasource.NewStaticSource(columns, rows)
	require.NoError(t, err)

	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	h := NewAxisEchoHandler(l, usecase.NewWindowUseCase(src), usecase.NewTicksUseCase(src))
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWindowEndpoint(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/window?columns=x,y&min=1&max=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data usecase.GetWindowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Count)
	assert.Len(t, body.Data.Rows, 2)
}

func TestWindowEndpointRejectsMissingParams(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/window?columns=x,y")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWindowEndpointUnknownColumn(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/window?columns=nope&min=1&max=2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicksEndpoint(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/ticks?min=0&max=9&spacing=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data usecase.GetTicksResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data.Count)
	assert.Equal(t, "0", body.Data.Ticks[0].Text)
}

func TestTicksEndpointBadSpacing(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/ticks?min=0&max=9&spacing=junk")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoundsEndpoint(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/bounds/x")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1", body.Data["min"])
	assert.Equal(t, "3", body.Data["max"])
}

func TestBoundsEndpointUnknownColumn(t *testing.T) {
	e := newTestHandler(t)

	rec := doGet(e, "/api/bounds/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
