package api

import (
	"errors"

	"GraphAxis/internal/datasource"
	"GraphAxis/internal/domain/data"
	models "GraphAxis/internal/domain/models"
	"GraphAxis/internal/usecase"
	xhttp "GraphAxis/pkg/http"
	xlogger "GraphAxis/pkg/logger"
	"GraphAxis/pkg/util"

	"github.com/labstack/echo/v4"
)

// AxisEchoHandler exposes the window and tick queries over HTTP.
type AxisEchoHandler struct {
	logger *xlogger.Logger
	window *usecase.WindowUseCase
	ticks  *usecase.TicksUseCase
}

func NewAxisEchoHandler(logger *xlogger.Logger, window *usecase.WindowUseCase, ticks *usecase.TicksUseCase) *AxisEchoHandler {
	return &AxisEchoHandler{logger: logger, window: window, ticks: ticks}
}

func (h *AxisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/window", h.Window)
	g.GET("/ticks", h.Ticks)
	g.GET("/bounds/:id", h.Bounds)
}

func (h *AxisEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *AxisEchoHandler) Window(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.window.GetWindow(usecase.GetWindowParams{
		Columns: util.SplitAndTrim(req.Columns, ","),
		Min:     req.Min,
		Max:     req.Max,
		Buffer:  req.Buffer,
	})
	if err != nil {
		h.logger.Error("window usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AxisEchoHandler) Ticks(c echo.Context) error {
	req := &models.TicksRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.ticks.GetTicks(usecase.GetTicksParams{
		Min:       req.Min,
		Max:       req.Max,
		Spacing:   req.Spacing,
		Alignment: req.Alignment,
		Format:    req.Format,
		LengthPx:  req.LengthPx,
	})
	if err != nil {
		h.logger.Error("ticks usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AxisEchoHandler) Bounds(c echo.Context) error {
	id := c.Param("id")
	lo, hi, err := h.window.GetBounds(id)
	if err != nil {
		h.logger.Error("bounds usecase error", xlogger.String("column", id), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"column": id, "min": lo, "max": hi})
}

// appError maps domain errors onto HTTP statuses. Anything unrecognized
// stays a 500.
func appError(err error) error {
	var cfgErr *data.ConfigurationError
	switch {
	case errors.Is(err, data.ErrColumnNotFound), errors.Is(err, datasource.ErrNoData):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, data.ErrTypeMismatch), errors.Is(err, data.ErrInvalidMeasure), errors.As(err, &cfgErr):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	}
	return err
}
