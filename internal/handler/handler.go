package handler

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"labor-odds/internal/calendar"
	"labor-odds/internal/dataset"
	"labor-odds/internal/engine"
	"labor-odds/internal/histogram"
	"labor-odds/internal/model"
)

// LoadFunc produces a fresh dataset.
type LoadFunc func(ctx context.Context) (*dataset.Dataset, error)

// Server answers forecast queries against the most recently loaded dataset.
type Server struct {
	mu      sync.RWMutex
	current *dataset.Dataset

	load    LoadFunc
	window  func() engine.Params
	log     *logrus.Logger
	metrics fasthttp.RequestHandler
}

// NewServer does not load anything; call Reload before serving.
// window supplies the default forecast range for each request.
func NewServer(load LoadFunc, window func() engine.Params, log *logrus.Logger) *Server {
	return &Server{
		load:    load,
		window:  window,
		log:     log,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
	}
}

// Reload swaps in a new dataset. On failure the previous one stays.
func (s *Server) Reload(ctx context.Context) error {
	ds, err := s.load(ctx)
	if err != nil {
		metricReloadFailures.Inc()
		return err
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	metricReloads.Inc()
	metricPopulationSize.Set(float64(len(ds.Individuals)))
	metricDelivered.Set(float64(ds.Delivered))
	metricTableOffsets.Set(float64(ds.Table.Len()))

	s.log.WithFields(logrus.Fields{
		"population": len(ds.Individuals),
		"delivered":  ds.Delivered,
		"offsets":    ds.Table.Len(),
	}).Info("Dataset loaded")
	return nil
}

func (s *Server) snapshot() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	if path == "/metrics" {
		s.metrics(ctx)
		return
	}
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	switch path {
	case "/healthz":
		s.handleHealth(ctx)
	case "/forecast":
		s.withDataset(ctx, s.handleForecast)
	case "/day":
		s.withDataset(ctx, s.handleDay)
	case "/histogram":
		s.withDataset(ctx, s.handleHistogram)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (s *Server) withDataset(ctx *fasthttp.RequestCtx, h func(*fasthttp.RequestCtx, *dataset.Dataset)) {
	ds := s.snapshot()
	if ds == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, "Dataset not loaded")
		return
	}
	h(ctx, ds)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	ds := s.snapshot()
	if ds == nil {
		writeError(ctx, fasthttp.StatusServiceUnavailable, "Dataset not loaded")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"status":     "ok",
		"loaded_at":  ds.LoadedAt.Format(time.RFC3339),
		"population": len(ds.Individuals),
	})
}

func (s *Server) handleForecast(ctx *fasthttp.RequestCtx, ds *dataset.Dataset) {
	params := s.window()
	args := ctx.QueryArgs()

	if v := args.Peek("start"); len(v) > 0 {
		d, err := calendar.ParseISO(string(v))
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid start: "+err.Error())
			return
		}
		params.Start = d
	}
	if v := args.Peek("end"); len(v) > 0 {
		d, err := calendar.ParseISO(string(v))
		if err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid end: "+err.Error())
			return
		}
		params.End = d
	}

	resp := engine.Forecast(params, ds.Table, ds.Individuals)
	if peak := resp.ForecastResult.Peak; peak != nil {
		metricPeakNetProbability.Set(peak.NetProbability)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleDay(ctx *fasthttp.RequestCtx, ds *dataset.Dataset) {
	raw := string(ctx.QueryArgs().Peek("date"))
	if raw == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "date is required")
		return
	}
	d, err := calendar.ParseISO(raw)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid date: "+err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, engine.Breakdown(ds.Table, ds.Individuals, d))
}

func (s *Server) handleHistogram(ctx *fasthttp.RequestCtx, ds *dataset.Dataset) {
	dates := histogram.DueDates(ds.Individuals)
	if ctx.QueryArgs().GetBool("scheduled") {
		dates = histogram.ScheduledOrDueDates(ds.Individuals)
	}
	bins := histogram.Bins(dates)
	if bins == nil {
		bins = []model.HistogramBin{}
	}
	writeJSON(ctx, fasthttp.StatusOK, bins)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(b)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	b, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(b)
}
