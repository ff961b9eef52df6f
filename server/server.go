// Package server exposes the launch dashboard over HTTP: an HTML page with
// the two controls, JSON chart configs and rendered chart images.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/render"
)

//go:embed index.html
var assets embed.FS

var indexTemplate = template.Must(template.ParseFS(assets, "index.html"))

// Title is the dashboard page heading.
const Title = "SpaceX Launch Records Dashboard"

// WebServer serves one Dashboard.
type WebServer struct {
	address         string
	dash            *dashboard.Dashboard
	server          *http.Server
	logger          zerolog.Logger
	shutdownTimeout time.Duration
	renderOpts      []render.Option
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address         string
	Dashboard       *dashboard.Dashboard
	Logger          zerolog.Logger
	ShutdownTimeout time.Duration
	Width, Height   int
}

// NewWebServer creates a web server for config.Dashboard.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address:         config.Address,
		dash:            config.Dashboard,
		logger:          config.Logger,
		shutdownTimeout: config.ShutdownTimeout,
		renderOpts:      []render.Option{render.WithSize(config.Width, config.Height)},
	}
	if ws.shutdownTimeout <= 0 {
		ws.shutdownTimeout = 5 * time.Second
	}

	ws.server = &http.Server{
		Addr:              ws.address,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ws
}

// Handler returns the routed handler wrapped in request logging.
func (ws *WebServer) Handler() http.Handler {
	var h http.Handler = ws.setupRoutes()
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("remote")(h)
	return hlog.NewHandler(ws.logger)(h)
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully. Bind and serve failures are returned.
func (ws *WebServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ws.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", ws.address, err)
	}
	return ws.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (ws *WebServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		ws.logger.Info().Str("addr", ln.Addr().String()).Msg("starting HTTP server")
		if err := ws.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	ws.logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ws.shutdownTimeout)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		ws.logger.Warn().Err(err).Msg("HTTP server shutdown error")
		if err := ws.server.Close(); err != nil {
			ws.logger.Error().Err(err).Msg("HTTP server force close error")
		}
	}
	ws.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/controls", ws.handleControls)
	mux.HandleFunc("/api/summary", ws.handleSummary)
	mux.HandleFunc("/api/charts/pie", ws.handlePieJSON)
	mux.HandleFunc("/api/charts/scatter", ws.handleScatterJSON)
	mux.HandleFunc("/charts/pie.png", ws.handlePieImage(render.PNG))
	mux.HandleFunc("/charts/pie.svg", ws.handlePieImage(render.SVG))
	mux.HandleFunc("/charts/scatter.png", ws.handleScatterImage(render.PNG))
	mux.HandleFunc("/charts/scatter.svg", ws.handleScatterImage(render.SVG))

	return mux
}

// ============================================================================
// HANDLERS
// ============================================================================

func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowGet(w, r) {
		return
	}

	var buf bytes.Buffer
	data := struct {
		Title    string
		Controls dashboard.Controls
	}{Title, ws.dash.Controls()}
	if err := indexTemplate.Execute(&buf, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index")
		writeJSONError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": ws.dash.Len()})
}

func (ws *WebServer) handleControls(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, ws.dash.Controls())
}

func (ws *WebServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, ws.dash.SiteSummary())
}

func (ws *WebServer) handlePieJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, ws.dash.PieChart(siteParam(r)))
}

func (ws *WebServer) handleScatterJSON(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	chart, ok := ws.scatter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (ws *WebServer) handlePieImage(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		ws.writeImage(w, r, ws.dash.PieChart(siteParam(r)), format)
	}
}

func (ws *WebServer) handleScatterImage(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		chart, ok := ws.scatter(w, r)
		if !ok {
			return
		}
		ws.writeImage(w, r, chart, format)
	}
}

// scatter parses site/min/max and builds the scatter chart. It writes a 400
// and returns false when a bound is not a number.
func (ws *WebServer) scatter(w http.ResponseWriter, r *http.Request) (*engine.ChartConfig, bool) {
	lo, err := boundParam(r, "min")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	hi, err := boundParam(r, "max")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	payload := ws.dash.ClampPayload(engine.Range{Min: lo, Max: hi})
	return ws.dash.ScatterChart(siteParam(r), payload), true
}

// writeImage renders chart. A chart with nothing to draw is a 204.
func (ws *WebServer) writeImage(w http.ResponseWriter, r *http.Request, chart *engine.ChartConfig, format render.Format) {
	var buf bytes.Buffer
	err := render.Write(&buf, chart, format, ws.renderOpts...)
	switch {
	case errors.Is(err, render.ErrEmptyChart):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		hlog.FromRequest(r).Warn().Err(err).Str("chart", chart.ChartType).Msg("render chart")
		writeJSONError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// ============================================================================
// HELPERS
// ============================================================================

func siteParam(r *http.Request) string {
	if site := r.URL.Query().Get("site"); site != "" {
		return site
	}
	return dashboard.AllSites
}

// boundParam returns NaN for an absent bound.
func boundParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
