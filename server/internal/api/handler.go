package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/obsidianstack/computedemo/server/internal/compute"
	"github.com/obsidianstack/computedemo/server/internal/metrics"
)

//go:embed index.html
var indexHTML []byte

// Handler is the HTTP handler for the page and compute routes.
type Handler struct {
	agg     *compute.Aggregator
	metrics *metrics.Metrics
	mux     *http.ServeMux
}

// New creates a Handler that runs aggregations on agg and records activity
// in m, and registers its routes.
func New(agg *compute.Aggregator, m *metrics.Metrics) http.Handler {
	h := &Handler{agg: agg, metrics: m, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("GET /compute", h.compute)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// index returns GET /: the static page, byte for byte.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.metrics.PageServed()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML) //nolint:errcheck
}

// compute returns GET /compute: one aggregation over a resolved size.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) {
	size := compute.ResolveSize(lastValue(r.URL.Query(), "size"))

	done := h.metrics.ComputeStarted()
	defer done()

	res, err := h.agg.Run(r.Context(), size)
	if err != nil {
		// Only a departed client cancels the run; there is nobody to answer.
		h.metrics.ComputeFailed()
		slog.Warn("api: compute abandoned", "size", size, "err", err)
		return
	}
	h.metrics.Observe(res)

	slog.Info("api: compute",
		"size", res.Size,
		"sum", res.Sum,
		"elapsed", res.Elapsed,
		"workers", h.agg.Workers(),
	)
	textResp(w, http.StatusOK, res.String())
}

// --- helpers ----------------------------------------------------------------

// lastValue returns the final value given for key, or "" when it is absent.
// A repeated parameter overrides earlier occurrences.
func lastValue(q url.Values, key string) string {
	vs := q[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

func textResp(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body)) //nolint:errcheck
}
