package metrics

import (
	"expvar"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/obsidianstack/computedemo/pkg/types"
)

// Exported metric names.
const (
	PageRequests    = types.MetricPageRequests
	ComputeRequests = types.MetricComputeRequests
	ComputeFailures = types.MetricComputeFailures
	ValuesProcessed = types.MetricValuesProcessed
	ComputeSeconds  = types.MetricComputeSeconds
	ComputeInflight = types.MetricComputeInflight
)

// Metrics records server activity. The zero value is not usable; call New.
type Metrics struct {
	pageRequests    expvar.Int
	computeRequests expvar.Int
	computeFailures expvar.Int
	valuesProcessed expvar.Int
	computeNanos    expvar.Int // reduction time, summed
	inflight        expvar.Int

	emap *expvar.Map
}

// New returns a Metrics with all counters at zero.
func New() *Metrics {
	m := &Metrics{emap: new(expvar.Map)}
	m.emap.Set("page_requests", &m.pageRequests)
	m.emap.Set("compute_requests", &m.computeRequests)
	m.emap.Set("compute_failures", &m.computeFailures)
	m.emap.Set("values_processed", &m.valuesProcessed)
	m.emap.Set("compute_nanos", &m.computeNanos)
	m.emap.Set("compute_inflight", &m.inflight)
	return m
}

// Vars returns the expvar map holding the counters, for expvar.Publish.
func (m *Metrics) Vars() *expvar.Map { return m.emap }

// PageServed counts one request for the static page.
func (m *Metrics) PageServed() { m.pageRequests.Add(1) }

// ComputeStarted marks a compute request as in flight. The returned func
// must be called exactly once when the request finishes.
func (m *Metrics) ComputeStarted() (done func()) {
	m.computeRequests.Add(1)
	m.inflight.Add(1)
	return func() { m.inflight.Add(-1) }
}

// ComputeFailed counts a compute request that did not produce a result.
func (m *Metrics) ComputeFailed() { m.computeFailures.Add(1) }

// Observe records a finished aggregation.
func (m *Metrics) Observe(r types.Result) {
	m.valuesProcessed.Add(int64(r.Size))
	m.computeNanos.Add(r.Elapsed.Nanoseconds())
}

// Families returns the current counter values as metric families.
func (m *Metrics) Families() []*dto.MetricFamily {
	return []*dto.MetricFamily{
		counter(PageRequests, "Requests served for the static page.", float64(m.pageRequests.Value())),
		counter(ComputeRequests, "Compute requests received.", float64(m.computeRequests.Value())),
		counter(ComputeFailures, "Compute requests that ended without a result.", float64(m.computeFailures.Value())),
		counter(ValuesProcessed, "Random values generated and reduced.", float64(m.valuesProcessed.Value())),
		counter(ComputeSeconds, "Wall-clock seconds spent in the parallel reduction.",
			time.Duration(m.computeNanos.Value()).Seconds()),
		gauge(ComputeInflight, "Compute requests currently running.", float64(m.inflight.Value())),
	}
}

// Handler serves Families in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range m.Families() {
			if err := enc.Encode(mf); err != nil {
				slog.Warn("metrics: encode failed", "family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

func counter(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(v)}}},
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(v)}}},
	}
}
