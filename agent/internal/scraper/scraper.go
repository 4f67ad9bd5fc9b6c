package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/obsidianstack/computedemo/pkg/types"
)

// Snapshot is one reading of the server's counters.
type Snapshot struct {
	PageRequests    float64
	ComputeRequests float64
	ComputeFailures float64
	ValuesProcessed float64
	ComputeSeconds  float64 // total time spent in reductions
	Inflight        float64
}

// Scrape fetches url and returns the server counters it exposes.
func Scrape(ctx context.Context, client *http.Client, url string) (*Snapshot, error) {
	mfs, err := Fetch(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("scrape %q: %w", url, err)
	}
	return &Snapshot{
		PageRequests:    SumFamily(mfs[types.MetricPageRequests]),
		ComputeRequests: SumFamily(mfs[types.MetricComputeRequests]),
		ComputeFailures: SumFamily(mfs[types.MetricComputeFailures]),
		ValuesProcessed: SumFamily(mfs[types.MetricValuesProcessed]),
		ComputeSeconds:  SumFamily(mfs[types.MetricComputeSeconds]),
		Inflight:        SumFamily(mfs[types.MetricComputeInflight]),
	}, nil
}

// Fetch performs an HTTP GET to url and returns parsed metric families.
func Fetch(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse decodes a Prometheus text exposition from r into metric families.
// The server always writes a complete exposition, so any parse error means
// the endpoint is not a computedemo server and the whole read is rejected.
func Parse(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// SumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil (metric not present in the scrape).
func SumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}
