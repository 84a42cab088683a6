package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

func TestMetrics_ObserveUpstreamOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpstream("search.list", nil)
	m.ObserveUpstream("search.list", ports.ErrNotConfigured)
	m.ObserveUpstream("channels.list", ports.ErrChannelNotFound)
	m.ObserveUpstream("search.list", &ports.UpstreamError{Op: "search.list", Err: errors.New("boom")})

	cases := []struct {
		op, outcome string
		want        float64
	}{
		{"search.list", "ok", 1},
		{"search.list", "not_configured", 1},
		{"channels.list", "not_found", 1},
		{"search.list", "error", 1},
	}
	for _, c := range cases {
		got := testutil.ToFloat64(m.UpstreamCalls.WithLabelValues(c.op, c.outcome))
		if got != c.want {
			t.Fatalf("%s/%s: want %v, got %v", c.op, c.outcome, c.want, got)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("search.list", nil)
	m.InFlight(1)
	m.SetOpenViews(3)
}
