package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"s7link/s7"
)

func TestCollectorGathersSessionStats(t *testing.T) {
	c := NewCollector("10.0.0.5:102", func() s7.Stats {
		return s7.Stats{PDULength: 240, Connected: true, LastTime: 4.5, Chunks: 2}
	})

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	var sb strings.Builder
	for _, mf := range mfs {
		if err := expfmt.MetricFamilyToText(&sb, mf); err != nil {
			t.Fatalf("serialize failed: %v", err)
		}
	}

	out := sb.String()
	for _, want := range []string{
		`s7_session_connected{target="10.0.0.5:102"} 1`,
		`s7_session_pdu_length{target="10.0.0.5:102"} 240`,
		`s7_session_last_job_chunks{target="10.0.0.5:102"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
