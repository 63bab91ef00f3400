package sink

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/naka-gawa/pr-quality-stats/internal/domain"
)

const metricPrefix = "pr_quality_"

// Textfile writes the events in the Prometheus text exposition format, for
// node_exporter's textfile collector. Scalars become one gauge each; ranked
// lists become a gauge vector labeled by entry; the latest quality pull
// request becomes an info-style gauge.
type Textfile struct {
	path string
}

// NewTextfile creates a sink writing to path.
func NewTextfile(path string) *Textfile {
	return &Textfile{path: path}
}

func (s *Textfile) Emit(_ context.Context, events []domain.Event) error {
	reg := prometheus.NewRegistry()
	for _, e := range events {
		if err := register(reg, e); err != nil {
			return fmt.Errorf("failed to register metric for %s: %w", e.ID, err)
		}
	}
	if err := prometheus.WriteToTextfile(s.path, reg); err != nil {
		return fmt.Errorf("failed to write textfile %s: %w", s.path, err)
	}
	return nil
}

func register(reg *prometheus.Registry, e domain.Event) error {
	name := metricPrefix + e.ID
	switch {
	case e.Current != nil || e.Value != nil:
		v := e.Current
		if v == nil {
			v = e.Value
		}
		g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: "Dashboard scalar " + e.ID + "."})
		g.Set(float64(*v))
		return reg.Register(g)
	case e.Items != nil:
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: "Dashboard ranking " + e.ID + "."}, []string{"label", "rank"})
		for i, item := range e.Items {
			vec.WithLabelValues(item.Label, fmt.Sprint(i+1)).Set(float64(item.Value))
		}
		return reg.Register(vec)
	default:
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name + "_info", Help: "Dashboard artifact " + e.ID + "."}, []string{"image", "link"})
		if e.Image != "" || e.Link != "" {
			vec.WithLabelValues(e.Image, e.Link).Set(1)
		}
		return reg.Register(vec)
	}
}
