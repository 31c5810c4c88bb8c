// Package metrics reports generation progress through Prometheus
// collectors and periodic log lines.
package metrics

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "traitgen"

// Reporter counts completed tokens. It satisfies traitgen.Progress and is
// safe for concurrent use.
type Reporter struct {
	reg       *prometheus.Registry
	generated prometheus.Counter
	target    prometheus.Gauge
	elapsed   prometheus.Gauge

	total int64
	step  int64
	done  atomic.Int64
	start time.Time
	log   *slog.Logger
}

// NewReporter returns a Reporter expecting total tokens. Progress is logged
// at every 10% when log is not nil.
func NewReporter(total int, log *slog.Logger) *Reporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	r := &Reporter{
		reg: reg,
		generated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "generated_total",
			Help:      "Number of tokens rendered and written in this run",
		}),
		target: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "target",
			Help:      "Number of tokens requested for this run",
		}),
		elapsed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "elapsed_seconds",
			Help:      "Seconds from reporter creation to the latest completed token",
		}),
		total: int64(total),
		step:  max(int64(total)/10, 1),
		start: time.Now(),
		log:   log,
	}
	r.target.Set(float64(total))
	return r
}

func (r *Reporter) Inc() {
	r.generated.Inc()
	r.elapsed.Set(time.Since(r.start).Seconds())
	n := r.done.Add(1)
	if r.log != nil && (n%r.step == 0 || n == r.total) {
		r.log.Info("progress", "done", n, "total", r.total)
	}
}

// Done returns the number of completed tokens.
func (r *Reporter) Done() int { return int(r.done.Load()) }

func (r *Reporter) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (r *Reporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
