package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/decay/internal/experiment"
)

// Recorder counts solver runs per scheme and tracks mesh sizes and the
// final mesh value. It is an experiment.Sink.
type Recorder struct {
	registry   *prometheus.Registry
	solves     *prometheus.CounterVec
	meshPoints prometheus.Histogram
	finalValue *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "decay",
			Name:      "solves_total",
			Help:      "Mesh functions computed, by scheme.",
		}, []string{"scheme"}),
		meshPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "decay",
			Name:      "mesh_points",
			Help:      "Number of mesh points per solve (Nt+1).",
			Buckets:   prometheus.ExponentialBuckets(2, 4, 8),
		}),
		finalValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "decay",
			Name:      "final_value",
			Help:      "u at t=T of the most recent solve, by scheme and theta.",
		}, []string{"scheme", "theta"}),
	}

	r.registry.MustRegister(r.solves, r.meshPoints, r.finalValue)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Consume(run experiment.Run) error {
	scheme := run.Demo.Name
	mesh := run.Mesh

	r.solves.WithLabelValues(scheme).Inc()
	r.meshPoints.Observe(float64(mesh.Len()))
	if mesh.Len() > 0 {
		theta := strconv.FormatFloat(mesh.Spec.Theta, 'g', -1, 64)
		r.finalValue.WithLabelValues(scheme, theta).Set(mesh.U[mesh.Len()-1])
	}
	return nil
}

// WriteTextfile dumps the current metrics in the text exposition format,
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
