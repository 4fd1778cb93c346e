// Package metrics exposes upload counters over a Prometheus endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry/ferrytypes"
)

// Collector counts upload outcomes. It is a ferrytypes.CompletionSink, so
// it plugs straight into an upload run, and it carries its own registry so
// repeated runs never fight over global registration.
type Collector struct {
	registry *prometheus.Registry

	uploadsTotal *prometheus.CounterVec
	bytesTotal   prometheus.Counter
	filesGauge   prometheus.Gauge
	duration     prometheus.Histogram
}

var _ ferrytypes.CompletionSink = (*Collector)(nil)

// New creates a collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		uploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3ferry_uploads_total",
				Help: "Total number of upload attempts by status",
			},
			[]string{"status"},
		),
		bytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "s3ferry_upload_bytes_total",
				Help: "Total bytes uploaded successfully",
			},
		),
		filesGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "s3ferry_files_discovered",
				Help: "Number of files enumerated for the current run",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3ferry_upload_duration_seconds",
				Help:    "Time taken to upload one file",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	c.registry.MustRegister(c.uploadsTotal)
	c.registry.MustRegister(c.bytesTotal)
	c.registry.MustRegister(c.filesGauge)
	c.registry.MustRegister(c.duration)

	return c
}

// SetTotal records the enumerated file count. The upload coordinator calls
// it before the workers start.
func (c *Collector) SetTotal(total int) {
	c.filesGauge.Set(float64(total))
}

// TaskDone implements ferrytypes.CompletionSink.
func (c *Collector) TaskDone(outcome ferrytypes.Outcome) {
	if outcome.Failed() {
		c.uploadsTotal.WithLabelValues("failed").Inc()
	} else {
		c.uploadsTotal.WithLabelValues("success").Inc()
		c.bytesTotal.Add(float64(outcome.Bytes))
	}
	c.duration.Observe(outcome.Duration.Seconds())
}

// Handler returns the scrape handler for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled. It blocks, so
// callers run it in a goroutine alongside the upload.
func (c *Collector) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Info("metrics endpoint listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
