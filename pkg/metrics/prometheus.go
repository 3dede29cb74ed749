// Package metrics records recoding outcomes and Kafka latency with Prometheus.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
)

const namespace = "errdisplay"

// Recorder implements kafka.PublishObserver and kafka.ConsumeObserver and
// counts classifications.
type Recorder struct {
	registry        *prom.Registry
	classifications *prom.CounterVec
	skipped         *prom.CounterVec
	publishDuration *prom.HistogramVec
	publishResults  *prom.CounterVec
	consumeDuration *prom.HistogramVec
	consumeResults  *prom.CounterVec
}

// NewRecorder constructs and registers metrics on reg (a fresh registry when nil).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		classifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Recoded errors by input shape and severity",
		}, []string{"shape", "severity"}),
		skipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "events_skipped_total",
			Help:      "Events that produced no message, by reason",
		}, []string{"reason"}),
		publishDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish latency",
			Buckets:   prom.DefBuckets,
		}, []string{"topic"}),
		publishResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Kafka publish results",
		}, []string{"topic", "result"}),
		consumeDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_consume_duration_seconds",
			Help:      "Kafka message handling latency",
			Buckets:   prom.DefBuckets,
		}, []string{"topic", "group"}),
		consumeResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_consume_total",
			Help:      "Kafka message handling results",
		}, []string{"topic", "group", "event_type", "result"}),
	}
	reg.MustRegister(r.classifications, r.skipped, r.publishDuration, r.publishResults, r.consumeDuration, r.consumeResults)
	return r
}

// ObserveClassification counts one recoded error.
func (r *Recorder) ObserveClassification(rec *classify.Recoded) {
	if r == nil || rec == nil {
		return
	}
	r.classifications.WithLabelValues(rec.Shape.String(), string(rec.Severity)).Inc()
}

// ObserveSkipped counts an event that produced no message.
func (r *Recorder) ObserveSkipped(reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(reason).Inc()
}

// ObservePublish implements kafka.PublishObserver.
func (r *Recorder) ObservePublish(topic string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.publishDuration.WithLabelValues(topic).Observe(duration.Seconds())
	r.publishResults.WithLabelValues(topic, result(err)).Inc()
}

// ObserveConsume implements kafka.ConsumeObserver.
func (r *Recorder) ObserveConsume(topic, group, eventType string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.consumeDuration.WithLabelValues(topic, group).Observe(duration.Seconds())
	r.consumeResults.WithLabelValues(topic, group, eventType, result(err)).Inc()
}

// Handler exposes the registry over HTTP.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
