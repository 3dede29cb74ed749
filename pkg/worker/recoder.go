// Package worker recodes error events consumed from Kafka and publishes the
// resulting views for front ends.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
	"github.com/Goden-Gun/errdisplay/pkg/codes"
	"github.com/Goden-Gun/errdisplay/pkg/envelope"
	"github.com/Goden-Gun/errdisplay/pkg/kafka"
	log "github.com/Goden-Gun/errdisplay/pkg/logger"
	"github.com/Goden-Gun/errdisplay/pkg/render"
	"github.com/Goden-Gun/errdisplay/pkg/tracing"
)

// Skip reasons reported to the Recorder.
const (
	SkipInvalidEvent = "invalid_event"
	SkipInvalidError = "invalid_error"
	SkipNullError    = "null_error"
)

// Publisher sends a record to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Recorder observes recoding outcomes.
type Recorder interface {
	ObserveClassification(rec *classify.Recoded)
	ObserveSkipped(reason string)
}

// RecodedEvent is published for every event that carried an error.
type RecodedEvent struct {
	EventID   string         `json:"event_id"`
	Version   string         `json:"version"`
	Code      string         `json:"code,omitempty"`
	Shape     classify.Shape `json:"shape"`
	Severity  codes.Severity `json:"severity"`
	Locale    string         `json:"locale,omitempty"`
	View      *render.View   `json:"view"`
	Text      string         `json:"text"`
	RecodedAt time.Time      `json:"recoded_at"`
}

// Options configure a Recoder.
type Options struct {
	Table       *codes.Table
	Decoder     envelope.Decoder
	Classifier  classify.Classifier
	Publisher   Publisher
	OutputTopic string
	ShowIcon    bool
	Recorder    Recorder
	Now         func() time.Time
}

// Recoder turns Kafka error events into published views.
type Recoder struct {
	opts Options
}

// New validates opts and builds a Recoder.
func New(opts Options) (*Recoder, error) {
	if opts.Table == nil {
		return nil, errors.New("lookup table required")
	}
	if opts.Publisher == nil {
		return nil, errors.New("publisher required")
	}
	if opts.OutputTopic == "" {
		return nil, errors.New("output topic required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Recoder{opts: opts}, nil
}

// Handle processes one consumed record. Malformed events are logged and
// skipped rather than returned, so they are not redelivered. Encode and
// publish failures are returned and the record is consumed again.
func (r *Recoder) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ev, err := envelope.ParseEvent(msg.Value)
	if err != nil {
		log.WithTrace(ctx).WithError(err).WithField(log.FieldTopic, msg.Topic).Warn("skip malformed event")
		r.skip(SkipInvalidEvent)
		return nil
	}

	ctx, span := tracing.StartRecode(ctx, ev.ID)
	defer span.End()

	rec, out, err := r.recode(ev)
	if err != nil {
		log.WithEvent(ctx, ev.ID).WithError(err).Warn("skip undecodable error payload")
		r.skip(SkipInvalidError)
		return nil
	}
	if out == nil {
		log.WithEvent(ctx, ev.ID).Debug("event carries no error")
		r.skip(SkipNullError)
		return nil
	}
	tracing.Annotate(span, rec)

	payload, err := json.Marshal(out)
	if err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("encode recoded event: %w", err)
	}
	if err := r.opts.Publisher.Publish(ctx, r.opts.OutputTopic, []byte(out.EventID), payload); err != nil {
		tracing.Fail(span, err)
		return fmt.Errorf("publish recoded event %s: %w", out.EventID, err)
	}

	log.WithEvent(ctx, ev.ID).WithFields(log.Fields{
		log.FieldCode:     out.Code,
		log.FieldShape:    out.Shape.String(),
		log.FieldSeverity: out.Severity,
	}).Debug("error recoded")
	return nil
}

// Recode classifies a single event. It returns nil when the event has no error.
func (r *Recoder) Recode(ev *envelope.Event) (*RecodedEvent, error) {
	_, out, err := r.recode(ev)
	return out, err
}

func (r *Recoder) recode(ev *envelope.Event) (*classify.Recoded, *RecodedEvent, error) {
	if ev == nil {
		return nil, nil, nil
	}
	in, err := ev.Input(r.opts.Decoder)
	if err != nil {
		return nil, nil, err
	}
	rec := r.opts.Classifier.Classify(in, r.opts.Table)
	if rec == nil {
		return nil, nil, nil
	}
	if r.opts.Recorder != nil {
		r.opts.Recorder.ObserveClassification(rec)
	}

	view := render.Present(rec, render.Props{
		ShowIcon:  ev.ShowIconOr(r.opts.ShowIcon),
		ClassName: ev.ClassName,
	})
	return rec, &RecodedEvent{
		EventID:   ev.ID,
		Version:   ev.Version,
		Code:      rec.Code,
		Shape:     rec.Shape,
		Severity:  rec.Severity,
		Locale:    ev.Locale,
		View:      view,
		Text:      render.Plain(view),
		RecodedAt: r.opts.Now().UTC(),
	}, nil
}

// Run consumes error events from topics until ctx is cancelled.
func (r *Recoder) Run(ctx context.Context, m *kafka.Manager, group sarama.ConsumerGroup, groupID string, topics ...string) error {
	log.WithFields(log.Fields{"group": groupID, "topics": topics, "output": r.opts.OutputTopic}).Info("recoder started")
	defer log.WithField("group", groupID).Info("recoder stopped")
	return m.Run(ctx, group, groupID, topics, r.Handle)
}

func (r *Recoder) skip(reason string) {
	if r.opts.Recorder != nil {
		r.opts.Recorder.ObserveSkipped(reason)
	}
}
