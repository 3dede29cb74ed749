package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
)

const instrumentationName = "github.com/Goden-Gun/errdisplay"

// Span attribute keys.
const (
	AttrEventID  = attribute.Key("errdisplay.event_id")
	AttrCode     = attribute.Key("errdisplay.code")
	AttrShape    = attribute.Key("errdisplay.shape")
	AttrSeverity = attribute.Key("errdisplay.severity")
)

// Propagator is the W3C trace context + baggage propagator installed by bootstrap.
var Propagator propagation.TextMapPropagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Tracer returns named tracer for errdisplay components.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationName
	}
	return otel.Tracer(name)
}

// StartRecode opens a span around one recoding.
func StartRecode(ctx context.Context, eventID string) (context.Context, trace.Span) {
	return Tracer("").Start(ctx, "errdisplay.recode",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(AttrEventID.String(eventID)),
	)
}

// Annotate records the classification outcome on span.
func Annotate(span trace.Span, rec *classify.Recoded) {
	if span == nil || rec == nil {
		return
	}
	span.SetAttributes(
		AttrCode.String(rec.Code),
		AttrShape.String(rec.Shape.String()),
		AttrSeverity.String(string(rec.Severity)),
	)
}

// Fail marks span as failed.
func Fail(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
