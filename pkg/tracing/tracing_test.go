package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
	"github.com/Goden-Gun/errdisplay/pkg/codes"
)

func TestStartRecode_RecordsOutcome(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartRecode(context.Background(), "ev-1")
	Annotate(span, &classify.Recoded{Code: "X", Shape: classify.ShapeWrapped, Severity: codes.SeverityWarning})
	Fail(span, errors.New("publish failed"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	got := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "ev-1", got[string(AttrEventID)])
	assert.Equal(t, "X", got[string(AttrCode)])
	assert.Equal(t, "wrapped", got[string(AttrShape)])
	assert.Equal(t, "warning", got[string(AttrSeverity)])
	assert.Equal(t, otelcodes.Error, spans[0].Status().Code)
}

func TestAnnotate_NilSafe(t *testing.T) {
	Annotate(nil, &classify.Recoded{})
	Fail(nil, errors.New("x"))
}
