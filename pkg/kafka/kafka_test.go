package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type recordingObserver struct {
	mu       sync.Mutex
	publish  []string
	consume  []string
	lastErr  error
	eventTyp string
}

func (o *recordingObserver) ObservePublish(topic string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.publish = append(o.publish, topic)
	o.lastErr = err
}

func (o *recordingObserver) ObserveConsume(topic, _, eventType string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.consume = append(o.consume, topic)
	o.eventTyp = eventType
	o.lastErr = err
}

func useTraceContext(t *testing.T) {
	t.Helper()
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })
}

func spanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
}

func TestNewManager_RequiresBrokers(t *testing.T) {
	_, err := NewManager(Config{})
	require.Error(t, err)
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := NewSaramaConfig(Config{
		ClientID:      "errdisplay",
		Username:      "user",
		Password:      "pass",
		SASLMechanism: "scram-sha-512",
		TLSEnabled:    true,
		RequiredAcks:  "one",
		MaxAttempts:   5,
	})
	assert.Equal(t, "errdisplay", cfg.ClientID)
	assert.True(t, cfg.Net.SASL.Enable)
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypeSCRAMSHA512), cfg.Net.SASL.Mechanism)
	assert.NotNil(t, cfg.Net.SASL.SCRAMClientGeneratorFunc())
	assert.True(t, cfg.Net.TLS.Enable)
	assert.Equal(t, sarama.WaitForLocal, cfg.Producer.RequiredAcks)
	assert.Equal(t, 5, cfg.Producer.Retry.Max)

	plain := NewSaramaConfig(Config{Username: "u"})
	assert.Equal(t, sarama.SASLMechanism(sarama.SASLTypePlaintext), plain.Net.SASL.Mechanism)
	assert.Equal(t, sarama.WaitForAll, plain.Producer.RequiredAcks)
	assert.Equal(t, 3, plain.Producer.Retry.Max)
}

func TestParseRequiredAcks(t *testing.T) {
	assert.Equal(t, sarama.NoResponse, parseRequiredAcks(" NONE "))
	assert.Equal(t, sarama.WaitForLocal, parseRequiredAcks("one"))
	assert.Equal(t, sarama.WaitForAll, parseRequiredAcks(""))
	assert.Equal(t, sarama.WaitForAll, parseRequiredAcks("bogus"))
}

func TestManager_PublishInjectsTrace(t *testing.T) {
	useTraceContext(t)

	base := NewSaramaConfig(Config{})
	producer := mocks.NewSyncProducer(t, base)
	producer.ExpectSendMessageAndSucceed()

	m := newManager(Config{Topic: "errdisplay.recoded"}, producer, base)
	observer := &recordingObserver{}
	m.SetPublishObserver(observer)

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t))
	require.NoError(t, m.Publish(ctx, "", []byte("k"), []byte(`{"ok":true}`)))
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Equal(t, []string{"errdisplay.recoded"}, observer.publish)
	assert.NoError(t, observer.lastErr)
}

func TestManager_PublishErrors(t *testing.T) {
	var nilManager *Manager
	require.Error(t, nilManager.Publish(context.Background(), "t", nil, nil))

	base := NewSaramaConfig(Config{})
	producer := mocks.NewSyncProducer(t, base)
	m := newManager(Config{}, producer, base)
	observer := &recordingObserver{}
	m.SetPublishObserver(observer)

	require.Error(t, m.Publish(context.Background(), "", nil, nil))
	assert.Error(t, observer.lastErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Publish(ctx, "t", nil, []byte("v")), context.Canceled)
	require.NoError(t, m.Close())
}

func TestProducerHeaders_Carrier(t *testing.T) {
	var h producerHeaders
	h.Set("traceparent", "x")
	h.Set(HeaderEventType, "error")
	assert.Equal(t, "x", h.Get("traceparent"))
	assert.Equal(t, "", h.Get("missing"))
	assert.Equal(t, []string{"traceparent", HeaderEventType}, h.Keys())
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestGroupHandler_ConsumeClaim(t *testing.T) {
	useTraceContext(t)

	var carrier producerHeaders
	propagation.TraceContext{}.Inject(trace.ContextWithSpanContext(context.Background(), spanContext(t)), &carrier)
	headers := []*sarama.RecordHeader{{Key: []byte(HeaderEventType), Value: []byte("error_event")}}
	for i := range carrier {
		headers = append(headers, &carrier[i])
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "in", Offset: 1, Headers: headers}
	claim.messages <- &sarama.ConsumerMessage{Topic: "in", Offset: 2}
	claim.messages <- &sarama.ConsumerMessage{Topic: "in", Offset: 3}
	close(claim.messages)

	observer := &recordingObserver{}
	m := &Manager{}
	m.SetConsumeObserver(observer)

	var traced []bool
	h := &groupHandler{manager: m, group: "g", handler: func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		traced = append(traced, trace.SpanContextFromContext(ctx).IsValid())
		if msg.Offset == 2 {
			return errors.New("publish failed")
		}
		return nil
	}}

	session := &fakeSession{ctx: context.Background()}
	err := h.ConsumeClaim(session, claim)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish failed")

	// the failed record stays unmarked and nothing after it is consumed
	assert.Equal(t, []bool{true, false}, traced)
	assert.Equal(t, []int64{1}, session.marked)
	assert.Equal(t, []string{"in", "in"}, observer.consume)
	assert.Error(t, observer.lastErr)
}

func TestGroupHandler_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &groupHandler{handler: func(context.Context, *sarama.ConsumerMessage) error { return nil }}
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}
	require.NoError(t, h.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}

func TestRun_Validation(t *testing.T) {
	m := &Manager{}
	handler := func(context.Context, *sarama.ConsumerMessage) error { return nil }
	require.Error(t, m.Run(context.Background(), nil, "g", []string{"t"}, handler))
}
