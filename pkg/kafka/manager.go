package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/xdg-go/scram"
	"go.opentelemetry.io/otel"
)

// Config defines Kafka connection and producer defaults.
type Config struct {
	Brokers       []string `yaml:"brokers" mapstructure:"brokers"`
	Topic         string   `yaml:"topic" mapstructure:"topic"`
	ClientID      string   `yaml:"client_id" mapstructure:"client_id"`
	Username      string   `yaml:"username" mapstructure:"username"`
	Password      string   `yaml:"password" mapstructure:"password"`
	SASLMechanism string   `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	TLSEnabled    bool     `yaml:"tls_enabled" mapstructure:"tls_enabled"`

	// RequiredAcks supports: "none" | "one" | "all" (default: all).
	RequiredAcks string `yaml:"required_acks" mapstructure:"required_acks"`
	// MaxAttempts controls producer retry max attempts (default: 3).
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// PublishObserver is an optional hook to observe publish latency and errors.
type PublishObserver interface {
	ObservePublish(topic string, duration time.Duration, err error)
}

// ConsumeObserver is an optional hook to observe message processing latency and errors.
type ConsumeObserver interface {
	ObserveConsume(topic, group, eventType string, duration time.Duration, err error)
}

// Manager manages a shared Kafka sync producer and a base sarama config for consumers.
type Manager struct {
	cfg      Config
	producer sarama.SyncProducer
	baseConf *sarama.Config

	observerMu      sync.RWMutex
	publishObserver PublishObserver
	consumeObserver ConsumeObserver

	closeOnce sync.Once
}

// NewManager builds a Kafka manager using the provided config.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers empty")
	}
	base := NewSaramaConfig(cfg)
	producer, err := sarama.NewSyncProducer(cfg.Brokers, base)
	if err != nil {
		return nil, err
	}
	return newManager(cfg, producer, base), nil
}

func newManager(cfg Config, producer sarama.SyncProducer, base *sarama.Config) *Manager {
	return &Manager{cfg: cfg, producer: producer, baseConf: base}
}

// NewSaramaConfig translates cfg into a sarama config shared by producer and consumers.
func NewSaramaConfig(cfg Config) *sarama.Config {
	base := sarama.NewConfig()
	base.Version = sarama.V2_1_0_0
	if cfg.ClientID != "" {
		base.ClientID = cfg.ClientID
	}

	base.Producer.Return.Successes = true
	base.Producer.Retry.Max = max(cfg.MaxAttempts, 3)
	base.Producer.RequiredAcks = parseRequiredAcks(cfg.RequiredAcks)
	base.Producer.Idempotent = false

	if cfg.TLSEnabled {
		base.Net.TLS.Enable = true
		base.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if cfg.Username != "" {
		base.Net.SASL.Enable = true
		base.Net.SASL.User = cfg.Username
		base.Net.SASL.Password = cfg.Password
		switch strings.ToUpper(strings.TrimSpace(cfg.SASLMechanism)) {
		case "SCRAM-SHA-512":
			base.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
			base.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return newSCRAMClient(scram.SHA512)
			}
		case "SCRAM-SHA-256":
			base.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
			base.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return newSCRAMClient(scram.SHA256)
			}
		default:
			base.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		}
	}
	return base
}

// SetPublishObserver installs or replaces the publish observer.
func (m *Manager) SetPublishObserver(observer PublishObserver) {
	if m == nil {
		return
	}
	m.observerMu.Lock()
	m.publishObserver = observer
	m.observerMu.Unlock()
}

// SetConsumeObserver installs or replaces the consume observer.
func (m *Manager) SetConsumeObserver(observer ConsumeObserver) {
	if m == nil {
		return
	}
	m.observerMu.Lock()
	m.consumeObserver = observer
	m.observerMu.Unlock()
}

func (m *Manager) observers() (PublishObserver, ConsumeObserver) {
	if m == nil {
		return nil, nil
	}
	m.observerMu.RLock()
	defer m.observerMu.RUnlock()
	return m.publishObserver, m.consumeObserver
}

// Publish sends a message to the given topic (falls back to cfg.Topic).
// Trace context is injected into Kafka headers.
func (m *Manager) Publish(ctx context.Context, topic string, key, value []byte) (err error) {
	if m == nil {
		return errors.New("kafka manager nil")
	}
	if topic == "" {
		topic = m.cfg.Topic
	}
	start := time.Now()
	defer func() {
		if observer, _ := m.observers(); observer != nil {
			observer.ObservePublish(topic, time.Since(start), err)
		}
	}()
	if topic == "" {
		return errors.New("kafka topic empty")
	}

	var headers producerHeaders
	otel.GetTextMapPropagator().Inject(ctx, &headers)

	msg := &sarama.ProducerMessage{Topic: topic, Headers: headers}
	if len(key) > 0 {
		msg.Key = sarama.ByteEncoder(key)
	}
	if len(value) > 0 {
		msg.Value = sarama.ByteEncoder(value)
	}

	if err = ctx.Err(); err != nil {
		return err
	}
	_, _, err = m.producer.SendMessage(msg)
	return err
}

// ObserveConsume triggers consume observer if installed.
func (m *Manager) ObserveConsume(topic, group, eventType string, duration time.Duration, err error) {
	if _, observer := m.observers(); observer != nil {
		observer.ObserveConsume(topic, group, eventType, duration, err)
	}
}

// NewConsumerGroup returns a consumer group using shared base config.
func (m *Manager) NewConsumerGroup(group string) (sarama.ConsumerGroup, error) {
	if m == nil {
		return nil, errors.New("kafka manager nil")
	}
	if group == "" {
		return nil, errors.New("kafka consumer group empty")
	}
	cfg := *m.baseConf
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	return sarama.NewConsumerGroup(m.cfg.Brokers, group, &cfg)
}

// Close shuts down producer.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	var err error
	m.closeOnce.Do(func() {
		if m.producer != nil {
			err = m.producer.Close()
		}
	})
	return err
}

func parseRequiredAcks(v string) sarama.RequiredAcks {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none":
		return sarama.NoResponse
	case "one":
		return sarama.WaitForLocal
	default:
		return sarama.WaitForAll
	}
}

type scramClient struct {
	*scram.Client
	*scram.ClientConversation
	hash scram.HashGeneratorFcn
}

func newSCRAMClient(hash scram.HashGeneratorFcn) sarama.SCRAMClient {
	return &scramClient{hash: hash}
}

func (c *scramClient) Begin(userName, password, authzID string) error {
	client, err := c.hash.NewClient(userName, password, authzID)
	if err != nil {
		return err
	}
	c.Client = client
	c.ClientConversation = client.NewConversation()
	return nil
}

func (c *scramClient) Step(challenge string) (string, error) {
	return c.ClientConversation.Step(challenge)
}

func (c *scramClient) Done() bool {
	return c.ClientConversation.Done()
}
