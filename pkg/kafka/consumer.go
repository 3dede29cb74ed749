package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"

	log "github.com/Goden-Gun/errdisplay/pkg/logger"
)

// MessageHandler processes one consumed record. A returned error leaves the
// offset unmarked and ends the claim, so the record is consumed again.
type MessageHandler func(ctx context.Context, msg *sarama.ConsumerMessage) error

// Run consumes topics with group until ctx is cancelled or the group closes.
func (m *Manager) Run(ctx context.Context, group sarama.ConsumerGroup, groupID string, topics []string, handler MessageHandler) error {
	if group == nil {
		return errors.New("kafka consumer group nil")
	}
	if len(topics) == 0 {
		return errors.New("kafka topics empty")
	}
	if handler == nil {
		return errors.New("kafka handler nil")
	}

	go func() {
		for err := range group.Errors() {
			log.WithError(err).WithField("group", groupID).Warn("kafka consumer error")
		}
	}()

	h := &groupHandler{manager: m, group: groupID, handler: handler}
	for {
		if err := group.Consume(ctx, topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

type groupHandler struct {
	manager *Manager
	group   string
	handler MessageHandler
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(session, msg); err != nil {
				return err
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) process(session sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage) error {
	headers := consumerHeaders(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(session.Context(), headers)

	start := time.Now()
	err := h.handler(ctx, msg)
	h.manager.ObserveConsume(msg.Topic, h.group, headers.Get(HeaderEventType), time.Since(start), err)
	if err != nil {
		log.WithTrace(ctx).WithError(err).WithFields(log.Fields{
			log.FieldTopic: msg.Topic,
			"partition":    msg.Partition,
			"offset":       msg.Offset,
		}).Warn("kafka message handling failed, offset left for redelivery")
		return fmt.Errorf("handle %s/%d@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	session.MarkMessage(msg, "")
	return nil
}
