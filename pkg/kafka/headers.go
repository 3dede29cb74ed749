package kafka

import "github.com/IBM/sarama"

// producerHeaders implements propagation.TextMapCarrier for outgoing records.
type producerHeaders []sarama.RecordHeader

func (c *producerHeaders) Get(key string) string {
	for _, h := range *c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *producerHeaders) Set(key, value string) {
	*c = append(*c, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
}

func (c *producerHeaders) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, string(h.Key))
	}
	return keys
}

// consumerHeaders implements propagation.TextMapCarrier for consumed records.
type consumerHeaders []*sarama.RecordHeader

func (c consumerHeaders) Get(key string) string {
	for _, h := range c {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

// Set is a no-op; consumed headers are read-only.
func (c consumerHeaders) Set(string, string) {}

func (c consumerHeaders) Keys() []string {
	keys := make([]string, 0, len(c))
	for _, h := range c {
		if h != nil {
			keys = append(keys, string(h.Key))
		}
	}
	return keys
}

// HeaderEventType carries the producer-declared event type.
const HeaderEventType = "event_type"
