package bootstrap

import "github.com/Goden-Gun/errdisplay/pkg/kafka"

// InitKafka initializes a shared Kafka manager.
func InitKafka(cfg kafka.Config) (*kafka.Manager, error) {
	return kafka.NewManager(cfg)
}
