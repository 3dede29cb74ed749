package main

import (
	"github.com/Goden-Gun/errdisplay/pkg/config"
	"github.com/Goden-Gun/errdisplay/pkg/kafka"
)

const envPrefix = "ERRDISPLAY"

// serviceConfig is the full configuration of the errdisplay binary.
type serviceConfig struct {
	App     config.AppConfig     `yaml:"app" mapstructure:"app"`
	Log     config.LogConfig     `yaml:"log" mapstructure:"log"`
	Lookup  config.LookupConfig  `yaml:"lookup" mapstructure:"lookup"`
	Redis   config.RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Kafka   kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Worker  config.WorkerConfig  `yaml:"worker" mapstructure:"worker"`
	Tracing config.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics config.MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

func loadServiceConfig(path string) (*serviceConfig, error) {
	cfg := &serviceConfig{}
	opts := config.LoadOptions{ConfigFile: path, EnvPrefix: envPrefix, AllowNoConfig: path == ""}
	if err := config.LoadConfig(cfg, opts); err != nil {
		return nil, err
	}
	if err := config.ApplySecrets([]config.SecretDefinition{
		{Name: "REDIS_PASSWORD", Target: &cfg.Redis.Password},
		{Name: "KAFKA_PASSWORD", Target: &cfg.Kafka.Password},
	}); err != nil {
		return nil, err
	}

	if cfg.App.Env == "" {
		cfg.App.Env = config.GetEnv()
	}
	if cfg.App.NodeID == "" {
		cfg.App.NodeID = config.GetNodeID("ERRDISPLAY_NODE_ID")
	}
	if cfg.App.Name == "" {
		cfg.App.Name = "errdisplay"
	}
	cfg.Log.ApplyDefaults()
	cfg.Lookup.ApplyDefaults()
	cfg.Worker.ApplyDefaults()
	cfg.Tracing.ApplyDefaults()
	cfg.Metrics.ApplyDefaults()
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = cfg.App.Name
	}
	return cfg, nil
}
