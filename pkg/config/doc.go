// Package config provides configuration types and loading helpers for
// errdisplay services.
//
// Usage:
//
//	type ServiceConfig struct {
//	    Log    config.LogConfig    `yaml:"log" mapstructure:"log"`
//	    Lookup config.LookupConfig `yaml:"lookup" mapstructure:"lookup"`
//	    // ... service-specific configs
//	}
//
//	cfg := &ServiceConfig{}
//	if err := config.LoadConfig(cfg, config.LoadOptions{EnvPrefix: "ERRDISPLAY", AllowNoConfig: true}); err != nil {
//	    return err
//	}
package config
