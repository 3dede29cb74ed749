// Package bootstrap provides common initialization utilities for errdisplay
// services.
//
// This package consolidates start-up logic including:
//   - Logger setup with file rotation
//   - Lookup table loading (embedded, file or Redis)
//   - Redis and Kafka connection management
//   - OpenTelemetry tracing initialization
//
// Example usage:
//
//	opts := bootstrap.LoggerOptions{ServiceName: cfg.App.Name, AddContainerHook: true}
//	if err := bootstrap.InitLoggerWithOptions(cfg.Log, opts); err != nil {
//	    log.Fatal(err)
//	}
//
//	table, err := bootstrap.InitLookup(ctx, cfg.Lookup, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	shutdown, err := bootstrap.InitTracing(ctx, cfg.Tracing)
//	if err != nil {
//	    log.Warn(err)
//	}
//	defer shutdown(ctx)
package bootstrap
