package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Goden-Gun/errdisplay/pkg/bootstrap"
	"github.com/Goden-Gun/errdisplay/pkg/codes"
	log "github.com/Goden-Gun/errdisplay/pkg/logger"
	"github.com/Goden-Gun/errdisplay/pkg/metrics"
	"github.com/Goden-Gun/errdisplay/pkg/worker"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Kafka recoding worker",
		Long: `Consume error events from Kafka, recode them against the lookup table and
publish the resulting views. Exposes Prometheus metrics when metrics.addr is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	if !*cfg.Worker.Enabled {
		return errors.New("worker.enabled is false, nothing to serve")
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required to serve")
	}

	shutdownTracing, err := bootstrap.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		log.WithError(err).Warn("tracing disabled")
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout.Duration())
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	var hashes codes.HashReader
	if cfg.Lookup.Source == "redis" {
		client, err := bootstrap.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		hashes = client
	}
	table, err := bootstrap.InitLookup(ctx, cfg.Lookup, hashes)
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	manager, err := bootstrap.InitKafka(cfg.Kafka)
	if err != nil {
		return err
	}
	defer manager.Close()
	manager.SetPublishObserver(recorder)
	manager.SetConsumeObserver(recorder)

	recoder, err := worker.New(worker.Options{
		Table:       table,
		Decoder:     a.decoder(),
		Classifier:  a.classifier(),
		Publisher:   manager,
		OutputTopic: cfg.Worker.OutputTopic,
		ShowIcon:    *cfg.Worker.ShowIcon,
		Recorder:    recorder,
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		srv := startMetricsServer(cfg.Metrics.Addr, cfg.Metrics.Path, recorder)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	group, err := manager.NewConsumerGroup(cfg.Worker.ConsumerGroup)
	if err != nil {
		return err
	}
	defer group.Close()

	return recoder.Run(ctx, manager, group, cfg.Worker.ConsumerGroup, cfg.Worker.InputTopic)
}

func startMetricsServer(addr, path string, recorder *metrics.Recorder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, recorder.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.WithField("addr", addr).Info("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()
	return srv
}
