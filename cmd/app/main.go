package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"kokorotts/cfg"
	"kokorotts/internal/app/api"
	"kokorotts/internal/app/processor"
	"kokorotts/pkg/artifacts"
	"kokorotts/pkg/s3client"
	"kokorotts/pkg/synth"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "cfg-path", "cfg/cfg.yaml", "path to config file")
	flag.Parse()

	cfg, err := cfg.Load(cfgPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	synth.RegisterMetrics(reg)
	artifacts.RegisterMetrics(reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpClient := &http.Client{
		Timeout: max(cfg.Kokoro.Timeout, cfg.Kokoro.InitTimeout) + 30*time.Second,
	}

	kokoro := synth.NewKokoroClient(httpClient, &cfg.Kokoro)
	synthesizer := synth.New(logger.WithGroup("synth"), kokoro, cfg.Kokoro.InitTimeout)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("failed to init artifact store: ", err)
	}

	manager := artifacts.NewManager(logger.WithGroup("artifacts"), store, cfg.Artifacts.TTL)

	svc := processor.NewService(&cfg.Processor, logger.WithGroup("processor"), synthesizer, manager)

	router := api.NewAPI(&cfg.Api, logger.WithGroup("api"), svc, reg).NewRouter()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Api.Host, strconv.Itoa(cfg.Api.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := sync.WaitGroup{}

	if cfg.Kokoro.Warmup {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := synthesizer.Init(ctx); err != nil {
				logger.Error("engine warmup failed", "err", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()

		logger.Info("Starting server", "addr", srv.Addr, "storage", cfg.Artifacts.Backend, "temp_dir", cfg.Artifacts.TempDir)

		if err := srv.ListenAndServe(); err != nil {
			logger.Error("ListenAndServe finished", "err", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		manager.RunReclaimer(ctx, cfg.Artifacts.ReclaimInterval)
	}()

	select {
	case <-ctx.Done():
	case <-stop:
		logger.Info("Interrupt triggerred")
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}

	wg.Wait()

	logger.Info("purged artifacts", "count", manager.Purge(shutdownCtx))
}

func newStore(cfg *cfg.Config) (artifacts.Store, error) {
	switch cfg.Artifacts.Backend {
	case artifacts.BackendS3:
		client, err := s3client.New(&cfg.S3)
		if err != nil {
			return nil, err
		}

		return artifacts.NewS3Store(client, cfg.S3.Bucket, cfg.Artifacts.TempDir)
	default:
		return artifacts.NewFSStore(cfg.Artifacts.TempDir)
	}
}
