package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ca4ti/FrugalVox/internal/action"
	"github.com/ca4ti/FrugalVox/internal/config"
	"github.com/ca4ti/FrugalVox/internal/ivr"
	"github.com/ca4ti/FrugalVox/internal/observability"
	"github.com/ca4ti/FrugalVox/internal/telephony"
	"github.com/ca4ti/FrugalVox/internal/tts"
)

const version = "0.5.0"

func main() {
	path := config.DefaultPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(path)
	if err != nil {
		// The logger is configured from this file, so fall back to stderr.
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Server.LogLevel, cfg.Server.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("config", path).
		Str("listen", cfg.Transport.Addr()).
		Str("log_level", cfg.Server.LogLevel).
		Bool("metrics_enabled", cfg.Server.MetricsEnabled).
		Msg("FrugalVox starting")

	renderer := tts.NewCommandRenderer(cfg.TTS.Cmd)
	clips, err := ivr.BuildClipTable(cfg, renderer)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build the clip table")
	}
	logger.Info().Int("clips", len(clips)).Msg("Clip table loaded")

	sessions := ivr.NewRegistry()
	actions := action.NewRegistry()
	action.RegisterBuiltins(actions)

	transport := telephony.NewWSTransport(cfg.Transport, func(call telephony.Call) {
		ivr.NewSession(call, cfg, clips, sessions, actions, renderer).Run()
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/streams", transport.HTTPHandler())
	mux.HandleFunc("/health", observability.HealthCheckHandler(version))
	mux.HandleFunc("/ready", observability.ReadinessHandler(version, map[string]observability.HealthCheckFunc{
		"tts": func(ctx context.Context) error {
			if cfg.TTS.Cmd == "" {
				return nil
			}
			return renderer.Available()
		},
	}))
	mux.HandleFunc("/calls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"active": sessions.Len(),
			"calls":  sessions.IDs(),
		})
	})
	if cfg.Server.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	server := &http.Server{
		Addr:         cfg.Transport.Addr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("endpoint", fmt.Sprintf("ws://%s/streams", cfg.Transport.Addr())).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Int("active_calls", sessions.Len()).Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
