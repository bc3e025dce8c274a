// cmd/matcher/serve.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	batchrefresh "subsidy-matcher/internal/pipeline/batch-refresh"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled batch refresher with health and metrics endpoints",
	RunE: func(_ *cobra.Command, _ []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(a.cfg.Refresh.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		// "auto" walks the partitions over the week, one per day.
		output, err := a.batch.Execute(ctx, &batchrefresh.Input{Partition: batchrefresh.PartitionAuto})
		if err != nil {
			a.zapLog.Error("scheduled batch refresh failed", zap.Error(err))
			return
		}
		a.zapLog.Info("scheduled batch refresh done",
			zap.Int("partition", output.Partition),
			zap.Int("processed", output.ProfilesProcessed),
			zap.Int("failed", output.Results.Failed),
			zap.Int64("expiredDeleted", output.ExpiredDeleted),
		)
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	a.zapLog.Info("scheduler started", zap.String("schedule", a.cfg.Refresh.CronSchedule))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.pg.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		http.Handle("/metrics", promhttp.Handler())
		a.zapLog.Info("health/metrics server listening", zap.String("address", a.cfg.Metrics.Address))
		if err := http.ListenAndServe(a.cfg.Metrics.Address, nil); err != nil {
			a.zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.zapLog.Info("shutdown signal received, stopping scheduler...")
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		a.zapLog.Warn("scheduler stop timed out, exiting anyway")
	}
	return nil
}
