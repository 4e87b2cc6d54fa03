package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/flexshop/jobshop-sim/pkg/bus"
	"github.com/flexshop/jobshop-sim/pkg/bus/logbus"
	"github.com/flexshop/jobshop-sim/pkg/bus/pubsubbus"
	"github.com/flexshop/jobshop-sim/pkg/config"
	"github.com/flexshop/jobshop-sim/pkg/kernel"
	"github.com/flexshop/jobshop-sim/pkg/metrics"
	"github.com/flexshop/jobshop-sim/pkg/reporting"
	"github.com/flexshop/jobshop-sim/pkg/risk"
	"github.com/flexshop/jobshop-sim/pkg/shutdown"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Run the job-shop simulation",
	Long:  `Loads configuration, wires the event bus and metrics exporter, and runs the simulation kernel until quiescence or a stop signal.`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().Int("max-ticks", 0, "stop after this many ticks (overrides config when > 0; 0 keeps the configured max_ticks)")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if maxTicks, _ := cmd.Flags().GetInt("max-ticks"); maxTicks > 0 {
		cfg.Simulation.MaxTicks = maxTicks
	}
	if verbose {
		cfg.Reporting.LogLevel = "debug"
	}

	appLogger := reporting.NewLoggerFromConfig(cfg.Reporting)
	log := appLogger.GetZerologLogger()
	appLogger.Info("jobshop-sim starting", "version", version, "seed", cfg.Simulation.Seed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCtl := shutdown.New(shutdown.Config{
		StopFile:             cfg.Shutdown.StopFile,
		PollInterval:         cfg.Shutdown.PollInterval,
		EnableSignalHandlers: cfg.Shutdown.EnableSignalHandlers,
	}, log)
	stopCtl.Start(ctx)
	stopCtl.OnStop(func() {
		appLogger.Info("stop requested, cancelling run")
		cancel()
	})

	publisher, closePublisher, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build event publisher: %w", err)
	}
	defer closePublisher()

	if cfg.Metrics.Enabled {
		metrics.Reset()
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Warn("metrics server stopped", "error", err.Error())
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	model := risk.NewHeuristicModel()
	k := kernel.New(cfg, nil, model, publisher, log)

	storage, err := reporting.NewStorage(cfg.Reporting.OutputDir, 20, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create report storage: %w", err)
	}

	runID := uuid.NewString()
	startTime := time.Now()

	driver := kernel.WallClockDriver{Interval: time.Duration(cfg.Simulation.TickSeconds * float64(time.Second))}
	runErr := k.Run(ctx, driver)

	summary := &reporting.RunSummary{
		RunID:     runID,
		Seed:      cfg.Simulation.Seed,
		StartTime: startTime,
		EndTime:   time.Now(),
		TicksRun:  k.CurrentTick(),
		Status:    reporting.RunStatusCompleted,
	}
	summary.Duration = summary.EndTime.Sub(summary.StartTime).String()
	if runErr != nil {
		summary.Status = reporting.RunStatusStopped
		summary.Message = runErr.Error()
	}

	if _, err := storage.SaveSummary(summary); err != nil {
		appLogger.Warn("failed to save run summary", "error", err.Error())
	}

	appLogger.Info("jobshop-sim finished", "ticks", k.CurrentTick(), "status", string(summary.Status))
	return nil
}

// buildPublisher wires the log sink plus, when a Pub/Sub project is
// configured, a Cloud Pub/Sub sink, fanning events out to both.
func buildPublisher(ctx context.Context, cfg *config.Config, log zerolog.Logger) (bus.Publisher, func(), error) {
	sinks := []bus.Publisher{logbus.New(log)}
	closeFn := func() {}

	if cfg.PubSub.ProjectID != "" {
		client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pubsub client: %w", err)
		}

		eventsTopic := client.Topic(cfg.PubSub.EventsTopic)
		statusTopic := client.Topic(cfg.PubSub.StatusTopic)
		telemetryTopic := client.Topic(cfg.PubSub.TelemetryTopic)

		sinks = append(sinks, pubsubbus.New(eventsTopic, statusTopic, telemetryTopic))
		closeFn = func() {
			eventsTopic.Stop()
			statusTopic.Stop()
			telemetryTopic.Stop()
			_ = client.Close()
		}
	}

	return bus.NewMultiPublisher(sinks...), closeFn, nil
}
