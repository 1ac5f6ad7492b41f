package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/screwyprof/graphmetrics/aggregator"
	"github.com/screwyprof/graphmetrics/cmd/graphmetrics/config"
	"github.com/screwyprof/graphmetrics/pkg/graphql"
	"github.com/screwyprof/graphmetrics/pkg/logger"
	"github.com/screwyprof/graphmetrics/pkg/telemetry"
	"github.com/screwyprof/graphmetrics/report"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "0.0.1"

func main() {
	root := &cobra.Command{
		Use:          "graphmetrics",
		Short:        "The Graph protocol metrics generator",
		Version:      version,
		SilenceUsage: true,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Collect protocol metrics and write the report document",
		RunE:  runGenerate,
	}
	generateCmd.Flags().String("output", "", "report document path (overrides OUTPUT_PATH)")
	generateCmd.Flags().String("metrics-textfile", "", "telemetry textfile path (overrides METRICS_TEXTFILE)")
	generateCmd.Flags().String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	generateCmd.Flags().Bool("human", false, "human friendly text logs (overrides LOG_HUMAN_FRIENDLY)")

	root.AddCommand(generateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
		Secrets:          []string{cfg.APIKey},
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.ErrorContext(ctx, "Invalid configuration", slog.Any("error", err))
		return err
	}

	aggCfg, err := cfg.ToAggregatorConfig()
	if err != nil {
		log.ErrorContext(ctx, "Invalid configuration", slog.Any("error", err))
		return err
	}

	// HTTP client & subgraph clients
	metrics := telemetry.New()
	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: logger.NewTransport(log, nil, cfg.APIKey),
	}
	observe := graphql.WithObserver(metrics.ObserveRequest)

	network := graphql.NewClient(httpClient, cfg.NetworkEndpoint(), observe)
	rewards := make(map[string]aggregator.Querier, len(cfg.RewardSubgraphs))
	for name, endpoint := range cfg.RewardEndpoints() {
		rewards[name] = graphql.NewClient(httpClient, endpoint, observe)
	}

	// Create aggregation service
	service := aggregator.NewService(network, rewards, aggregator.WithConfig(aggCfg))

	// Start service
	log.InfoContext(ctx, "Starting protocol metrics run",
		slog.String("version", version),
		slog.Int("pageSize", aggCfg.PageSize.Int()),
		slog.Int("rewardNetworks", len(rewards)),
		slog.Int("quarters", len(aggCfg.Quarters)),
	)
	events, done := service.Start(ctx)

	// Subscribe to events for logging, telemetry and output
	var writeErr error
	subCloser := setupEventHandling(ctx, events, log, metrics, func(run aggregator.RunCompleted) {
		writeErr = writeOutputs(ctx, log, metrics, cfg, run)
	})

	// Wait for the run to finish and the subscriber to drain
	<-done
	subCloser()

	if writeErr != nil {
		return writeErr
	}
	log.InfoContext(ctx, "Protocol metrics run finished", slog.String("output", cfg.OutputPath))
	return nil
}

// applyFlags overrides environment configuration with the flags that were set
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile, _ = flags.GetString("metrics-textfile")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("human") {
		cfg.LogHumanFriendly, _ = flags.GetBool("human")
	}
}

// writeOutputs writes the report document and, when configured, the telemetry textfile
func writeOutputs(ctx context.Context, log *slog.Logger, metrics *telemetry.Metrics, cfg config.Config, run aggregator.RunCompleted) error {
	metrics.ObserveRun(run.Report.GeneratedAt)

	if err := report.WriteFile(cfg.OutputPath, report.Bind(run, version)); err != nil {
		log.ErrorContext(ctx, "Failed to write report", slog.Any("error", err))
		return err
	}

	if cfg.MetricsTextfile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		log.ErrorContext(ctx, "Failed to write telemetry textfile", slog.Any("error", err))
		return err
	}
	return nil
}

// setupEventHandling configures event handlers using slog directly
func setupEventHandling(
	ctx context.Context,
	events <-chan aggregator.Event,
	log *slog.Logger,
	metrics *telemetry.Metrics,
	onCompleted func(aggregator.RunCompleted),
) func() {
	return aggregator.NewSubscriber(events,
		aggregator.OnRunStarted(func(event aggregator.RunStarted) {
			log.InfoContext(ctx, "Run started",
				slog.String("startedAt", event.StartedAt.Format(logger.BritishTimeFormat)),
				slog.Any("stages", event.Stages),
			)
		}),
		aggregator.OnStageCompleted(func(event aggregator.StageCompleted) {
			metrics.ObserveStage(string(event.Stage), event.Records, event.Duration)
			log.InfoContext(ctx, "Stage completed",
				slog.String("stage", string(event.Stage)),
				slog.Int("records", event.Records),
				slog.Duration("duration", event.Duration),
			)
		}),
		aggregator.OnStageDegraded(func(event aggregator.StageDegraded) {
			metrics.ObserveFailure(string(event.Stage))
			log.ErrorContext(ctx, "Stage degraded, continuing with partial data",
				slog.String("stage", string(event.Stage)),
				slog.Any("error", event.Err),
			)
		}),
		aggregator.OnAnomalyDetected(func(event aggregator.AnomalyDetected) {
			log.WarnContext(ctx, "Anomaly detected",
				slog.String("stage", string(event.Stage)),
				slog.String("detail", event.Detail),
			)
		}),
		aggregator.OnRunCompleted(func(event aggregator.RunCompleted) {
			log.InfoContext(ctx, "Run completed",
				slog.Duration("duration", event.Duration),
				slog.String("degraded", fmt.Sprint(event.Degraded)),
				slog.Int("networks", len(event.Report.Networks.Metrics)),
				slog.Int("delegationEvents", len(event.Report.Delegations.Events)),
			)
			onCompleted(event)
		}),
	)
}
