package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fairtick/fairtick/pkg/config"
	"github.com/fairtick/fairtick/pkg/engine"
	"github.com/fairtick/fairtick/pkg/events"
	"github.com/fairtick/fairtick/pkg/history"
	"github.com/fairtick/fairtick/pkg/log"
	"github.com/fairtick/fairtick/pkg/metrics"
	"github.com/fairtick/fairtick/pkg/sched"
	"github.com/fairtick/fairtick/pkg/transport"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fairtick",
	Short: "fairtick - discrete-time fair-share CPU scheduler",
	Long: `fairtick is a CFS-style fair-share scheduler driven by an external
event producer. It connects to a unix socket, consumes one JSON event batch
per virtual-time tick, and answers each batch with a scheduling decision:
one task id (or "idle") per CPU.

Fairness comes from priority-weighted virtual runtime; hierarchical control
comes from cgroups with relative shares, bandwidth quotas, and CPU masks.`,
	Version: Version,
	RunE:    run,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fairtick version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	flags := rootCmd.Flags()
	flags.StringP("socket", "s", "event.socket", "event producer socket path")
	flags.IntP("cpus", "c", 4, "number of logical CPUs (1-128)")
	flags.IntP("quantum", "q", 1, "runtime quantum per tick (ms)")
	flags.BoolP("metadata", "m", false, "include metadata in decisions")
	flags.String("config", "", "optional YAML config file")
	flags.String("history-dir", "", "directory for the decision log (disabled when empty)")
	flags.String("listen-metrics", "", "address for /metrics and health endpoints (disabled when empty)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "emit JSON logs instead of console output")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Setup(cfg.LogLevel, cfg.LogJSON, nil)
	logger := log.Component("main")
	logger.Info().
		Str("socket", cfg.SocketPath).
		Int("cpus", cfg.CPUs).
		Int("quantum", cfg.Quantum).
		Bool("metadata", cfg.Metadata).
		Msg("starting fairtick")

	conn, err := transport.Dial(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("connect to producer: %w", err)
	}
	defer conn.Close()
	metrics.UpdateComponent("transport", true, "")

	scheduler := sched.New(cfg.CPUs, cfg.Quantum)

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	runID := uuid.NewString()

	var store *history.Store
	if cfg.HistoryDir != "" {
		store, err = history.Open(cfg.HistoryDir, history.Session{
			RunID:     runID,
			StartedAt: time.Now(),
			CPUs:      cfg.CPUs,
			Quantum:   cfg.Quantum,
		})
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		metrics.UpdateComponent("history", true, "")
	}

	eng := engine.New(scheduler, conn, engine.Options{
		Metadata: cfg.Metadata,
		Broker:   broker,
		History:  store,
		RunID:    runID,
	})

	if cfg.ListenMetrics != "" {
		go func() {
			if err := metrics.Serve(cfg.ListenMetrics); err != nil {
				logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
		logger.Info().Str("addr", cfg.ListenMetrics).Msg("metrics listener started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("signal received, shutting down")
		cancel()
		// Unblock a pending read so the loop can observe cancellation.
		conn.Close()
	}()

	if err := eng.Run(ctx); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	logger.Info().Msg("fairtick terminated")
	return nil
}

// loadConfig overlays the optional file on the defaults, then applies any
// explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("socket") {
		cfg.SocketPath, _ = flags.GetString("socket")
	}
	if flags.Changed("cpus") {
		cfg.CPUs, _ = flags.GetInt("cpus")
	}
	if flags.Changed("quantum") {
		cfg.Quantum, _ = flags.GetInt("quantum")
	}
	if flags.Changed("metadata") {
		cfg.Metadata, _ = flags.GetBool("metadata")
	}
	if flags.Changed("history-dir") {
		cfg.HistoryDir, _ = flags.GetString("history-dir")
	}
	if flags.Changed("listen-metrics") {
		cfg.ListenMetrics, _ = flags.GetString("listen-metrics")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	return cfg, nil
}
