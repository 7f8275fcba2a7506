// Command procgo runs the procurement negotiation service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/procgo-dev/procgo"
	"github.com/procgo-dev/procgo/internal/ledger"
	"github.com/procgo-dev/procgo/internal/observability"
	"github.com/procgo-dev/procgo/internal/orchestrator"
	"github.com/procgo-dev/procgo/pkg/config"
	metrics "github.com/procgo-dev/procgo/pkg/observability"
)

var version = "dev" // set via ldflags

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:     "procgo",
		Short:   "Multi-party procurement negotiation service",
		Version: version,
		PersistentPreRun: func(*cobra.Command, []string) {
			if err := godotenv.Load(); err != nil {
				log.Println("no .env file found")
			}
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (YAML)")

	root.AddCommand(serveCmd(&configFile))
	root.AddCommand(runCmd(&configFile))
	root.AddCommand(insightsCmd(&configFile))
	return root
}

func loadPlatform(configFile string) (*procgo.Platform, *config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	p, err := procgo.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and observability servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Printf("starting procgo v%s", version)

			if err := observability.InitFromEnv(); err != nil {
				log.Printf("tracing disabled: %v", err)
			}
			metrics.InitMetrics()

			p, cfg, err := loadPlatform(*configFile)
			if err != nil {
				return err
			}

			registerHealthChecks(p)

			obsServer := metrics.NewServer(cfg.ObservabilityPort)
			errCh := make(chan error, 2)
			go func() {
				log.Printf("observability listening on :%d", cfg.ObservabilityPort)
				errCh <- obsServer.Start()
			}()
			go func() {
				errCh <- p.Serve()
			}()

			var snapshots *cron.Cron
			if cfg.SnapshotSchedule != "" {
				snapshots = cron.New()
				if _, err := snapshots.AddFunc(cfg.SnapshotSchedule, func() { logSnapshot(p) }); err != nil {
					return fmt.Errorf("invalid snapshot schedule %q: %w", cfg.SnapshotSchedule, err)
				}
				snapshots.Start()
				log.Printf("stats snapshot scheduled: %s", cfg.SnapshotSchedule)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				log.Printf("server error: %v", err)
			case sig := <-quit:
				log.Printf("received %s, shutting down", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if snapshots != nil {
				<-snapshots.Stop().Done()
			}
			if err := obsServer.Shutdown(ctx); err != nil {
				log.Printf("observability shutdown: %v", err)
			}
			if err := p.Shutdown(ctx); err != nil {
				log.Printf("platform shutdown: %v", err)
			}
			if err := observability.Shutdown(ctx); err != nil {
				log.Printf("tracing shutdown: %v", err)
			}
			return nil
		},
	}
}

func runCmd(configFile *string) *cobra.Command {
	var (
		deadline    int
		destination string
		budget      float64
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "run [request text]",
		Short: "Run one procurement workflow and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := loadPlatform(*configFile)
			if err != nil {
				return err
			}
			defer p.Shutdown(context.Background())

			text := args[0]
			for _, a := range args[1:] {
				text += " " + a
			}

			emit := func(step orchestrator.Step) {
				if !quiet {
					fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", step.Phase, step.Agent, step.Message)
				}
			}
			res := p.Orchestrator.RunStream(cmd.Context(), orchestrator.Request{
				Text:              text,
				Budget:            budget,
				DeadlineDays:      deadline,
				DestinationRegion: destination,
			}, emit)
			return printJSON(res)
		},
	}
	cmd.Flags().IntVar(&deadline, "deadline", 7, "delivery deadline in days")
	cmd.Flags().StringVar(&destination, "destination", "EU", "destination region")
	cmd.Flags().Float64Var(&budget, "budget", 0, "budget hint, 0 for none")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress step output")
	return cmd
}

func insightsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "insights [supplier-id]",
		Short: "Print what the negotiation bandit has learned",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, _, err := loadPlatform(*configFile)
			if err != nil {
				return err
			}
			defer p.Shutdown(context.Background())

			if len(args) == 1 {
				ins, err := p.Bandit.SupplierInsights(args[0])
				if err != nil {
					return err
				}
				return printJSON(ins)
			}
			all, err := p.Bandit.AllInsights()
			if err != nil {
				return err
			}
			return printJSON(all)
		},
	}
}

func registerHealthChecks(p *procgo.Platform) {
	hc := metrics.GetHealthChecker()
	hc.RegisterCheck(&metrics.HealthCheck{
		Name: "ledger",
		CheckFunc: func(ctx context.Context) error {
			_, err := p.Ledger.All(ctx)
			return err
		},
		Critical: true,
	})
	hc.RegisterCheck(&metrics.HealthCheck{
		Name: "bandit",
		CheckFunc: func(context.Context) error {
			_, err := p.Bandit.AllInsights()
			return err
		},
	})
}

func logSnapshot(p *procgo.Platform) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := ledger.Aggregate(ctx, p.Ledger)
	if err != nil {
		log.Printf("stats snapshot: %v", err)
		return
	}
	log.Printf("stats snapshot: %d negotiations, order value %.2f, savings %.2f",
		stats.TotalNegotiations, stats.TotalOrderValue, stats.TotalSavings)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
