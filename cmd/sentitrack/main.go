// sentitrack: news sentiment vs stock price tracker.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/sentitrack/api"
	"github.com/seenimoa/sentitrack/internal/analysis/sentiment"
	"github.com/seenimoa/sentitrack/internal/config"
	"github.com/seenimoa/sentitrack/internal/datasource"
	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/internal/pipeline"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger
var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sentitrack",
	Short: "sentitrack: news sentiment vs stock price",
	Long: `sentitrack fetches recent news about an entity, scores every headline
with a sentiment classifier, averages the scores per day and lines them up
against the daily closing price of the entity's stock.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger = infra.NewLogger(os.Stderr, level, cfg.Logging.Format)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentitrack %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compare news sentiment with stock price",
	Long: `Fetch one news query per day for the last N days, score each headline,
average the scores per day, fetch daily closes for the same window and join
both on date. CSV files (and SVG charts) are written to the output directory.

Examples:
  sentitrack run
  sentitrack run --entity Apple --ticker AAPL --days 14
  sentitrack run --news rss --classifier lexicon --no-delay`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cmd)

		p, err := pipeline.NewFromConfig(cfg,
			pipeline.WithOutput(cmd.OutOrStdout()),
			pipeline.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		target := pipeline.Target{
			Entity: cfg.Tracker.Entity,
			Ticker: cfg.Tracker.Ticker,
			Days:   cfg.Tracker.Days,
		}
		res, err := p.Run(ctx, target)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Outcome != pipeline.OutcomeComplete {
			fmt.Fprintf(out, "\nNothing written (%s).\n", res.Outcome)
			return nil
		}
		fmt.Fprintf(out, "\n✅ Done. Files written to %s:\n", cfg.Output.Dir)
		for _, f := range res.Files {
			fmt.Fprintf(out, "   %s\n", f)
		}
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.String("entity", "", "news search keyword (default from config)")
	f.String("ticker", "", "stock symbol (default from config)")
	f.Int("days", 0, "number of days to look back (default from config)")
	f.String("out", "", "output directory for CSV and SVG files")
	f.String("classifier", "", "sentiment backend: huggingface, openai, anthropic, ollama, lexicon")
	f.String("news", "", "news backend: newsapi, rss, finnhub")
	f.Bool("no-charts", false, "do not write SVG charts")
	f.Bool("no-delay", false, "skip the pause and rate limit between day queries")
}

// applyRunFlags copies the flags the user set over the loaded config.
func applyRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if v, _ := f.GetString("entity"); v != "" {
		cfg.Tracker.Entity = v
	}
	if v, _ := f.GetString("ticker"); v != "" {
		cfg.Tracker.Ticker = strings.ToUpper(v)
	}
	if f.Changed("days") {
		cfg.Tracker.Days, _ = f.GetInt("days")
	}
	if v, _ := f.GetString("out"); v != "" {
		cfg.Output.Dir = v
	}
	if v, _ := f.GetString("classifier"); v != "" {
		cfg.UseClassifier(v)
	}
	if v, _ := f.GetString("news"); v != "" {
		cfg.UseNewsProvider(v)
	}
	if v, _ := f.GetBool("no-charts"); v {
		cfg.Output.Charts = false
	}
	if v, _ := f.GetBool("no-delay"); v {
		cfg.News.Delay = 0
		cfg.News.RateLimit = 0
	}
}

// --- Score Command ---

var scoreCmd = &cobra.Command{
	Use:   "score [headline]",
	Short: "Score a single headline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetString("classifier"); v != "" {
			cfg.UseClassifier(v)
		}
		classifier, err := sentiment.NewClassifier(cfg.Classifier)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		text := strings.Join(args, " ")
		score, c, err := sentiment.NewScorer(classifier, logger).ScoreText(ctx, text)
		if err != nil {
			return err
		}

		fmt.Printf("🧠 %s\n", classifier.Name())
		fmt.Printf("   Headline:   %s\n", text)
		fmt.Printf("   Label:      %s (%.2f)\n", c.Label, c.Confidence)
		fmt.Printf("   Score:      %+.4f\n", score)
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("classifier", "", "sentiment backend override")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetInt("port"); v != 0 {
			cfg.API.Port = v
		}
		srv, err := api.NewServer(cfg, logger, version)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting sentitrack API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port override")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  sentitrack — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):    %s\n", time.Now().UTC().Format(time.RFC3339))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Tracking:      %s (%s), last %d days\n", cfg.Tracker.Entity, cfg.Tracker.Ticker, cfg.Tracker.Days)
		fmt.Printf("    News:          %s (delay %s, on error: %s)\n", cfg.News.Provider, cfg.News.Delay, cfg.News.OnError)
		fmt.Printf("    Classifier:    %s (model: %s)\n", cfg.Classifier.Provider, orDefault(cfg.Classifier.Model))
		fmt.Printf("    Output:        %s (charts: %t)\n", cfg.Output.Dir, cfg.Output.Charts)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		if len(keys) == 0 {
			fmt.Println("    none required")
		}
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		var pingErr error
		if ping, _ := cmd.Flags().GetBool("ping"); ping {
			var results []probeResult
			results, pingErr = pingServices(cmd.Context())
			fmt.Println()
			fmt.Println("  Connectivity:")
			for _, r := range results {
				status := fmt.Sprintf("✅ ok (%s)", r.elapsed.Round(time.Millisecond))
				if r.err != nil {
					status = "❌ " + r.err.Error()
				}
				fmt.Printf("    %-25s %s\n", r.name+":", status)
			}
		}

		fmt.Println("═══════════════════════════════════════")
		if pingErr != nil {
			return fmt.Errorf("connectivity check failed: %w", pingErr)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("ping", false, "probe the news, market and classifier services")
}

func orDefault(s string) string {
	if s == "" {
		return "default"
	}
	return s
}

type probeResult struct {
	name    string
	elapsed time.Duration
	err     error
}

// pingServices probes every configured service in parallel. A failed probe
// never cancels the others.
func pingServices(parent context.Context) ([]probeResult, error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	now := time.Now()
	windows := utils.DayWindows(now, 1)
	from, to := utils.Lookback(now, 7)

	probes := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"News (" + cfg.News.Provider + ")", func(ctx context.Context) error {
			src, err := datasource.NewNewsSource(cfg.News)
			if err != nil {
				return err
			}
			q := datasource.NewsQuery{Keyword: cfg.Tracker.Entity, Ticker: cfg.Tracker.Ticker}
			_, err = src.SearchDay(ctx, q, windows[0])
			return err
		}},
		{"Market (Yahoo Finance)", func(ctx context.Context) error {
			_, err := datasource.NewYFinance(cfg.Market.BaseURL).DailyCloses(ctx, cfg.Tracker.Ticker, from, to)
			return err
		}},
		{"Classifier (" + cfg.Classifier.Provider + ")", func(ctx context.Context) error {
			c, err := sentiment.NewClassifier(cfg.Classifier)
			if err != nil {
				return err
			}
			_, err = c.Classify(ctx, "Stocks were little changed today.")
			return err
		}},
	}

	// A plain Group, not WithContext: every probe runs to completion and
	// reports into its own slot; Wait returns the first failure.
	results := make([]probeResult, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			start := time.Now()
			err := p.fn(ctx)
			results[i] = probeResult{name: p.name, elapsed: time.Since(start), err: err}
			if err != nil {
				return fmt.Errorf("%s: %w", p.name, err)
			}
			return nil
		})
	}
	return results, g.Wait()
}
