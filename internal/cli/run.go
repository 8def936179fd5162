package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/seoaudit/engine/internal/orchestrator"
	"github.com/seoaudit/engine/internal/store"
	"github.com/spf13/cobra"
)

var (
	runMaxPages          int
	runMaxTime           time.Duration
	runIncludeSubdomains bool
	runRespectRobots     bool
	runUserAgentSuffix   string
)

var runCmd = &cobra.Command{
	Use:   "run <seed-url>",
	Short: "Run one audit against a seed URL and print the report to stdout.",
	Long: `run drives an audit start-to-finish in-process, the way Submit Audit
followed immediately by Poll Status until Completed would from a client
of seoaudit serve — except without the HTTP round trip, for one-shot
local use.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "maximum pages to crawl (0 uses the configured default)")
	runCmd.Flags().DurationVar(&runMaxTime, "max-time", 0, "wall-clock budget for the run (0 uses the configured default)")
	runCmd.Flags().BoolVar(&runIncludeSubdomains, "include-subdomains", false, "treat subdomains of the seed host as internal")
	runCmd.Flags().BoolVar(&runRespectRobots, "respect-robots", true, "honor robots.txt disallow/crawl-delay directives")
	runCmd.Flags().StringVar(&runUserAgentSuffix, "user-agent-suffix", "", "appended to the tool's advertised user agent")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"max-pages":          "run.max_pages",
		"max-time":           "run.max_time",
		"include-subdomains": "run.include_subdomains",
		"respect-robots":     "run.respect_robots",
		"user-agent-suffix":  "run.user_agent_suffix",
	})
	if err != nil {
		return err
	}

	seed, err := url.Parse(args[0])
	if err != nil || seed.Host == "" {
		return fmt.Errorf("invalid seed URL %q: %w", args[0], err)
	}

	o, err := buildOrchestrator(cfg)
	if err != nil {
		return fmt.Errorf("building orchestrator: %w", err)
	}

	opts := orchestrator.RunOptions{
		MaxPages:          cfg.Run.MaxPages,
		MaxTime:           cfg.Run.MaxTime,
		IncludeSubdomains: cfg.Run.IncludeSubdomains,
		HeadlessPoolSize:  cfg.Run.HeadlessPoolSize,
		UserAgentSuffix:   cfg.Run.UserAgentSuffix,
		RespectRobots:     cfg.Run.RespectRobots,
	}

	report, err := o.Run(context.Background(), seed, opts)
	if err != nil {
		return fmt.Errorf("running audit: %w", err)
	}

	backend, err := newStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("building store: %w", err)
	}
	if err := backend.Save(context.Background(), report); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
