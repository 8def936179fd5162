// Package cmd wires cobra's flag parsing to internal/config's layered
// loader and internal/orchestrator's audit engine, following the
// teacher's root.go shape: a persistent --config-file flag, an
// InitConfig-style loader called from each subcommand, and an
// Execute entry point cmd/seoaudit's main calls once.
package cmd

import (
	"fmt"
	"os"

	"github.com/seoaudit/engine/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd carries only the flags shared by every subcommand; run and
// serve each add their own.
var rootCmd = &cobra.Command{
	Use:   "seoaudit",
	Short: "An automated technical SEO audit engine.",
	Long: `seoaudit crawls a site and scores it against a fixed catalog of
technical SEO factors, producing a structured audit report instead of
a human-written one.

It can run as a one-shot CLI command (seoaudit run) or serve the same
audit contract over HTTP (seoaudit serve).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g. ./seoaudit.yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute is cmd/seoaudit's single entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers config file, environment, and cmd's own flags in
// that precedence (spec §1.1). flagBindings maps a flag name to the
// dotted config key it overrides — explicit, rather than a blanket
// BindPFlags, since a flat flag like --max-pages has no automatic
// correspondence to a nested key like run.max_pages.
func loadConfig(cmd *cobra.Command, flagBindings map[string]string) (*config.Config, error) {
	v, err := config.LoadViper(cfgFile)
	if err != nil {
		return nil, err
	}
	for flagName, configKey := range flagBindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(configKey, flag); err != nil {
			return nil, fmt.Errorf("binding flag %s to %s: %w", flagName, configKey, err)
		}
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
