// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"csvw/internal/engine"
	"csvw/internal/fetch"
	"csvw/internal/logging"
	"csvw/internal/schema"
)

type runConfig struct {
	DegreeOfParallelism int    `toml:"degree_of_parallelism"`
	RowGrouping         int    `toml:"row_grouping"`
	CacheDir            string `toml:"cache_dir"`
}

type validateFlags struct {
	logLevel    string
	configPath  string
	degreeOfPar int
	rowGrouping int
	outFile     string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "csvwvalidate",
		Short: "CSV on the Web metadata-driven validator",
	}

	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	flags := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate <metadata.json>",
		Short: "Validate the CSV resources described by a CSV-W metadata document",
		Long: `Validate reads a CSV-W table-group metadata document, fetches
the CSV resources it describes, and checks every row against its declared
schema: datatypes, length and range restrictions, primary-key uniqueness,
and cross-table foreign-key integrity.

Examples:
  csvwvalidate validate metadata.json
  csvwvalidate validate metadata.json --log-level DEBUG
  csvwvalidate validate metadata.json --config run.toml -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.logLevel, "log-level", logging.LevelInfo, "OFF, ERROR, WARN, INFO, DEBUG, or TRACE")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Optional TOML run-configuration file")
	cmd.Flags().IntVar(&flags.degreeOfPar, "degree-of-parallelism", 0, "Worker count per table (0: use config/default)")
	cmd.Flags().IntVar(&flags.rowGrouping, "row-grouping", 0, "Rows per batch dispatched to a worker (0: use config/default)")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Write the JSON report here instead of stdout")

	return cmd
}

func runValidate(metadataPath string, flags *validateFlags) error {
	logger, err := logging.New(flags.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadRunConfig(flags)
	if err != nil {
		return err
	}

	metadataBytes, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("failed to read metadata document: %w", err)
	}

	engineCfg := engine.Config{
		DegreeOfParallelism: cfg.DegreeOfParallelism,
		RowGrouping:         cfg.RowGrouping,
		Logger:              logger,
	}
	if cfg.CacheDir != "" {
		f := fetch.NewDefaultFetcher()
		f.CacheDir = cfg.CacheDir
		engineCfg.Fetcher = f
	}

	report, err := engine.Run(context.Background(), metadataBytes, engineCfg)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := writeReport(report, flags.outFile); err != nil {
		return err
	}

	if report.HasErrors() {
		os.Exit(1)
	}
	return nil
}

// loadRunConfig layers --config over the built-in defaults, then
// individually-set CLI flags over that — matching the precedence a
// migration-tool operator expects from an optional config file.
func loadRunConfig(flags *validateFlags) (runConfig, error) {
	cfg := runConfig{}

	if flags.configPath != "" {
		if _, err := toml.DecodeFile(flags.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read run config: %w", err)
		}
	}

	if flags.degreeOfPar > 0 {
		cfg.DegreeOfParallelism = flags.degreeOfPar
	}
	if flags.rowGrouping > 0 {
		cfg.RowGrouping = flags.rowGrouping
	}

	return cfg, nil
}

func writeReport(report schema.WarningsAndErrors, outFile string) error {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	body = append(body, '\n')

	if outFile == "" {
		_, err := os.Stdout.Write(body)
		return err
	}
	if err := os.WriteFile(outFile, body, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("report saved to %s\n", outFile)
	return nil
}
