package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"oceanqc/adapters/ingest"
	"oceanqc/adapters/report"
	"oceanqc/adapters/yamlconfig"
	"oceanqc/internal"
	"oceanqc/orchestrator"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "oceanqc",
		Short: "Automatic quality control for oceanographic measurement data",
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var configDir string
	var sheet string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "run [input-file]",
		Short: "Run the automatic QC battery over a CSV or XLSX extract",
		Long: `Run loads a tabular sample-row extract, runs the full automatic QC
battery against the configuration registry in --config-dir, and writes a
markdown run summary.

Example: oceanqc run data/cruise_2026.csv --config-dir config --report out/summary.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQc(args[0], configDir, sheet, reportPath)
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "config", "directory containing the per-category YAML configuration files")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for XLSX input (defaults to the first sheet)")
	cmd.Flags().StringVar(&reportPath, "report", "", "path to write the markdown run summary (defaults to stdout)")

	return cmd
}

func runQc(inputPath, configDir, sheet, reportPath string) error {
	frame, err := ingest.NewReader(inputPath, sheet).Read()
	if err != nil {
		return fmt.Errorf("loading %s: %w", inputPath, err)
	}

	registry, err := yamlconfig.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration from %s: %w", configDir, err)
	}

	result, err := orchestrator.New(registry).RunAutomaticQc(frame)
	if err != nil {
		return fmt.Errorf("running QC: %w", err)
	}

	summary := report.Summarize(frame, result.RowsChanged)
	markdown := summary.Markdown()

	if reportPath == "" {
		fmt.Println(markdown)
		return nil
	}
	if err := os.WriteFile(reportPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", reportPath, err)
	}
	internal.DefaultLogger.Info("wrote run summary to %s (%d rows processed, %d changed)", reportPath, result.RowsProcessed, result.RowsChanged)
	return nil
}
