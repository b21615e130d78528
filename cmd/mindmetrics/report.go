package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/mindmetrics/internal/analysis"
	"github.com/fyrsmithlabs/mindmetrics/internal/render"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze logged entries and print the report",
	Long: `Run the analysis pipeline over all logged entries and print the report:
baseline, trend, tag patterns, anomalies, and recommendations.

Examples:
  # Styled console report
  mindmetrics report

  # Machine-readable output
  mindmetrics report --json`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "emit the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List()
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	report := analysis.New(cfg.Analysis, logger).Run(entries)

	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(render.Report(report, entries))
	return nil
}
