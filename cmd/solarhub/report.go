package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"solarhub/internal/masterdata"
	"solarhub/internal/report"
	"solarhub/internal/storage"
)

var (
	reportInverter int64
	reportDay      string
	reportFormat   string
	reportOut      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a daily production report",
	Long: `Reads the persisted energy measurements of one inverter for a
calendar day and writes a PDF or XLSX report.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportInverter, "inverter", 0, "inverter id (required)")
	reportCmd.Flags().StringVar(&reportDay, "day", "", "report day as YYYY-MM-DD (default yesterday)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "pdf", "output format: pdf or xlsx")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default report-<day>.<format>)")
	reportCmd.MarkFlagRequired("inverter")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	day := time.Now().AddDate(0, 0, -1)
	if reportDay != "" {
		parsed, err := time.Parse("2006-01-02", reportDay)
		if err != nil {
			return fmt.Errorf("parsing --day: %w", err)
		}
		day = parsed
	}
	if reportFormat != "pdf" && reportFormat != "xlsx" {
		return fmt.Errorf("unknown format %q (available: pdf, xlsx)", reportFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	inv, err := masterdata.NewInverterRepository(db).FindByID(ctx, reportInverter)
	if err != nil {
		return fmt.Errorf("resolving inverter %d: %w", reportInverter, err)
	}
	rep, err := report.NewReader(db).DayReport(ctx, reportInverter, inv.SiteName, day)
	if err != nil {
		return err
	}

	var data []byte
	switch reportFormat {
	case "pdf":
		data, err = report.BuildDayPDF(rep)
	case "xlsx":
		data, err = report.BuildDayXLSX(rep)
	}
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	out := reportOut
	if out == "" {
		out = fmt.Sprintf("report-%s.%s", day.Format("2006-01-02"), reportFormat)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("wrote %s (%d samples)\n", out, len(rep.Samples))
	return nil
}
