package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ohsurveil/internal/adapters/export"
	"ohsurveil/internal/app"
	"ohsurveil/internal/dashboard"
	"ohsurveil/internal/report"
	"ohsurveil/pkg/domain"
)

func dashboardCmd(run appRunner) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the status overview and health trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := dashboard.ParseWindow(days)
			if err != nil {
				return err
			}
			return run(cmd, func(a *app.App) error {
				records := a.Service.ListRecords()
				s := dashboard.Summarize(records)
				trends, err := dashboard.Trends(records, window, a.Now())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Completed: %d  Pending: %d  Fit: %d  Unfit: %d\n", s.Completed, s.Pending, s.Fit, s.Unfit)
				for _, r := range s.PendingRecords {
					fmt.Fprintf(out, "  pending %s %s (%s)\n", r.ID, r.PatientName, orDash(r.CompanyName))
				}
				fmt.Fprintf(out, "\nLast %d days: %d records, %d alerts\n", trends.Window, trends.Records, len(trends.Alerts))
				for _, alert := range trends.Alerts {
					fmt.Fprintf(out, "  ALERT %s: %s\n", alert.Record.PatientName, strings.Join(alert.Reasons, ", "))
				}
				for _, sc := range trends.Symptoms {
					fmt.Fprintf(out, "  %-20s %d\n", sc.Symptom, sc.Count)
				}
				for _, p := range trends.Series {
					fmt.Fprintf(out, "  %s  %5.1f°F  %3d bpm  %s\n", p.Time.Format("2006-01-02 15:04"), p.Temperature, p.HeartRate, p.Patient)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "window", int(dashboard.Month), "trend window in days: 7, 30, 90 or 365")
	return cmd
}

func reportCmd(run appRunner) *cobra.Command {
	var dir, clinicName, doctorName string
	cmd := &cobra.Command{
		Use:   "report <id>",
		Short: "Render the medical surveillance report PDF for a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(a *app.App) error {
				record, err := a.Service.GetRecord(args[0])
				if err != nil {
					return err
				}
				settings := clinicSettings(cmd, a.Clinic, clinicName, doctorName)
				doc, err := report.Render(record, settings, a.Now())
				if err != nil {
					return err
				}
				path := filepath.Join(dir, doc.FileName)
				if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages)\n", path, doc.Pages)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVar(&clinicName, "clinic", "", "clinic name for this report (overrides clinic.name)")
	cmd.Flags().StringVar(&doctorName, "doctor", "", "OHD name for this report (overrides clinic.doctor)")
	return cmd
}

// clinicSettings applies the --clinic and --doctor overrides to base.
func clinicSettings(cmd *cobra.Command, base domain.ClinicSettings, clinicName, doctorName string) domain.ClinicSettings {
	if cmd.Flags().Changed("clinic") {
		base.ClinicName = clinicName
	}
	if cmd.Flags().Changed("doctor") {
		base.DoctorName = doctorName
	}
	return base
}

func exportCmd(run appRunner) *cobra.Command {
	var formatName, out string
	var publish bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the registry as xlsx, csv or json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			return run(cmd, func(a *app.App) error {
				records := a.Service.ListRecords()
				if publish {
					info, err := export.Publish(cmd.Context(), a.Service.Blobs(), format, records, a.Now())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d bytes)\n", info.Key, info.Size)
					return nil
				}
				if out == "" || out == "-" {
					return export.Write(cmd.OutOrStdout(), format, records)
				}
				f, err := os.Create(out) // #nosec G304 -- operator-supplied path
				if err != nil {
					return err
				}
				if err := export.Write(f, format, records); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(records), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&formatName, "format", string(export.FormatXLSX), "xlsx, csv or json")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&publish, "publish", false, "store the export in the attachment store instead")
	return cmd
}

func attachCmd(run appRunner) *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "attach <id> <file>",
		Short: "Attach an external report file to a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1]) // #nosec G304 -- operator-supplied path
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if contentType == "" {
				contentType = mime.TypeByExtension(filepath.Ext(args[1]))
			}
			return run(cmd, func(a *app.App) error {
				record, err := a.Service.AttachReport(cmd.Context(), args[0], filepath.Base(args[1]), contentType, f)
				if err != nil {
					return err
				}
				r := record.ExternalReport
				fmt.Fprintf(cmd.OutOrStdout(), "attached %s to %s on %s\n%s\n", r.FileName, record.ID, r.UploadDate, r.FileURL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "MIME type (guessed from the extension when empty)")
	return cmd
}

func insightsCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Ask the AI model for a registry risk summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app.App) error {
				out := cmd.OutOrStdout()
				if !a.Insights.Run(cmd.Context(), a.Service.ListRecords()) {
					fmt.Fprintln(out, "No analysis available.")
					return nil
				}
				analysis, _ := a.Insights.Analysis()
				fmt.Fprintf(out, "Risk level: %s\n\n%s\n", analysis.RiskLevel, analysis.Summary)
				if len(analysis.Findings) > 0 {
					fmt.Fprintln(out, "\nFindings:")
				}
				for _, f := range analysis.Findings {
					fmt.Fprintf(out, "  [%s] %s: %s\n", orDash(f.ConcernLevel), f.Title, f.Description)
				}
				if len(analysis.Recommendations) > 0 {
					fmt.Fprintln(out, "\nRecommendations:")
				}
				for _, r := range analysis.Recommendations {
					fmt.Fprintf(out, "  - %s\n", r)
				}
				return nil
			})
		},
	}
}
