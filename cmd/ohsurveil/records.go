package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohsurveil/internal/app"
	"ohsurveil/pkg/domain"
)

func recordsCmd(run appRunner) *cobra.Command {
	cmd := &cobra.Command{Use: "records", Short: "List and inspect examination records"}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app.App) error {
				records := a.Service.ListRecords()
				if search != "" {
					records = a.Service.SearchRecords(search)
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tVISIT DATE\tPATIENT\tCOMPANY\tSTATUS\tREPORT")
				for _, r := range records {
					report := "-"
					if r.ExternalReport != nil {
						report = r.ExternalReport.FileName
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.VisitDate, r.PatientName, orDash(r.CompanyName), status(r), report)
				}
				return tw.Flush()
			})
		},
	}
	list.Flags().StringVar(&search, "search", "", "filter by patient or company name")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(a *app.App) error {
				record, err := a.Service.GetRecord(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), record)
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func status(r domain.PatientRecord) string {
	if !r.Completed() {
		return "Pending"
	}
	return string(*r.Outcome)
}
