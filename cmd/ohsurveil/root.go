package main

import (
	"encoding/json"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ohsurveil/internal/app"
	"ohsurveil/internal/config"
)

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "ohsurveil",
		Short:         "Occupational health surveillance registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")

	withApp := func(cmd *cobra.Command, fn func(*app.App) error) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		return fn(a)
	}

	root.AddCommand(
		recordsCmd(withApp),
		examCmd(withApp),
		companiesCmd(withApp),
		workersCmd(withApp),
		dashboardCmd(withApp),
		reportCmd(withApp),
		exportCmd(withApp),
		attachCmd(withApp),
		insightsCmd(withApp),
		loginCmd(),
	)
	return root
}

type appRunner func(cmd *cobra.Command, fn func(*app.App) error) error

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
