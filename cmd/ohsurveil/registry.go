package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ohsurveil/internal/app"
	"ohsurveil/pkg/domain"
)

func companiesCmd(run appRunner) *cobra.Command {
	cmd := &cobra.Command{Use: "companies", Short: "Manage employer companies"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List companies in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app.App) error {
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tSSM\tCONTACT\tWORKERS")
				for _, c := range a.Service.ListCompanies() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Name, orDash(c.SSMNumber), orDash(c.ContactNumber), c.WorkerCount)
				}
				return tw.Flush()
			})
		},
	})

	var c domain.Company
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app.App) error {
				created, _, err := a.Service.AddCompany(cmd.Context(), c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added company %s %s\n", created.ID, created.Name)
				return nil
			})
		},
	}
	add.Flags().StringVar(&c.Name, "name", "", "company name")
	add.Flags().StringVar(&c.SSMNumber, "ssm", "", "SSM registration number")
	add.Flags().StringVar(&c.ContactNumber, "contact", "", "contact number")
	add.Flags().StringVar(&c.Address, "address", "", "address")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(add)
	return cmd
}

func workersCmd(run appRunner) *cobra.Command {
	cmd := &cobra.Command{Use: "workers", Short: "Manage registered workers"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workers by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app.App) error {
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tJOB\tHAZARDS")
				for _, w := range a.Service.ListWorkers() {
					hazards := make([]string, 0, len(w.Hazards))
					for _, h := range w.Hazards {
						hazards = append(hazards, string(h))
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", w.ID, w.Name, w.CompanyName, orDash(w.JobRole), orDash(strings.Join(hazards, ", ")))
				}
				return tw.Flush()
			})
		},
	})

	var (
		w         domain.Worker
		hazards   []string
		ethnicity string
		marital   string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a worker against a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w.Ethnicity = domain.Ethnicity(ethnicity)
			w.MaritalStatus = domain.MaritalStatus(marital)
			for _, h := range hazards {
				w.Hazards = append(w.Hazards, domain.Hazard(h))
			}
			return run(cmd, func(a *app.App) error {
				created, _, err := a.Service.AddWorker(cmd.Context(), w)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added worker %s %s (%s)\n", created.ID, created.Name, created.CompanyName)
				return nil
			})
		},
	}
	fl := add.Flags()
	fl.StringVar(&w.Name, "name", "", "worker name")
	fl.StringVar(&w.CompanyID, "company", "", "company id")
	fl.IntVar(&w.Age, "age", 0, "age in years")
	fl.StringVar(&w.Gender, "gender", "Male", "Male or Female")
	fl.StringVar(&w.ICPassport, "ic", "", "NRIC or passport number")
	fl.StringVar(&w.Address, "address", "", "home address")
	fl.StringVar(&w.JobRole, "job", "", "job role")
	fl.BoolVar(&w.IsMalaysian, "malaysian", true, "Malaysian citizen")
	fl.IntVar(&w.NoOfChildren, "children", 0, "number of children")
	fl.StringVar(&ethnicity, "ethnicity", string(domain.EthnicityMalay), "Malay, Indian, Chinese or Others")
	fl.StringVar(&w.EthnicityOthers, "ethnicity-other", "", "ethnicity when Others")
	fl.StringVar(&marital, "marital", string(domain.MaritalSingle), "Single, Married, Divorced or Widowed")
	fl.StringSliceVar(&hazards, "hazard", nil, "workplace hazard (repeatable)")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("company")

	cmd.AddCommand(add)
	return cmd
}
