package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohsurveil/internal/session"
)

func loginCmd() *cobra.Command {
	var email, roleName string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and show the navigation available to a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := session.ParseRole(roleName)
			if err != nil {
				return err
			}
			user, err := session.Login(email, role)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s (%s)\n", user.Name, user.Role)
			for _, item := range session.Navigation(user.Role) {
				fmt.Fprintf(out, "  %s\n", item.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&roleName, "role", "Admin", "Admin, Clinician or Company HR")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
