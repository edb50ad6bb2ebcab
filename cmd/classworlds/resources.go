package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResourcesCmd(a *app) *cobra.Command {
	var realmID string
	cmd := &cobra.Command{
		Use:   "resources NAME",
		Short: "List every resource with the given name visible from a realm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.realm(realmID)
			if err != nil {
				return err
			}
			seq, err := r.GetResources(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for found := range seq {
				fmt.Fprintln(out, found.Location)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&realmID, "realm", "r", "", "realm id (default: the main realm)")
	return cmd
}
