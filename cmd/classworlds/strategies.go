package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackb/classworlds/pkg/realm"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List registered lookup strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range realm.StrategyNames() {
				if name == realm.DefaultStrategyName {
					fmt.Fprintf(out, "%s (default)\n", name)
					continue
				}
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
