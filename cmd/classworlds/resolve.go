package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stackb/classworlds/pkg/artifact"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		realmID string
		jobs    int
		digest  bool
	)
	cmd := &cobra.Command{
		Use:   "resolve NAME...",
		Short: "Resolve artifact names through a realm",
		Long: `Resolve loads each named artifact through the realm and prints the name
and the location it resolved to.  Names are resolved concurrently; output
keeps argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.realm(realmID)
			if err != nil {
				return err
			}

			results := make([]*artifact.Artifact, len(args))
			digests := make([]string, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			if jobs > 0 {
				g.SetLimit(jobs)
			}
			for i, name := range args {
				g.Go(func() error {
					found, err := r.LoadArtifact(ctx, name)
					if err != nil {
						a.logger.Debug().Err(err).Str("name", name).Msg("unresolved")
						return nil
					}
					results[i] = found
					if digest {
						sum, err := artifact.Digest(found)
						if err != nil {
							return fmt.Errorf("%s: %w", name, err)
						}
						digests[i] = sum
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var missing []string
			out := cmd.OutOrStdout()
			for i, name := range args {
				if results[i] == nil {
					missing = append(missing, name)
					fmt.Fprintf(out, "%s\tNOT FOUND\n", name)
					continue
				}
				if digest {
					fmt.Fprintf(out, "%s\t%s\t%s\n", name, results[i].Location, digests[i])
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", name, results[i].Location)
			}
			if len(missing) > 0 {
				return fmt.Errorf("%d unresolved: %s", len(missing), strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&realmID, "realm", "r", "", "realm id (default: the main realm)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "maximum concurrent lookups (0 means unlimited)")
	cmd.Flags().BoolVar(&digest, "digest", false, "also print the sha256 of each artifact")
	return cmd
}
