package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stackb/classworlds/pkg/collections"
	"github.com/stackb/classworlds/pkg/realm"
)

func newDescribeCmd(a *app) *cobra.Command {
	var (
		realmID string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe a realm and its parents",
		Long: `Describe prints a realm, its strategy, sources and imports, followed by
each realm of its parent chain.  Without --realm the main realm is described,
or every realm when the descriptor names none.  The tree format prints the
parent/child hierarchy instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if format == "tree" {
				return writeTree(cmd.OutOrStdout(), a, realmID)
			}
			var descriptions []*realm.Description
			switch {
			case realmID != "":
				r, err := a.world.GetRealm(realmID)
				if err != nil {
					return err
				}
				descriptions = append(descriptions, r.Describe())
			case a.main != nil:
				descriptions = append(descriptions, a.main.Describe())
			default:
				for _, r := range a.world.Realms() {
					descriptions = append(descriptions, r.Describe())
				}
			}
			return writeDescriptions(cmd.OutOrStdout(), format, descriptions)
		},
	}
	cmd.Flags().StringVarP(&realmID, "realm", "r", "", "realm id")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml, tree)")
	return cmd
}

func writeDescriptions(w io.Writer, format string, descriptions []*realm.Description) error {
	switch format {
	case "text":
		for _, d := range descriptions {
			if err := d.Write(w); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(descriptions)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(descriptions)
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml or tree)", format)
	}
}

// writeTree prints the parent/child hierarchy of the world, or of the realm
// named id and its descendants.
func writeTree(w io.Writer, a *app, id string) error {
	realms := a.world.Realms()
	inWorld := make(map[*realm.Realm]bool, len(realms))
	for _, r := range realms {
		inWorld[r] = true
	}

	var roots []*realm.Realm
	children := make(map[*realm.Realm][]*realm.Realm)
	for _, r := range realms {
		if p := r.ParentRealm(); p != nil && inWorld[p] && p != r {
			children[p] = append(children[p], r)
			continue
		}
		roots = append(roots, r)
	}
	if id != "" {
		r, err := a.world.GetRealm(id)
		if err != nil {
			return err
		}
		roots = []*realm.Realm{r}
	}

	tree := &collections.Tree{}
	seen := make(map[*realm.Realm]bool)
	var add func(node *collections.Tree, r *realm.Realm)
	add = func(node *collections.Tree, r *realm.Realm) {
		if seen[r] {
			return
		}
		seen[r] = true
		child := node.Add(fmt.Sprintf("%s [%s]", r.ID(), r.StrategyName()))
		for _, c := range children[r] {
			add(child, c)
		}
	}
	for _, r := range roots {
		add(tree, r)
	}
	return tree.Fprint(w)
}
