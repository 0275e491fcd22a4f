package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trackerlab/keylogic/pkg/access"
	"github.com/trackerlab/keylogic/pkg/graph"
	"github.com/trackerlab/keylogic/pkg/ids"
)

func newNodesCmd(a *app) *cobra.Command {
	var (
		all       bool
		entrances []string
	)
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Print node accessibility for the current items and mode",
		Long: `Print the accessibility of every world node.

Example:
  keylogic nodes --item glove=1,lamp=1 --world-state inverted
  keylogic nodes --entrance-shuffle all --entrance TurtleRockLedge:all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range entrances {
				node, tier, err := parseEntrance(spec)
				if err != nil {
					return err
				}
				if err := a.engine.AddEntrance(node, tier); err != nil {
					return err
				}
			}

			snap, err := a.engine.Snapshot()
			if err != nil {
				return err
			}
			nodes := make([]ids.NodeID, 0, len(snap))
			for id, l := range snap {
				if all || l > access.None {
					nodes = append(nodes, id)
				}
			}
			slices.Sort(nodes)

			w := cmd.OutOrStdout()
			st := newStyles(w)
			for _, id := range nodes {
				l := snap[id]
				fmt.Fprintf(w, "%-28s %s\n", id, st.level[l].Render(l.String()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include inaccessible nodes")
	cmd.Flags().StringSliceVar(&entrances, "entrance", nil, "Open alternate entrances, as Node:tier (tier: all, dungeon, insanity)")
	return cmd
}

func parseEntrance(spec string) (ids.NodeID, graph.Tier, error) {
	name, tierName, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("entrance %q: want Node:tier", spec)
	}
	node, err := ids.ParseNode(name)
	if err != nil {
		return 0, 0, err
	}
	tier, err := graph.ParseTier(tierName)
	if err != nil {
		return 0, 0, err
	}
	return node, tier, nil
}
