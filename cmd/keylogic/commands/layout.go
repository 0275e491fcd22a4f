package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trackerlab/keylogic/pkg/keylayout"
)

func newLayoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <dungeon>",
		Short: "Print the key layout trees of a dungeon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dungeon, err := parseDungeon(args[0])
			if err != nil {
				return err
			}
			cat, err := a.engine.Catalog()
			if err != nil {
				return err
			}
			keyDrops := a.engine.Mode.Settings().KeyDropShuffle
			layouts, err := cat.Layouts(dungeon, keyDrops)
			if err != nil {
				return err
			}
			d, err := cat.Dungeon(dungeon)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			st := newStyles(w)
			fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%s: %d small keys (key drops %s)", dungeon, d.TotalKeys(keyDrops), onOff(keyDrops))))
			for _, l := range layouts {
				marker := st.muted.Render("inactive")
				if l.Gate.Met() {
					marker = st.good.Render("active")
				}
				fmt.Fprintf(w, "\n%s [%s]\n", l.Name, marker)
				for _, line := range strings.SplitAfter(keylayout.Render(l.Root), "\n") {
					if line != "" {
						fmt.Fprint(w, "  "+line)
					}
				}
			}
			return nil
		},
	}
}
