package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackerlab/keylogic/pkg/keylayout"
)

func newSweepCmd(a *app) *cobra.Command {
	var oracleURI string
	cmd := &cobra.Command{
		Use:   "sweep <dungeon>",
		Short: "Check every key count and big key state of a dungeon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dungeon, err := parseDungeon(args[0])
			if err != nil {
				return err
			}
			o, err := loadOracle(cmd.Context(), oracleURI)
			if err != nil {
				return err
			}
			results, err := a.engine.Sweep(cmd.Context(), dungeon, keylayout.StaticSource(o))
			if err != nil {
				return err
			}
			sel, err := a.engine.Select(dungeon)
			if err != nil {
				return err
			}
			mode := a.engine.Mode.Settings()

			w := cmd.OutOrStdout()
			st := newStyles(w)
			fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%s: %d small keys (key drops %s, sequence breaks %s)",
				dungeon, sel.TotalKeys, onOff(mode.KeyDropShuffle), onOff(mode.SequenceBreaks))))
			fmt.Fprintln(w)
			fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("%4s  %-7s  %s", "keys", "big key", "result")))

			valid := 0
			for _, r := range results {
				result := "-"
				if r.Valid {
					valid++
					result = st.good.Render("valid")
				}
				fmt.Fprintf(w, "%4d  %-7s  %s\n", r.State.KeysCollected, yesNo(r.State.BigKeyCollected), result)
			}
			fmt.Fprintf(w, "\n%d of %d states valid\n", valid, len(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&oracleURI, "oracle", "", "Oracle file (path or s3://bucket/key); default: everything accessible")
	return cmd
}
