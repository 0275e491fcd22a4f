package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trackerlab/keylogic/pkg/keylayout"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		oracleURI string
		probe     keylayout.DungeonState
	)
	cmd := &cobra.Command{
		Use:   "check <dungeon>",
		Short: "Check one dungeon state against the key layouts",
		Long: `Check whether a dungeon state is consistent with the dungeon's key layouts.

Location accessibility comes from an oracle file:

  default: None
  locations:
    EPBigKeyChest: Normal

Example:
  keylogic check EasternPalace --oracle oracle.yaml --big-key`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dungeon, err := parseDungeon(args[0])
			if err != nil {
				return err
			}
			if probe.KeysCollected < 0 {
				return fmt.Errorf("--keys must not be negative, got %d", probe.KeysCollected)
			}
			o, err := loadOracle(cmd.Context(), oracleURI)
			if err != nil {
				return err
			}
			probe.SequenceBreakAllowed = a.engine.Mode.Settings().SequenceBreaks

			matching, err := a.engine.Check(cmd.Context(), dungeon, o, probe)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			st := newStyles(w)
			if len(matching) == 0 {
				fmt.Fprintf(w, "%s %s: %s\n", dungeon, probe, st.bad.Render("invalid"))
				return errInvalid
			}
			fmt.Fprintf(w, "%s %s: %s (%s)\n", dungeon, probe, st.good.Render("valid"), strings.Join(matching, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&oracleURI, "oracle", "", "Oracle file (path or s3://bucket/key); default: everything accessible")
	cmd.Flags().IntVar(&probe.KeysCollected, "keys", 0, "Small keys collected")
	cmd.Flags().BoolVar(&probe.BigKeyCollected, "big-key", false, "Big key collected")
	return cmd
}
