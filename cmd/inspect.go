package cmd

import (
	"fmt"

	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/timeline"
	"github.com/spf13/cobra"
)

var inspectSlots bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectSlots, "slots", false, "dump the per-staff slot timeline instead of the tree")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score>",
	Short: "Prints the score tree",
	Long:  `Prints the converted score tree, or with --slots the raw slot timeline of every part.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if inspectSlots {
			cobra.CheckErr(dumpSlots(cmd, args[0]))
			return
		}
		c, _, err := convertFile(args[0])
		cobra.CheckErr(err)
		fmt.Fprint(cmd.OutOrStdout(), c.String())
	},
}

func dumpSlots(cmd *cobra.Command, path string) error {
	doc, err := musicxml.ReadFile(path)
	if err != nil {
		return err
	}
	for _, p := range doc.Parts {
		t, err := timeline.Build(p, doc.PartName(p.ID))
		if err != nil {
			return err
		}
		if err := t.Dump(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	return nil
}
