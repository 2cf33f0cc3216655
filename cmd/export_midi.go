package cmd

import (
	"github.com/jsphweid/scoretree/constants"
	"github.com/jsphweid/scoretree/midi"
	"github.com/spf13/cobra"
)

var (
	exportOut   string
	exportTicks uint16
)

func init() {
	exportMidiCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output .mid file")
	exportMidiCmd.Flags().Uint16Var(&exportTicks, "ticks", constants.GetTicksPerQuarter(), "ticks per quarter note")
	cobra.CheckErr(exportMidiCmd.MarkFlagRequired("out"))
	rootCmd.AddCommand(exportMidiCmd)
}

var exportMidiCmd = &cobra.Command{
	Use:   "export-midi <score>",
	Short: "Renders a score as a MIDI file",
	Long:  `Converts a score and renders it as a Standard MIDI File, playing repeats and endings out.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, log, err := convertFile(args[0])
		cobra.CheckErr(err)
		cobra.CheckErr(midi.WriteFile(exportOut, c, exportTicks))

		s, err := midi.ReadFile(exportOut)
		cobra.CheckErr(err)
		notes := midi.Notes(s)
		var length int64
		for _, n := range notes {
			length = max(length, n.End)
		}
		log.Info("wrote midi", "path", exportOut, "notes", len(notes), "seconds", float64(length)/1e6)
	},
}
