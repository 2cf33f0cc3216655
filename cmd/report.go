package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/structure"
	"github.com/jsphweid/scoretree/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <score>",
	Short: "Creates a report",
	Long:  `Converts a score and reports what each part contains.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, _, err := convertFile(args[0])
		cobra.CheckErr(err)
		cobra.CheckErr(report(cmd.OutOrStdout(), c))
	},
}

func report(w io.Writer, c *structure.Composition) error {
	var b strings.Builder
	fmt.Fprintf(&b, "title: %s\n", c.Title)
	if len(c.Composers) > 0 {
		fmt.Fprintf(&b, "composers: %s\n", strings.Join(c.Composers, ", "))
	}
	fmt.Fprintf(&b, "key: %v\ntime: %v\ntempo: %v\n", c.StartingKey, c.StartingTimeSignature, c.Tempo)

	quarter := model.NewDuration(model.Quarter, 0)
	var notes, rests, chords []int
	for _, p := range c.Parts {
		s := p.Stats()
		beats, err := p.Beats(quarter)
		if err != nil {
			return err
		}
		length, err := p.Duration(c.Tempo)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "part %q: %d sections, %d staves, %d phrases, %d multivoices, %d chords, %d notes, %d rests, %g beats, %v\n",
			p.Name, s.Sections, s.Staves, s.Phrases, s.MultiVoices, s.Chords, s.Notes, s.Rests, beats, length)
		notes = append(notes, s.Notes)
		rests = append(rests, s.Rests)
		chords = append(chords, s.Chords)
	}
	length, err := c.Duration()
	if err != nil {
		return err
	}
	fmt.Fprintf(&b, "total: %d parts, %d notes, %d rests, %d chords, %v\n",
		len(c.Parts), util.Sum(notes), util.Sum(rests), util.Sum(chords), length)

	_, err = io.WriteString(w, b.String())
	return err
}
