package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/jsphweid/scoretree/constants"
	"github.com/jsphweid/scoretree/convert"
	"github.com/jsphweid/scoretree/structure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scoretree",
	Short: "Converts MusicXML into a normalized score tree",
	Long: `scoretree reads MusicXML (.musicxml, .xml or compressed .mxl) and builds
a hierarchical score of sections, staves, phrases, voices, chords and notes.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// newLogger follows LOG_LEVEL and LOG_FORMAT.
func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(constants.GetLogLevel())); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if constants.GetLogFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func convertFile(path string) (*structure.Composition, *slog.Logger, error) {
	log := newLogger(os.Stderr)
	c, err := convert.FromFile(path, convert.Options{Logger: log})
	if err != nil {
		return nil, log, err
	}
	log.Info("converted score", "path", path, "title", c.Title, "parts", len(c.Parts))
	return c, log, nil
}
