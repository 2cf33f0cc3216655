package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/scoretree/constants"
	"github.com/jsphweid/scoretree/convert"
	"github.com/jsphweid/scoretree/file"
	"github.com/jsphweid/scoretree/midi"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/storage"
	"github.com/jsphweid/scoretree/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const batchIndexName = "files.json"

var batchMidi bool

func init() {
	batchCmd.Flags().BoolVar(&batchMidi, "midi", false, "also render every score as MIDI")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir> [max]",
	Short: "Converts every score under a directory",
	Long: `Converts every MusicXML file under dir (at most max when given) into the
output directory (OUTPUT_PATH), numbering the results. Scores that fail are
logged and skipped.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			cobra.CheckErr(err)
			maxNum = n
		}
		cobra.CheckErr(runBatch(args[0], maxNum))
	},
}

type batchEntry struct {
	Source string `json:"source"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func runBatch(dir string, maxNum int) error {
	log := newLogger(os.Stderr)
	out, err := util.RecreateOutputDir()
	if err != nil {
		return err
	}
	paths, err := util.GatherAllScorePaths(dir, maxNum)
	if err != nil {
		return err
	}
	fileNumMap := file.CreateFileNumMap(paths)

	index := make(map[uint32]batchEntry, len(fileNumMap))
	var failed int
	for _, num := range util.SortedKeys(fileNumMap) {
		path := fileNumMap[num]
		entry := batchEntry{Source: path}
		c, err := convert.FromFile(path, convert.Options{Logger: log.With("file", num)})
		if err == nil {
			entry.Output = file.OutputName(num, path, ".json")
			err = storage.WriteJSON(filepath.Join(out, entry.Output), c)
		}
		if err == nil && batchMidi {
			err = midi.WriteFile(filepath.Join(out, file.OutputName(num, path, ".mid")), c, constants.GetTicksPerQuarter())
		}
		if err != nil {
			failed++
			entry.Output = ""
			entry.Error = err.Error()
			if kind := scoreerr.KindOf(err); kind != 0 {
				entry.Kind = kind.String()
			}
			log.Warn("could not convert score", "path", path, "kind", entry.Kind, "err", err)
		}
		index[num] = entry
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding batch index")
	}
	if err := os.WriteFile(filepath.Join(out, batchIndexName), data, 0o644); err != nil {
		return errors.Wrap(err, "writing batch index")
	}
	log.Info("batch done", "scores", len(paths), "failed", failed, "out", out)
	return nil
}
