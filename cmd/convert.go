package cmd

import (
	"strings"

	"github.com/jsphweid/scoretree/db"
	"github.com/jsphweid/scoretree/storage"
	"github.com/jsphweid/scoretree/structure"
	"github.com/spf13/cobra"
)

var (
	convertOut         string
	convertYAML        bool
	convertRecord      bool
	convertFlatten     bool
	convertSplitStaves bool
)

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file (default stdout)")
	convertCmd.Flags().BoolVar(&convertYAML, "yaml", false, "write YAML instead of JSON")
	convertCmd.Flags().BoolVar(&convertRecord, "record", false, "catalogue the score in DynamoDB")
	convertCmd.Flags().BoolVar(&convertFlatten, "flatten", false, "play repeats and endings out into plain sections")
	convertCmd.Flags().BoolVar(&convertSplitStaves, "split-staves", false, "write every staff as a part of its own")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <score>",
	Short: "Converts a MusicXML file to a score tree",
	Long:  `Converts a MusicXML file and writes the score tree as JSON or YAML.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runConvert(cmd, args[0]))
	},
}

func runConvert(cmd *cobra.Command, path string) error {
	c, log, err := convertFile(path)
	if err != nil {
		return err
	}
	if c, err = reshape(c, convertFlatten, convertSplitStaves); err != nil {
		return err
	}

	useYAML := convertYAML || strings.HasSuffix(convertOut, ".yaml") || strings.HasSuffix(convertOut, ".yml")
	switch {
	case convertOut != "" && useYAML:
		err = storage.WriteYAML(convertOut, c)
	case convertOut != "":
		err = storage.WriteJSON(convertOut, c)
	default:
		encode := storage.EncodeJSON
		if useYAML {
			encode = storage.EncodeYAML
		}
		var data []byte
		if data, err = encode(c); err == nil {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		}
	}
	if err != nil {
		return err
	}

	if convertRecord {
		store, err := db.NewStore()
		if err != nil {
			return err
		}
		r := newRecord(path, c)
		if err := store.PutScoreRecord(r); err != nil {
			return err
		}
		log.Info("recorded score", "id", r.ID)
	}
	return nil
}

func reshape(c *structure.Composition, flatten, splitStaves bool) (*structure.Composition, error) {
	var err error
	if flatten {
		if c, err = c.Flatten(); err != nil {
			return nil, err
		}
	}
	if splitStaves {
		if c, err = c.ExtractStavesAsParts(); err != nil {
			return nil, err
		}
	}
	return c, nil
}
