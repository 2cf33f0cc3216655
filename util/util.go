package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/scoretree/constants"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

var scoreExtensions = []string{".musicxml", ".xml", ".mxl"}

// RecreateOutputDir empties the output directory, creating it if needed.
func RecreateOutputDir() (string, error) {
	dir := constants.GetOutputDir()
	if err := os.RemoveAll(dir); err != nil {
		return "", errors.Wrap(err, "could not clear output dir")
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", errors.Wrap(err, "could not create output dir")
	}
	return dir, nil
}

// IsScorePath reports whether path looks like a MusicXML file.
func IsScorePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(scoreExtensions, ext)
}

// GatherAllScorePaths walks path and returns up to maxNum MusicXML files,
// or all of them when maxNum is 0.
func GatherAllScorePaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", s)
		}
		if !d.IsDir() && IsScorePath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	slices.Sort(keys)
	return keys
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
