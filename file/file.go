package file

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileNumToScorePath numbers the scores of a batch run.
type FileNumToScorePath = map[uint32]string

func CreateFileNumMap(paths []string) FileNumToScorePath {
	res := make(FileNumToScorePath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// OutputName is the file a batch writes for score num, e.g. 000042-minuet.json.
func OutputName(num uint32, source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return fmt.Sprintf("%06d-%s%s", num, base, ext)
}
