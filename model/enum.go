package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// enumName and enumValue back the string forms of the modification kinds.
func enumName(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func enumValue(names []string, s string, kind string) (int, error) {
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, errors.Errorf("unknown %s %q", kind, s)
}
