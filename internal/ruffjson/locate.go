package ruffjson

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// reportPattern matches the report files ruff is conventionally redirected
// into (ruff.json, ruff-output.json, myproject.ruff.json, ...).
const reportPattern = "*ruff*.json"

// ReportNotFoundError reports that no ruff JSON output could be located
// under the searched directory.
type ReportNotFoundError struct {
	Dir string
}

func (e *ReportNotFoundError) Error() string {
	return fmt.Sprintf("no ruff report found in %s", e.Dir)
}

// Locate finds the ruff report under dir: first a non-recursive scan of dir
// itself, then a recursive walk only when the top level has none, to avoid
// crawling large trees unnecessarily. When several candidates match, the
// lexicographically first is selected and the rest are reported in a
// warning.
func Locate(dir string) (string, error) {
	matches, err := doublestar.FilepathGlob(
		filepath.Join(dir, reportPattern),
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	if len(matches) == 0 {
		matches, err = doublestar.FilepathGlob(
			filepath.Join(dir, "**", reportPattern),
			doublestar.WithFilesOnly(),
		)
		if err != nil {
			return "", fmt.Errorf("scan %s: %w", dir, err)
		}
	}

	if len(matches) == 0 {
		return "", &ReportNotFoundError{Dir: dir}
	}

	slices.Sort(matches)
	if len(matches) > 1 {
		logrus.WithFields(logrus.Fields{
			"dir":      dir,
			"selected": matches[0],
		}).Warnf("multiple ruff reports found, using %s", matches[0])
	}
	return matches[0], nil
}
