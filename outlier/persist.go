// SPDX-License-Identifier: MIT

package outlier

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/tableio"
)

// Dir is the sub-directory of the work directory receiving excluded tables.
const Dir = "outliers"

// Persist writes one CSV per rejectable group of o under <workDir>/outliers,
// creating the directory when absent. SNe_Hubble.csv holds the held-out
// rows followed by the rejected ones. One summary line per group is logged.
// A nil logger means slog.Default().
func Persist(workDir string, o Outcome, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "outlier"))

	dir := filepath.Join(workDir, Dir)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		logger.Info("creating outlier directory", slog.String("dir", dir))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Persist: %w", err)
	}

	for _, g := range o.Groups {
		t, ok := o.Excluded.Table(g)
		if !ok {
			return fmt.Errorf("Persist: %w: %s", dataset.ErrMissingGroup, g)
		}
		rows := *t
		if g == dataset.SNeHubble && o.OutOfWindow.Schema() != nil {
			var err error
			if rows, err = o.OutOfWindow.Concat(*t); err != nil {
				return fmt.Errorf("Persist %s: %w", g, err)
			}
		}
		path := filepath.Join(dir, g.String()+".csv")
		if err := tableio.WriteCSV(path, rows); err != nil {
			return fmt.Errorf("Persist %s: %w", g, err)
		}
		logger.Info("rows excluded",
			slog.String("group", g.String()),
			slog.Int("count", t.Len()),
			slog.String("file", path))
	}
	return nil
}
