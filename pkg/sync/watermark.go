package sync

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Watermark persists the last-successful-pull timestamp to a plain file
// outside the database, so a reinitialized store doesn't re-pull history it
// can't deduplicate against and the watermark survives a database restore.
type Watermark struct {
	path string
}

func NewWatermark(path string) *Watermark {
	return &Watermark{path: path}
}

// Load returns the persisted watermark, or the zero time if none has ever
// been saved.
func (w *Watermark) Load() (time.Time, error) {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, errors.WithStack(err)
	}

	t, err := parseTimestampString(strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, errors.Wrap(err, "corrupt sync watermark")
	}
	return t, nil
}

// Save persists a new watermark.
func (w *Watermark) Save(t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return errors.WithStack(err)
	}
	err := os.WriteFile(w.path, []byte(FormatTimestamp(t)+"\n"), 0o600)
	return errors.WithStack(err)
}
