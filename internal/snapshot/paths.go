// Package snapshot derives snapshot paths and writes full-tree copies
// of the watched folder into backup locations.
package snapshot

import (
	"path/filepath"
	"time"
)

// MonthlyDir is the subtree under a backup location holding the
// one-per-month snapshots. It is exempt from retention pruning.
const MonthlyDir = "monthly"

const (
	dayFormat   = "2006-01-02" // YYYY-MM-DD
	hourFormat  = "15"         // HH, zero-padded 00-23
	monthFormat = "2006-01"    // YYYY-MM
)

// DailyPath returns <root>/<YYYY-MM-DD>/<HH> for ts.
func DailyPath(root string, ts time.Time) string {
	return filepath.Join(root, ts.Format(dayFormat), ts.Format(hourFormat))
}

// MonthPath returns <root>/monthly/<YYYY-MM> for ts.
func MonthPath(root string, ts time.Time) string {
	return filepath.Join(root, MonthlyDir, ts.Format(monthFormat))
}

// ParseDailyDate reports the date encoded in a daily folder name, or
// ok=false for names that are not YYYY-MM-DD (including "monthly").
func ParseDailyDate(name string) (time.Time, bool) {
	t, err := time.Parse(dayFormat, name)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
