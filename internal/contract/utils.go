package contract

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DayFormat is the calendar-day representation used by filters and buckets.
const DayFormat = "2006-01-02"

var (
	FixColor    = color.New(color.FgRed, color.Bold) // FixColor marks fix commits in table output.
	AccentColor = color.New(color.FgCyan)            // AccentColor highlights summary figures.
)

// FixLabel renders the fix marker for table output.
func FixLabel(isFix bool) string {
	if isFix {
		return FixColor.Sprint("FIX")
	}
	return ""
}

// ParseDay validates a calendar-day string and returns its canonical form.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(DayFormat, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.Format(DayFormat), nil
}

// SplitList splits a comma-separated flag value into trimmed, non-empty items.
func SplitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

// TruncatePath shortens a file path for table display, keeping the most
// specific trailing segments.
func TruncatePath(path string, maxLen int) string {
	if maxLen <= 0 || len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s\n", msg)
}
