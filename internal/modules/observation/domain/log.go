package domain

import (
	"fmt"
	"strings"
	"time"

	"chronos/internal/platform/slug"
)

const (
	DocumentTitle = "=== Chronos AI 觀課紀錄 ==="
	DateLayout    = "2006/1/2"
	// ByteOrderMark prefixes text exports so spreadsheet tools detect UTF-8.
	ByteOrderMark = "\ufeff"
)

// Line renders "[timestamp] label: value", dropping ": value" when empty.
func (e LogEntry) Line() string {
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s", e.Timestamp, e.Label)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Timestamp, e.Label, e.Value)
}

// Flatten renders a newest-first log oldest-first, one line per entry.
func Flatten(log []LogEntry) string {
	lines := make([]string, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		lines = append(lines, log[i].Line())
	}
	return strings.Join(lines, "\n")
}

// Document is the body of the downloadable text export, without the BOM.
func Document(subject string, date time.Time, elapsedSeconds int, log []LogEntry) string {
	header := fmt.Sprintf("%s\n科目：%s\n日期：%s\n總時長：%s\n\n",
		DocumentTitle, subject, date.Format(DateLayout), FormatDuration(elapsedSeconds))
	return header + Flatten(log)
}

// FormatDuration renders seconds as mm:ss, with an h: prefix once past an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ExportFileName is deterministic in subject and instant.
func ExportFileName(subject string, at time.Time, ext string) string {
	return fmt.Sprintf("Chronos_Report_%s_%d.%s", slug.Filename(subject), at.UnixMilli(), ext)
}
