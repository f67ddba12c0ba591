// package formatter renders charts and run reports to CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/timewarpfm/timewarp/internal/models"
	"github.com/timewarpfm/timewarp/internal/pipeline"
)

// ChartToCSV converts chart entries to CSV with columns: Rank, Title, Artist
func ChartToCSV(entries []models.ChartEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "Title", "Artist"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{strconv.Itoa(entry.Rank), entry.Title, entry.Artist}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ChartToMarkdown converts chart entries to a Markdown table
func ChartToMarkdown(entries []models.ChartEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString("| Rank | Title | Artist |\n")
	buf.WriteString("| ---: | --- | --- |\n")
	for _, entry := range entries {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s |\n", entry.Rank, entry.Title, entry.Artist))
	}

	return buf.Bytes()
}

// ChartToText converts chart entries to a plain numbered listing
func ChartToText(entries []models.ChartEntry) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", entry.Rank, entry.Artist, entry.Title))
	}

	return buf.Bytes()
}

// ReportToMarkdown converts a run result to a Markdown report
func ReportToMarkdown(result *pipeline.RunResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", pipeline.PlaylistName(result.Date)))
	buf.WriteString(fmt.Sprintf("**Chart entries**: %d\n", result.TotalEntries))
	buf.WriteString(fmt.Sprintf("**Resolved**: %d (%.1f%%)\n", result.MatchedCount, result.MatchPercentage))
	buf.WriteString(fmt.Sprintf("**Unmatched**: %d\n\n", result.MissedCount))

	if result.Playlist != nil {
		buf.WriteString(fmt.Sprintf("**Playlist**: [%s](%s)\n\n", result.Playlist.Name, result.Playlist.URL))
	}

	buf.WriteString("## Entries\n\n")
	for _, match := range result.Matches {
		mark := "✗"
		if match.Matched {
			mark = "✓"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s - %s\n", match.Entry.Rank, mark, match.Entry.Artist, match.Entry.Title))
	}

	return buf.Bytes()
}

// ReportToText converts a run result to a plain text report
func ReportToText(result *pipeline.RunResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Chart: %s (%d entries)\n", result.Date, result.TotalEntries))
	buf.WriteString(fmt.Sprintf("Resolved: %d (%.1f%%), unmatched: %d\n\n", result.MatchedCount, result.MatchPercentage, result.MissedCount))

	for _, match := range result.Matches {
		if match.Matched {
			buf.WriteString(fmt.Sprintf("%3d. %s - %s [%s]\n", match.Entry.Rank, match.Entry.Artist, match.Entry.Title, match.URI))
		} else {
			buf.WriteString(fmt.Sprintf("%3d. %s - %s [no match]\n", match.Entry.Rank, match.Entry.Artist, match.Entry.Title))
		}
	}

	return buf.Bytes()
}
