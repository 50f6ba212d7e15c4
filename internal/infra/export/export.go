// Package export writes history entries as JSON, CSV or YAML.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/focusday/internal/domain"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, csv, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q (json, csv, yaml)", domain.ErrValidation, s)
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return FormatJSON
	}
	if f, err := ParseFormat(path[i+1:]); err == nil {
		return f
	}
	return FormatJSON
}

// ContentType returns the MIME type of f.
func ContentType(f Format) string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	}
	return "application/json"
}

type document struct {
	ExportedAt string         `json:"exported_at" yaml:"exported_at"`
	Summary    domain.Summary `json:"summary" yaml:"summary"`
	Entries    []entry        `json:"entries" yaml:"entries"`
	Count      int            `json:"count" yaml:"count"`
}

type entry struct {
	ID          string `json:"id" yaml:"id"`
	TaskID      string `json:"task_id" yaml:"task_id"`
	Text        string `json:"text" yaml:"text"`
	Date        string `json:"date" yaml:"date"`
	System      string `json:"system" yaml:"system"`
	Group       string `json:"group,omitempty" yaml:"group,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	CompletedAt string `json:"completed_at" yaml:"completed_at"`
	Duration    string `json:"duration" yaml:"duration"`
	DurationSec int    `json:"duration_seconds" yaml:"duration_seconds"`
}

func toEntry(e domain.HistoryEntry) entry {
	return entry{
		ID:          e.ID,
		TaskID:      e.TaskID,
		Text:        e.Text,
		Date:        e.Day(),
		System:      string(e.System),
		Group:       e.GroupTitle,
		Type:        string(e.Type),
		CompletedAt: e.CompletedAt.UTC().Format(time.RFC3339),
		Duration:    formatDuration(e.Duration),
		DurationSec: e.Duration,
	}
}

// Write encodes entries in format f. JSON and YAML carry the summary too.
func Write(w io.Writer, f Format, entries []domain.HistoryEntry, summary domain.Summary, exportedAt time.Time) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, f)
	}

	doc := document{
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Summary:    summary,
		Count:      len(entries),
		Entries:    make([]entry, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, toEntry(e))
	}

	if f == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, entries []domain.HistoryEntry) error {
	cw := csv.NewWriter(w)

	// Header
	if err := cw.Write([]string{"ID", "Task ID", "Text", "Date", "System", "Group", "Type", "Completed At", "Duration (s)", "Duration"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := toEntry(e)
		if err := cw.Write([]string{
			row.ID,
			row.TaskID,
			row.Text,
			row.Date,
			row.System,
			row.Group,
			row.Type,
			row.CompletedAt,
			strconv.Itoa(row.DurationSec),
			row.Duration,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile writes the export to path, choosing the format from its extension
// unless f is set.
func ToFile(path string, f Format, entries []domain.HistoryEntry, summary domain.Summary, exportedAt time.Time) error {
	if f == "" {
		f = FormatFromPath(path)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Write(file, f, entries, summary, exportedAt); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
