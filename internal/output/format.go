// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"duelist/internal/task"
)

// Output formats accepted by list --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NoDate is shown in place of a missing due date.
const NoDate = "----------"

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want text, json or yaml)", s)
	}
}

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {DUE}  {TEXT}  ({SHORT-ID})\n"
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s  %s  (%s)\n", num, checkbox(t.Completed), dueColumn(t), normalizeText(t.Text), t.ID.Short())
}

// FormatTasks writes one line per task, numbered from 1.
func FormatTasks(w io.Writer, tasks []task.Task) {
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatSummary writes the counts line shown under a listing.
func FormatSummary(w io.Writer, shown, total, completed int, status task.Status) {
	if status == task.StatusAll {
		fmt.Fprintf(w, "%d tasks, %d completed\n", total, completed)
		return
	}
	fmt.Fprintf(w, "%d of %d tasks (%s)\n", shown, total, status)
}

// Encode writes tasks as a JSON or YAML document.
func Encode(w io.Writer, format string, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported encoding: %s", format)
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dueColumn(t task.Task) string {
	if !t.HasDueDate() {
		return NoDate
	}
	return t.DueDate
}

// normalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	// Replace newlines with spaces
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
