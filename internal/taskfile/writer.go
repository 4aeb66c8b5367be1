package taskfile

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/models"
)

// FormatLine renders a task as a single line without the trailing newline.
func FormatLine(task models.Task) string {
	var b strings.Builder
	b.WriteString("- [ ] ")
	b.WriteString(strings.TrimSpace(task.Description))

	if !task.IsRecurring() {
		b.WriteString(" | type: one-off")
		return b.String()
	}

	last := Never
	if task.LastCompleted != nil {
		last = task.LastCompleted.Format(TimeLayout)
	}
	fmt.Fprintf(&b, " | type: recurring | freq: %s | last: %s", task.Frequency, last)
	return b.String()
}

// Write writes one line per task, in order, each terminated by a newline.
func Write(w io.Writer, tasks []models.Task) error {
	for _, task := range tasks {
		if _, err := io.WriteString(w, FormatLine(task)+"\n"); err != nil {
			return fmt.Errorf("failed to write task %q: %w", task.Description, err)
		}
	}
	return nil
}

// Format returns the file content for tasks.
func Format(tasks []models.Task) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail
	_ = Write(&buf, tasks)
	return buf.Bytes()
}
