// Package taskfile reads and writes the tasks.md line format:
//
//	- [ ] <description> | type: one-off
//	- [ ] <description> | type: recurring | freq: <freq> | last: <YYYY-MM-DD HH:MM|never>
//
// Writing a task list produces exactly one line per task. Anything else a person adds
// by hand (headings, frontmatter such as updated:, checked "- [x]" items) is not a task
// and does not survive the next rewrite.
package taskfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"taskboard/internal/models"
)

// TimeLayout is the canonical format of the last: field.
const TimeLayout = "2006-01-02 15:04"

// Never marks a recurring task that has not been completed yet.
const Never = "never"

var (
	lineRegex = regexp.MustCompile(`^-\s+\[ \]\s+(.+)$`)
	metaRegex = regexp.MustCompile(`^(\w+):\s*(.+)$`)

	// Accepted on read; always written back as TimeLayout.
	readLayouts = []string{
		TimeLayout,
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
	}
)

// ErrNotTask is returned by ParseLine for lines that are not task items at all.
var ErrNotTask = errors.New("not a task line")

// Parser converts task file text into tasks.
type Parser struct {
	// Location is used for timestamps without a zone. Defaults to time.Local.
	Location *time.Location
	// OnSkip, when set, is called for every non-blank line that was not a valid task.
	OnSkip func(lineNo int, line string, reason error)
}

// Parse reads tasks from r with the default parser.
func Parse(r io.Reader) ([]models.Task, error) {
	return Parser{}.Parse(r)
}

// Parse reads tasks from r. Malformed lines are skipped; only read errors are returned.
// Lines have no length limit.
func (p Parser) Parse(r io.Reader) ([]models.Task, error) {
	reader := bufio.NewReader(r)

	tasks := make([]models.Task, 0)
	lineNo := 0
	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("failed to read task file: %w", readErr)
		}
		if raw == "" && readErr == io.EOF {
			break
		}
		lineNo++

		if line := strings.TrimSpace(raw); line != "" {
			task, err := p.ParseLine(line)
			if err != nil {
				if p.OnSkip != nil {
					p.OnSkip(lineNo, line, err)
				}
			} else {
				tasks = append(tasks, task)
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	return tasks, nil
}

// ParseLine parses a single task line.
func (p Parser) ParseLine(line string) (models.Task, error) {
	matches := lineRegex.FindStringSubmatch(strings.TrimSpace(line))
	if matches == nil {
		return models.Task{}, ErrNotTask
	}

	parts := strings.Split(matches[1], "|")
	description := strings.TrimSpace(parts[0])
	if description == "" {
		return models.Task{}, errors.New("missing description")
	}

	meta := make(map[string]string, len(parts)-1)
	for _, part := range parts[1:] {
		if kv := metaRegex.FindStringSubmatch(strings.TrimSpace(part)); kv != nil {
			meta[strings.ToLower(kv[1])] = strings.TrimSpace(kv[2])
		}
	}

	kind := models.Kind(strings.ToLower(meta["type"]))
	switch kind {
	case "", models.KindOneOff:
		return models.NewOneOff(description), nil
	case models.KindRecurring:
	default:
		return models.Task{}, fmt.Errorf("unknown type %q", meta["type"])
	}

	freq, err := models.ParseFrequency(meta["freq"])
	if err != nil {
		return models.Task{}, err
	}

	last, ok := meta["last"]
	if !ok {
		return models.Task{}, errors.New("recurring task without last")
	}

	task := models.NewRecurring(description, freq)
	if !strings.EqualFold(last, Never) {
		at, err := p.parseTime(last)
		if err != nil {
			return models.Task{}, err
		}
		task.LastCompleted = &at
	}

	return task, nil
}

func (p Parser) parseTime(s string) (time.Time, error) {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range readLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid last timestamp %q", s)
}

// ParseLine parses a single task line with the default parser.
func ParseLine(line string) (models.Task, error) {
	return Parser{}.ParseLine(line)
}
