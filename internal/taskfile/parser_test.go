package taskfile

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"taskboard/internal/models"
)

const mixedFile = `- [ ] Build thing | type: one-off
- [ ] Commit KB | type: recurring | freq: daily | last: never
- [ ] Fix bug | type: one-off
`

func TestParse_MixedFile(t *testing.T) {
	tasks, err := Parse(strings.NewReader(mixedFile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	expected := []struct {
		description string
		kind        models.Kind
	}{
		{"Build thing", models.KindOneOff},
		{"Commit KB", models.KindRecurring},
		{"Fix bug", models.KindOneOff},
	}
	for i, want := range expected {
		if tasks[i].Description != want.description {
			t.Errorf("task %d: expected description %q, got %q", i, want.description, tasks[i].Description)
		}
		if tasks[i].Kind != want.kind {
			t.Errorf("task %d: expected kind %q, got %q", i, want.kind, tasks[i].Kind)
		}
	}

	if tasks[1].Frequency != models.FrequencyDaily {
		t.Errorf("expected daily frequency, got %q", tasks[1].Frequency)
	}
	if tasks[1].LastCompleted != nil {
		t.Errorf("expected never-completed task, got %v", tasks[1].LastCompleted)
	}
}

func TestParse_Empty(t *testing.T) {
	tasks, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil list, got %v", tasks)
	}
}

func TestParse_LongLines(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	content := "- [ ] short | type: one-off\n- [ ] " + long + " | type: one-off\n- [ ] after | type: one-off"

	tasks, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[1].Description != long {
		t.Errorf("expected long description of %d bytes, got %d", len(long), len(tasks[1].Description))
	}
	if tasks[2].Description != "after" {
		t.Errorf("expected last line without newline to parse, got %q", tasks[2].Description)
	}
}

func TestParse_CRLF(t *testing.T) {
	tasks, err := Parse(strings.NewReader("- [ ] Build thing | type: one-off\r\n- [ ] Fix bug | type: one-off\r\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Description != "Fix bug" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestParse_ReadError(t *testing.T) {
	broken := io.MultiReader(strings.NewReader("- [ ] Build thing | type: one-off\n"), iotest.ErrReader(errors.New("disk gone")))

	if _, err := Parse(broken); err == nil {
		t.Fatal("expected read error")
	}
}

func TestParse_LastTimestamp(t *testing.T) {
	p := Parser{Location: time.UTC}
	tasks, err := p.Parse(strings.NewReader("- [ ] Commit KB | type: recurring | freq: 12h | last: 2026-02-19 10:07\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	want := time.Date(2026, 2, 19, 10, 7, 0, 0, time.UTC)
	if tasks[0].LastCompleted == nil || !tasks[0].LastCompleted.Equal(want) {
		t.Errorf("expected last completed %v, got %v", want, tasks[0].LastCompleted)
	}
	if tasks[0].Frequency != models.FrequencyTwelveHours {
		t.Errorf("expected 12h frequency, got %q", tasks[0].Frequency)
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	content := strings.Join([]string{
		"---",
		"title: Tasks",
		"---",
		"## Tasks",
		"- [ ] Good one | type: one-off",
		"- [x] Checked off | type: one-off",
		"- [ ]  | type: one-off",
		"- [ ] Bad type | type: someday",
		"- [ ] Bad freq | type: recurring | freq: hourly | last: never",
		"- [ ] No last | type: recurring | freq: daily",
		"- [ ] Bad last | type: recurring | freq: daily | last: yesterday",
		"- [ ] Good two | type: recurring | freq: weekly | last: never",
		"",
	}, "\n")

	var skipped []int
	p := Parser{OnSkip: func(lineNo int, line string, reason error) {
		skipped = append(skipped, lineNo)
	}}

	tasks, err := p.Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d: %+v", len(tasks), tasks)
	}
	if tasks[0].Description != "Good one" || tasks[1].Description != "Good two" {
		t.Errorf("unexpected tasks: %q, %q", tasks[0].Description, tasks[1].Description)
	}

	expectedSkipped := []int{1, 2, 3, 4, 6, 7, 8, 9, 10, 11}
	if len(skipped) != len(expectedSkipped) {
		t.Fatalf("expected skipped lines %v, got %v", expectedSkipped, skipped)
	}
	for i, n := range expectedSkipped {
		if skipped[i] != n {
			t.Errorf("skip %d: expected line %d, got %d", i, n, skipped[i])
		}
	}
}

func TestParseLine_Leniency(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind models.Kind
		freq models.Frequency
	}{
		{name: "missing type is one-off", line: "- [ ] Buy milk", kind: models.KindOneOff},
		{name: "keys in any order", line: "- [ ] Water plants | last: never | freq: 3d | type: recurring", kind: models.KindRecurring, freq: models.FrequencyThreeDays},
		{name: "unknown keys ignored", line: "- [ ] Report | type: one-off | owner: me", kind: models.KindOneOff},
		{name: "case insensitive values", line: "- [ ] Backup | type: Recurring | freq: Weekly | last: NEVER", kind: models.KindRecurring, freq: models.FrequencyWeekly},
		{name: "iso timestamp", line: "- [ ] Sync | type: recurring | freq: daily | last: 2026-02-19T10:07", kind: models.KindRecurring, freq: models.FrequencyDaily},
		{name: "date only", line: "- [ ] Sync | type: recurring | freq: daily | last: 2026-02-19", kind: models.KindRecurring, freq: models.FrequencyDaily},
		{name: "extra spacing", line: "  -   [ ]   Spaced out   |  type:   one-off  ", kind: models.KindOneOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := ParseLine(tt.line)
			if err != nil {
				t.Fatalf("ParseLine failed: %v", err)
			}
			if task.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, task.Kind)
			}
			if task.Frequency != tt.freq {
				t.Errorf("expected frequency %q, got %q", tt.freq, task.Frequency)
			}
			if strings.HasPrefix(task.Description, " ") || strings.HasSuffix(task.Description, " ") {
				t.Errorf("expected trimmed description, got %q", task.Description)
			}
		})
	}
}

func TestParseLine_NotTask(t *testing.T) {
	_, err := ParseLine("## One-off")
	if !errors.Is(err, ErrNotTask) {
		t.Errorf("expected ErrNotTask, got %v", err)
	}
}

func TestFormatLine(t *testing.T) {
	last := time.Date(2026, 2, 19, 10, 7, 0, 0, time.UTC)

	tests := []struct {
		name string
		task models.Task
		want string
	}{
		{
			name: "one-off",
			task: models.NewOneOff("Fix bug"),
			want: "- [ ] Fix bug | type: one-off",
		},
		{
			name: "recurring never",
			task: models.NewRecurring("Commit KB", models.FrequencyDaily),
			want: "- [ ] Commit KB | type: recurring | freq: daily | last: never",
		},
		{
			name: "recurring completed",
			task: models.Task{Description: "Commit KB", Kind: models.KindRecurring, Frequency: models.FrequencyMonthly, LastCompleted: &last},
			want: "- [ ] Commit KB | type: recurring | freq: monthly | last: 2026-02-19 10:07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.task); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormat_TrailingNewline(t *testing.T) {
	out := string(Format([]models.Task{models.NewOneOff("a"), models.NewOneOff("b")}))
	want := "- [ ] a | type: one-off\n- [ ] b | type: one-off\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	if got := Format(nil); len(got) != 0 {
		t.Errorf("expected empty output for no tasks, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	last := time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)
	original := []models.Task{
		models.NewOneOff("Build thing"),
		models.NewRecurring("Commit KB", models.FrequencyDaily),
		{Description: "Pay rent", Kind: models.KindRecurring, Frequency: models.FrequencyMonthly, LastCompleted: &last},
		models.NewOneOff("Fix bug: urgent"),
		{Description: "Stretch", Kind: models.KindRecurring, Frequency: models.FrequencySixHours, LastCompleted: &last},
	}

	parsed, err := Parser{Location: time.UTC}.Parse(strings.NewReader(string(Format(original))))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(parsed) != len(original) {
		t.Fatalf("expected %d tasks, got %d", len(original), len(parsed))
	}
	for i := range original {
		want, got := original[i], parsed[i]
		if got.Description != want.Description || got.Kind != want.Kind || got.Frequency != want.Frequency {
			t.Errorf("task %d: expected %+v, got %+v", i, want, got)
		}
		switch {
		case want.LastCompleted == nil && got.LastCompleted != nil:
			t.Errorf("task %d: expected never, got %v", i, got.LastCompleted)
		case want.LastCompleted != nil && (got.LastCompleted == nil || !got.LastCompleted.Equal(*want.LastCompleted)):
			t.Errorf("task %d: expected last %v, got %v", i, want.LastCompleted, got.LastCompleted)
		}
	}
}
