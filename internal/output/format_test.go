package output_test

import (
	"bytes"
	"testing"

	"duelist/internal/output"
	"duelist/internal/task"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task task.Task
		want string
	}{
		{
			name: "active with date",
			num:  1,
			task: task.Task{ID: "a1b2c3d4-0000", Text: "Buy milk", DueDate: "2025-01-01"},
			want: "   1  [ ] 2025-01-01  Buy milk  (a1b2c3d4)\n",
		},
		{
			name: "completed without date",
			num:  12,
			task: task.Task{ID: "7", Text: "Walk dog", Completed: true},
			want: "  12  [x] ----------  Walk dog  (7)\n",
		},
		{
			name: "newlines flattened",
			num:  3,
			task: task.Task{ID: "x", Text: "line one\nline two", DueDate: "2025-02-02"},
			want: "   3  [ ] 2025-02-02  line one line two  (x)\n",
		},
		{
			name: "blank text",
			num:  4,
			task: task.Task{ID: "y", Text: "  "},
			want: "   4  [ ] ----------  (untitled)  (y)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.num, tt.task)
			if got := buf.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSummary(&buf, 4, 4, 1, task.StatusAll)
	output.FormatSummary(&buf, 3, 4, 1, task.StatusActive)

	want := "4 tasks, 1 completed\n3 of 4 tasks (active)\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncode(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Text: "Buy milk", DueDate: "2025-01-01"},
		{ID: "b", Text: "Walk dog", Completed: true},
	}

	tests := []struct {
		format string
		want   string
	}{
		{
			format: output.FormatJSON,
			want: `[
  {
    "id": "a",
    "text": "Buy milk",
    "dueDate": "2025-01-01",
    "completed": false
  },
  {
    "id": "b",
    "text": "Walk dog",
    "completed": true
  }
]
`,
		},
		{
			format: output.FormatYAML,
			want: `- id: a
  text: Buy milk
  dueDate: "2025-01-01"
  completed: false
- id: b
  text: Walk dog
  completed: true
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := output.Encode(&buf, tt.format, tasks); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, output.FormatJSON, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("expected empty array, got %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "text", false},
		{"TEXT", "text", false},
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := output.ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q): unexpected error state: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
