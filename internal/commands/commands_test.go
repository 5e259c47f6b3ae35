package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"duelist/internal/app"
	"duelist/internal/commands"
	"duelist/internal/config"
	"duelist/internal/exitcode"
	"duelist/internal/task"
	"duelist/internal/testutil"
)

const fixtureJSON = `[
	{"id":"a","text":"later","dueDate":"2025-03-01","completed":false},
	{"id":"b","text":"done","dueDate":"2025-01-15","completed":true},
	{"id":"c","text":"someday","completed":false},
	{"id":"d","text":"soon","dueDate":"2025-02-01","completed":false}
]`

func fixtureApp() (*app.App, *testutil.MemSlot) {
	return testutil.NewApp(testutil.AppOptions{Slot: testutil.NewMemSlot([]byte(fixtureJSON))})
}

// runCommand is a helper to run a command against an in-memory app.
func runCommand(t *testing.T, cmd commands.Command, a *app.App, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, a, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func ids(tasks []task.Task) []task.ID {
	out := make([]task.ID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sameIDs(a, b []task.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "duelist 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "duelist add", "duelist sort", "duelist tui"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_AllSortedByDueDate(t *testing.T) {
	a, slot := fixtureApp()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, a, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "" +
		"   1  [x] 2025-01-15  done  (b)\n" +
		"   2  [ ] 2025-02-01  soon  (d)\n" +
		"   3  [ ] 2025-03-01  later  (a)\n" +
		"   4  [ ] ----------  someday  (c)\n" +
		"4 tasks, 1 completed\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if slot.Writes() != 0 {
		t.Errorf("listing must not write, got %d writes", slot.Writes())
	}
}

func TestListCommand_StatusFilter(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"active", "" +
			"   1  [ ] 2025-02-01  soon  (d)\n" +
			"   2  [ ] 2025-03-01  later  (a)\n" +
			"   3  [ ] ----------  someday  (c)\n" +
			"3 of 4 tasks (active)\n"},
		{"completed", "" +
			"   1  [x] 2025-01-15  done  (b)\n" +
			"1 of 4 tasks (completed)\n"},
		{"done", "" +
			"   1  [x] 2025-01-15  done  (b)\n" +
			"1 of 4 tasks (completed)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			a, _ := fixtureApp()
			cmd := &commands.ListCmd{}
			cmd.SetStatus(tt.status)

			stdout, _, code := runCommand(t, cmd, a, nil, false)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stdout != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stdout)
			}
		})
	}
}

func TestListCommand_Quiet(t *testing.T) {
	a, _ := fixtureApp()
	cmd := &commands.ListCmd{}
	cmd.SetStatus("completed")

	stdout, _, code := runCommand(t, cmd, a, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  [x] 2025-01-15  done  (b)\n" {
		t.Errorf("expected rows only, got %q", stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	a, _ := testutil.NewApp(testutil.AppOptions{})

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, a, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	a, _ := testutil.NewApp(testutil.AppOptions{})

	stdout, _, code := runCommand(t, &commands.ListCmd{}, a, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestListCommand_JSON(t *testing.T) {
	a, _ := fixtureApp()
	cmd := &commands.ListCmd{}
	cmd.SetStatus("completed")
	cmd.SetFormat("json")

	stdout, _, code := runCommand(t, cmd, a, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := `[
  {
    "id": "b",
    "text": "done",
    "dueDate": "2025-01-15",
    "completed": true
  }
]
`
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_JSONEmpty(t *testing.T) {
	a, _ := testutil.NewApp(testutil.AppOptions{})
	cmd := &commands.ListCmd{}
	cmd.SetFormat("json")

	stdout, _, code := runCommand(t, cmd, a, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "[]\n" {
		t.Errorf("expected empty array, got %q", stdout)
	}
}

func TestListCommand_YAML(t *testing.T) {
	a, _ := fixtureApp()
	cmd := &commands.ListCmd{}
	cmd.SetFormat("yaml")

	stdout, _, code := runCommand(t, cmd, a, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "- id: b\n  text: done\n") {
		t.Errorf("expected first entry to be b, got %q", stdout)
	}
	if strings.Count(stdout, "- id: ") != 4 {
		t.Errorf("expected 4 entries, got %q", stdout)
	}
}

func TestListCommand_BadFormat(t *testing.T) {
	a, _ := fixtureApp()
	cmd := &commands.ListCmd{}
	cmd.SetFormat("xml")

	stdout, stderr, code := runCommand(t, cmd, a, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: unknown format: xml (want text, json or yaml)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	a, _ := fixtureApp()

	_, stderr, code := runCommand(t, &commands.ListCmd{}, a, []string{"extra"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	a, slot := testutil.NewApp(testutil.AppOptions{RequireDueDate: true})
	cmd := &commands.AddCmd{}
	cmd.SetDue("2025-01-01")

	stdout, stderr, code := runCommand(t, cmd, a, []string{"buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	all := a.Store().All()
	if len(all) != 1 {
		t.Fatalf("expected 1 task, got %d", len(all))
	}
	if all[0].Text != "buy milk" || all[0].DueDate != "2025-01-01" || all[0].Completed {
		t.Errorf("unexpected task %+v", all[0])
	}
	if stdout != "ok "+all[0].ID.Short()+"\n" {
		t.Errorf("expected ok with short id, got %q", stdout)
	}
	if slot.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", slot.Writes())
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	a, _ := testutil.NewApp(testutil.AppOptions{})

	stdout, _, code := runCommand(t, &commands.AddCmd{}, a, []string{"call", "mom"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
	if len(a.Store().All()) != 1 {
		t.Error("expected task to be created")
	}
}

func TestAddCommand_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		due      string
		expected string
	}{
		{"no text", nil, "2025-01-01", "error: task description is required\n"},
		{"blank text", []string{"  "}, "2025-01-01", "error: task description is required\n"},
		{"no due date", []string{"buy", "milk"}, "", "error: due date is required\n"},
		{"bad due date", []string{"buy", "milk"}, "tomorrow", "error: invalid due date (want YYYY-MM-DD): \"tomorrow\"\n"},
		{"impossible date", []string{"buy", "milk"}, "2025-02-30", "error: invalid due date (want YYYY-MM-DD): \"2025-02-30\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, slot := testutil.NewApp(testutil.AppOptions{RequireDueDate: true})
			cmd := &commands.AddCmd{}
			cmd.SetDue(tt.due)

			stdout, stderr, code := runCommand(t, cmd, a, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stderr)
			}
			if slot.Writes() != 0 || len(a.Store().All()) != 0 {
				t.Error("rejected input must not change the store")
			}
		})
	}
}

func TestAddCommand_OptionalDueDate(t *testing.T) {
	a, _ := testutil.NewApp(testutil.AppOptions{RequireDueDate: false})

	_, stderr, code := runCommand(t, &commands.AddCmd{}, a, []string{"someday"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if got := a.Store().All()[0].DueDate; got != "" {
		t.Errorf("expected no due date, got %q", got)
	}
}

func TestAddCommand_StorageFailure(t *testing.T) {
	slot := testutil.NewMemSlot(nil)
	slot.WriteErr = errors.New("disk full")
	a, _ := testutil.NewApp(testutil.AppOptions{Slot: slot})

	_, stderr, code := runCommand(t, &commands.AddCmd{}, a, []string{"buy", "milk"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: storage error: ") || !strings.Contains(stderr, "disk full") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(a.Store().All()) != 0 {
		t.Error("failed save must not change the store")
	}
}

// Tests for toggle command
func TestToggleCommand_ByRowNumber(t *testing.T) {
	a, _ := fixtureApp()

	stdout, stderr, code := runCommand(t, &commands.ToggleCmd{}, a, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "completed d\n" {
		t.Errorf("expected %q, got %q", "completed d\n", stdout)
	}

	// toggling again reopens it
	stdout, _, _ = runCommand(t, &commands.ToggleCmd{}, a, []string{"d"}, false)
	if stdout != "reopened d\n" {
		t.Errorf("expected %q, got %q", "reopened d\n", stdout)
	}
}

func TestToggleCommand_RowsFollowStatus(t *testing.T) {
	a, _ := fixtureApp()
	cmd := &commands.ToggleCmd{}
	cmd.SetStatus("active")

	stdout, _, code := runCommand(t, cmd, a, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "completed d\n" {
		t.Errorf("expected row 1 of active to be d, got %q", stdout)
	}
}

func TestToggleCommand_RefErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no ref", nil, "error: task reference required\n"},
		{"out of range", []string{"9"}, "error: task number out of range: 9\n"},
		{"zero", []string{"0"}, "error: task number out of range: 0\n"},
		{"unknown id", []string{"zzzz"}, "error: task not found: zzzz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, slot := fixtureApp()

			stdout, stderr, code := runCommand(t, &commands.ToggleCmd{}, a, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stderr)
			}
			if slot.Writes() != 0 {
				t.Error("failed resolution must not write")
			}
		})
	}
}

func TestToggleCommand_AmbiguousPrefix(t *testing.T) {
	slot := testutil.NewMemSlot([]byte(`[
		{"id":"abcd-1","text":"one","completed":false},
		{"id":"abcd-2","text":"two","completed":false}
	]`))
	a, _ := testutil.NewApp(testutil.AppOptions{Slot: slot})

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, a, []string{"abcd"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: ambiguous task reference: abcd\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	stdout, _, code := runCommand(t, &commands.ToggleCmd{}, a, []string{"abcd-2"}, false)
	if code != exitcode.Success || stdout != "completed abcd-2\n" {
		t.Errorf("expected exact id to resolve, got %d %q", code, stdout)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	a, slot := fixtureApp()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, a, []string{"1", "3"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "deleted b\ndeleted a\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if got := ids(a.Store().All()); !sameIDs(got, []task.ID{"c", "d"}) {
		t.Errorf("expected c, d to remain, got %v", got)
	}
	if slot.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", slot.Writes())
	}
}

func TestRmCommand_DuplicateRefs(t *testing.T) {
	a, _ := fixtureApp()

	stdout, _, code := runCommand(t, &commands.RmCmd{}, a, []string{"b", "1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "deleted b\n" {
		t.Errorf("expected a single delete, got %q", stdout)
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	a, _ := fixtureApp()

	_, stderr, code := runCommand(t, &commands.RmCmd{}, a, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Filtering to completed and deleting by row leaves active tasks alone.
func TestRmCommand_OnlyCompleted(t *testing.T) {
	slot := testutil.NewMemSlot([]byte(`[
		{"id":"t1","text":"one","dueDate":"2025-01-01","completed":true},
		{"id":"t2","text":"two","dueDate":"2025-01-02","completed":false},
		{"id":"t3","text":"three","dueDate":"2025-01-03","completed":true}
	]`))
	a, _ := testutil.NewApp(testutil.AppOptions{Slot: slot})
	cmd := &commands.RmCmd{}
	cmd.SetStatus("completed")

	stdout, _, code := runCommand(t, cmd, a, []string{"1", "2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "deleted t1\ndeleted t3\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if got := ids(a.Store().All()); !sameIDs(got, []task.ID{"t2"}) {
		t.Errorf("expected only t2 to remain, got %v", got)
	}
}

// Tests for sort command
func TestSortCommand(t *testing.T) {
	a, slot := fixtureApp()

	stdout, _, code := runCommand(t, &commands.SortCmd{}, a, nil, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if got := ids(a.Store().All()); !sameIDs(got, []task.ID{"b", "d", "a", "c"}) {
		t.Errorf("expected stored order b d a c, got %v", got)
	}

	stdout, _, _ = runCommand(t, &commands.SortCmd{}, a, nil, false)
	if stdout != "already sorted\n" {
		t.Errorf("expected already sorted, got %q", stdout)
	}
	if slot.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", slot.Writes())
	}
}

func TestSortCommand_UnexpectedArgument(t *testing.T) {
	a, _ := fixtureApp()

	_, stderr, code := runCommand(t, &commands.SortCmd{}, a, []string{"desc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: desc\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegistry_Aliases(t *testing.T) {
	for alias, name := range map[string]string{
		"ls":       "list",
		"create":   "add",
		"done":     "toggle",
		"complete": "toggle",
		"delete":   "rm",
		"ui":       "tui",
	} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("alias %q not registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("alias %q resolved to %q, want %q", alias, cmd.Name(), name)
		}
	}
}

func TestRegistry_RejectsClashes(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}

	names := []string{}
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}
	want := []string{"add", "help", "list", "login", "logout", "rm", "sort", "toggle", "tui", "version"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func TestHelpCommand_ListsCommandsWithAliases(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if !strings.Contains(stdout, "Commands:\n") {
		t.Fatalf("expected a Commands section, got %q", stdout)
	}
	if !strings.Contains(stdout, "toggle (done, complete)") {
		t.Errorf("expected toggle aliases, got %q", stdout)
	}
}
