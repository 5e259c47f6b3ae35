package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"duelist/internal/task"
)

// MinPrefixLen is the shortest id prefix accepted as a task reference.
const MinPrefixLen = 4

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTaskRefs resolves each argument to a task.
//
// Resolution rules:
//  1. All digits within 1..len(visible) → row number in the displayed order
//  2. Exact id match in the whole collection
//  3. Unique id prefix of at least MinPrefixLen characters
//  4. All digits otherwise → task number out of range
//  5. Anything else → task not found
//
// Duplicate references to the same task are collapsed, keeping the first.
func ResolveTaskRefs(args []string, visible, all []task.Task) ([]task.Task, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}

	var out []task.Task
	seen := make(map[task.ID]bool, len(args))
	for _, arg := range args {
		t, err := resolveTaskRef(strings.TrimSpace(arg), visible, all)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

func resolveTaskRef(ref string, visible, all []task.Task) (task.Task, error) {
	if ref == "" {
		return task.Task{}, ErrTaskRefRequired
	}

	digits := isAllDigits(ref)
	if digits {
		n, err := strconv.Atoi(ref)
		if err == nil && n >= 1 && n <= len(visible) {
			return visible[n-1], nil
		}
	}

	if i := task.IndexOf(all, task.ID(ref)); i >= 0 {
		return all[i], nil
	}

	if len(ref) >= MinPrefixLen {
		var matches []task.Task
		for _, t := range all {
			if strings.HasPrefix(string(t.ID), ref) {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 1:
			return matches[0], nil
		case 0:
		default:
			return task.Task{}, fmt.Errorf("ambiguous task reference: %s", ref)
		}
	}

	if digits {
		return task.Task{}, fmt.Errorf("task number out of range: %s", ref)
	}
	return task.Task{}, fmt.Errorf("task not found: %s", ref)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
