/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrorSeverity represents the severity of validation errors
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
)

// ValidationError reports a command whose classification is wrong.
type ValidationError struct {
	Severity ErrorSeverity
	Command  string
	Message  string
}

func (e ValidationError) Error() string {
	level := "ERROR"
	if e.Severity == SeverityWarning {
		level = "WARNING"
	}
	return fmt.Sprintf("[%s] %s: %s", level, e.Command, e.Message)
}

// CoreCommands maps every command the CLI must ship to its group.
var CoreCommands = map[string]CommandGroup{
	"search":   GroupBrowse,
	"tree":     GroupBrowse,
	"usage":    GroupBrowse,
	"snippet":  GroupBrowse,
	"audit":    GroupAudit,
	"gallery":  GroupAudit,
	"edit":     GroupAudit,
	"filelist": GroupAudit,
	"version":  GroupSupport,
}

// Validate checks that each core command is registered in its group and that
// no command uses an unknown group. Extra commands are reported as warnings.
func Validate(registry *Registry, core map[string]CommandGroup) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(core))
	for name := range core {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		want := core[name]
		e, ok := registry.Lookup(name)
		switch {
		case !ok:
			errs = append(errs, ValidationError{Severity: SeverityError, Command: name, Message: "core command is not registered"})
		case e.Group != want:
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Command:  name,
				Message:  fmt.Sprintf("incorrect group: expected %s, got %s", want, e.Group),
			})
		}
	}

	for _, e := range registry.Entries() {
		if !slices.Contains(Groups, e.Group) {
			errs = append(errs, ValidationError{Severity: SeverityError, Command: e.Name, Message: fmt.Sprintf("uses invalid group: %q", e.Group)})
		}
		if _, isCore := core[e.Name]; !isCore {
			errs = append(errs, ValidationError{Severity: SeverityWarning, Command: e.Name, Message: "not a core command"})
		}
	}
	return errs
}

// FilterErrorsBySeverity returns errors of a specific severity
func FilterErrorsBySeverity(errs []ValidationError, severity ErrorSeverity) []ValidationError {
	var filtered []ValidationError
	for _, err := range errs {
		if err.Severity == severity {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

// FormatErrors formats validation errors for display
func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors found"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d validation errors:\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}
	return builder.String()
}
