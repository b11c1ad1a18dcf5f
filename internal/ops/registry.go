/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

// CommandGroup classifies a command for help output
type CommandGroup string

const (
	GroupBrowse  CommandGroup = "browse"  // search, tree, usage, snippet
	GroupAudit   CommandGroup = "audit"   // audit, gallery, edit, filelist
	GroupSupport CommandGroup = "support" // version
)

// GroupAnnotation is the cobra annotation key holding a command's group.
const GroupAnnotation = "svgaudit/group"

// Groups lists the groups in help order.
var Groups = []CommandGroup{GroupBrowse, GroupAudit, GroupSupport}

// Title is the heading a group is listed under in help.
func (g CommandGroup) Title() string {
	switch g {
	case GroupBrowse, GroupAudit, GroupSupport:
		return strings.ToUpper(string(g[:1])) + string(g[1:]) + " Commands"
	default:
		return string(g)
	}
}

// Annotate returns the annotations that place a command in g.
func Annotate(g CommandGroup) map[string]string {
	return map[string]string{GroupAnnotation: string(g)}
}

// GroupOf reads the group annotation of cmd. It is empty when unset.
func GroupOf(cmd *cobra.Command) CommandGroup {
	return CommandGroup(cmd.Annotations[GroupAnnotation])
}

// Entry is a registered command.
type Entry struct {
	Name    string
	Group   CommandGroup
	Command *cobra.Command
}

// Registry records which group each top-level command belongs to.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

var global = NewRegistry()

// Global returns the registry filled by the CLI at startup.
func Global() *Registry {
	return global
}

// Add registers cmd under its annotated group.
func (r *Registry) Add(cmd *cobra.Command) error {
	name := cmd.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("command %s already registered", name)
	}
	r.entries[name] = Entry{Name: name, Group: GroupOf(cmd), Command: cmd}
	return nil
}

// Lookup returns the entry registered as name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// InGroup returns the entries of g sorted by name.
func (r *Registry) InGroup(g CommandGroup) []Entry {
	return slices.DeleteFunc(r.Entries(), func(e Entry) bool { return e.Group != g })
}

// Counts returns the number of commands per group.
func (r *Registry) Counts() map[CommandGroup]int {
	counts := make(map[CommandGroup]int)
	for _, e := range r.Entries() {
		counts[e.Group]++
	}
	return counts
}
