package domain

import (
	"sort"
	"strings"
)

// CommandKind distinguishes text and media command responses
type CommandKind string

const (
	CommandText  CommandKind = "text"
	CommandMedia CommandKind = "media"
)

// Command is the response descriptor for one trigger
type Command struct {
	Kind    CommandKind
	Text    string    // reply text for Kind == CommandText
	Media   *MediaRef // durable media reference for Kind == CommandMedia
	Caption string
}

// Sendable reports whether the command can actually be dispatched.
// A media command that lost its reference is treated as no match.
func (c Command) Sendable() bool {
	if c.Kind == CommandMedia {
		return c.Media != nil && c.Media.AccessToken != ""
	}
	return true
}

// Clone returns a deep copy
func (c Command) Clone() Command {
	cp := c
	cp.Media = c.Media.Clone()
	return cp
}

// CommandTable is the owner-mutable trigger -> response mapping.
// Keys are normalized according to the case sensitivity flag.
type CommandTable struct {
	CaseSensitive bool
	Commands      map[string]Command
}

// NewCommandTable creates an empty, case-insensitive command table
func NewCommandTable() CommandTable {
	return CommandTable{Commands: make(map[string]Command)}
}

// NormalizeKey normalizes a trigger according to the case sensitivity flag
func (t *CommandTable) NormalizeKey(trigger string) string {
	if t.CaseSensitive {
		return trigger
	}
	return strings.ToLower(trigger)
}

// Set stores a command under the normalized trigger key and returns the key
func (t *CommandTable) Set(trigger string, cmd Command) string {
	key := t.NormalizeKey(trigger)
	t.Commands[key] = cmd
	return key
}

// Delete removes a command, reporting whether it existed
func (t *CommandTable) Delete(trigger string) bool {
	key := t.NormalizeKey(trigger)
	if _, ok := t.Commands[key]; !ok {
		return false
	}
	delete(t.Commands, key)
	return true
}

// SetCaseSensitive flips the case sensitivity flag.
// Switching to insensitive re-keys every trigger to lowercase; collisions
// are resolved last-write-wins. Switching back does not restore casing.
func (t *CommandTable) SetCaseSensitive(on bool) {
	t.CaseSensitive = on
	if on {
		return
	}
	// Sorted iteration keeps the collision winner deterministic.
	triggers := make([]string, 0, len(t.Commands))
	for trigger := range t.Commands {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	rekeyed := make(map[string]Command, len(t.Commands))
	for _, trigger := range triggers {
		rekeyed[strings.ToLower(trigger)] = t.Commands[trigger]
	}
	t.Commands = rekeyed
}

// Clone returns a deep copy
func (t CommandTable) Clone() CommandTable {
	cp := CommandTable{CaseSensitive: t.CaseSensitive, Commands: make(map[string]Command, len(t.Commands))}
	for k, v := range t.Commands {
		cp.Commands[k] = v.Clone()
	}
	return cp
}
