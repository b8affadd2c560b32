package domain

import (
	"regexp"
	"sort"
	"strings"
)

// MatchTrigger finds the longest trigger of the table that occurs in the
// message body as a whole-word match. A trigger never matches as a substring
// of a larger word, and a media command without a usable reference is
// skipped. Pure function, safe for concurrent readers.
func MatchTrigger(text string, table CommandTable) (string, Command, bool) {
	if len(table.Commands) == 0 {
		return "", Command{}, false
	}

	body := text
	if !table.CaseSensitive {
		body = strings.ToLower(body)
	}

	// Longest trigger first so a more specific phrase beats a shorter one
	// it contains. Ties break lexicographically for determinism.
	triggers := make([]string, 0, len(table.Commands))
	for trigger := range table.Commands {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool {
		if len(triggers[i]) != len(triggers[j]) {
			return len(triggers[i]) > len(triggers[j])
		}
		return triggers[i] < triggers[j]
	})

	for _, trigger := range triggers {
		cmd := table.Commands[trigger]
		if !cmd.Sendable() {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(trigger) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(body) {
			return trigger, cmd, true
		}
	}
	return "", Command{}, false
}
