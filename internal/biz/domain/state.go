package domain

// State is the aggregate of all owner-mutable bot state.
// It is never shared directly with handler code; the state manager owns
// the single authoritative instance and hands out snapshots.
type State struct {
	Presence  Presence
	Dnd       DndSet
	Overrides OverrideTable
	Commands  CommandTable
}

// NewState creates the empty default state
func NewState() *State {
	return &State{
		Presence:  NewPresence(),
		Dnd:       NewDndSet(),
		Overrides: NewOverrideTable(),
		Commands:  NewCommandTable(),
	}
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	return &State{
		Presence:  s.Presence.Clone(),
		Dnd:       s.Dnd.Clone(),
		Overrides: s.Overrides.Clone(),
		Commands:  s.Commands.Clone(),
	}
}

// EffectiveReply resolves the auto-reply text for a chat:
// per-chat override first, then the global offline message when offline.
func (s *State) EffectiveReply(chatID int64) (string, bool) {
	if msg, ok := s.Overrides.Get(chatID); ok {
		return msg, true
	}
	if s.Presence.Offline {
		return s.Presence.OfflineMessage, true
	}
	return "", false
}
