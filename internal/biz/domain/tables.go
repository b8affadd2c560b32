package domain

import "sort"

// DndSet holds the chat ids for which every automated response is suppressed
type DndSet map[int64]struct{}

// NewDndSet creates an empty DND set
func NewDndSet() DndSet {
	return make(DndSet)
}

// Add adds a chat, reporting whether it was newly added
func (s DndSet) Add(chatID int64) bool {
	if _, ok := s[chatID]; ok {
		return false
	}
	s[chatID] = struct{}{}
	return true
}

// Remove removes a chat, reporting whether it was present
func (s DndSet) Remove(chatID int64) bool {
	if _, ok := s[chatID]; !ok {
		return false
	}
	delete(s, chatID)
	return true
}

// Contains checks membership
func (s DndSet) Contains(chatID int64) bool {
	_, ok := s[chatID]
	return ok
}

// List returns the chat ids in ascending order
func (s DndSet) List() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a copy
func (s DndSet) Clone() DndSet {
	cp := make(DndSet, len(s))
	for id := range s {
		cp[id] = struct{}{}
	}
	return cp
}

// OverrideTable maps a chat id to its chat-specific auto-reply text.
// An override wins over the global offline message but never over DND.
type OverrideTable map[int64]string

// NewOverrideTable creates an empty override table
func NewOverrideTable() OverrideTable {
	return make(OverrideTable)
}

// Get looks up the override for a chat
func (t OverrideTable) Get(chatID int64) (string, bool) {
	msg, ok := t[chatID]
	return msg, ok
}

// Set stores an override
func (t OverrideTable) Set(chatID int64, message string) {
	t[chatID] = message
}

// Delete removes an override, reporting whether it existed
func (t OverrideTable) Delete(chatID int64) bool {
	if _, ok := t[chatID]; !ok {
		return false
	}
	delete(t, chatID)
	return true
}

// ChatIDs returns the chat ids in ascending order
func (t OverrideTable) ChatIDs() []int64 {
	ids := make([]int64, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a copy
func (t OverrideTable) Clone() OverrideTable {
	cp := make(OverrideTable, len(t))
	for id, msg := range t {
		cp[id] = msg
	}
	return cp
}
