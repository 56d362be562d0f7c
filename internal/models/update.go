package models

// Update is the single diff primitive used for local edits, merges and server
// synchronisation. Applying it optionally clears the target (Reset), then
// removes DeleteCount entries at Start and inserts Entries there.
type Update struct {
	Entries     []Entry `json:"entries,omitempty"`
	Start       uint64  `json:"start"`
	DeleteCount uint64  `json:"delete_count"`
	Reset       bool    `json:"reset,omitempty"`
}

// Apply returns the result of applying u to entries. The input slice is not
// modified.
func (u Update) Apply(entries []Entry) []Entry {
	if u.Reset {
		entries = nil
	}
	return Splice(entries, u.Start, u.DeleteCount, u.Entries)
}

// Splice removes deleteCount entries beginning at start and inserts insert in
// their place. Out-of-range arguments are clamped the way array splice clamps
// them: start past the end appends, and deleteCount never runs past the end.
// A new slice is always returned.
func Splice(entries []Entry, start, deleteCount uint64, insert []Entry) []Entry {
	n := uint64(len(entries))
	if start > n {
		start = n
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}

	out := make([]Entry, 0, n-deleteCount+uint64(len(insert)))
	out = append(out, entries[:start]...)
	out = append(out, cloneEntries(insert)...)
	out = append(out, entries[start+deleteCount:]...)
	return out
}
