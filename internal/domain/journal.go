package domain

import "time"

// Journal is a top-level collection of entries sharing a visual theme and
// physical page size. Journals are soft-deleted only; the tombstone hides
// them from listings but their entries stay addressable.
type Journal struct {
	Tracked
	Title       string `json:"title"`
	ThemeFamily string `json:"theme_family"`
	PageSize    string `json:"page_size"`
}

// OwnerDocument is the unit of persistence and atomicity for one anonymous
// owner: the full journal/entry graph, loaded whole and written back whole on
// every mutation. Owners never share documents.
type OwnerDocument struct {
	SchemaVersion int       `json:"schema_version"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     string    `json:"created_at"`
	Journals      []Journal `json:"journals"`
	Entries       []Entry   `json:"entries"`
}

// CurrentSchemaVersion is written into new owner documents.
const CurrentSchemaVersion = 1

// NewOwnerDocument creates an empty document for an owner seen for the first
// time. Owners are materialized lazily on their first write.
func NewOwnerDocument(ownerID string) *OwnerDocument {
	return &OwnerDocument{
		SchemaVersion: CurrentSchemaVersion,
		OwnerID:       ownerID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Journals:      []Journal{},
		Entries:       []Entry{},
	}
}

// FindJournal returns a pointer to the journal with the given ID, or nil.
// Soft-deleted journals are still found; callers decide whether tombstones matter.
func (d *OwnerDocument) FindJournal(journalID string) *Journal {
	for i := range d.Journals {
		if d.Journals[i].ID == journalID {
			return &d.Journals[i]
		}
	}
	return nil
}

// LiveJournal returns the journal with the given ID if it exists and is not
// soft-deleted, or nil.
func (d *OwnerDocument) LiveJournal(journalID string) *Journal {
	j := d.FindJournal(journalID)
	if j == nil || j.IsDeleted() {
		return nil
	}
	return j
}

// FindEntry returns a pointer to the entry with the given ID, or nil.
func (d *OwnerDocument) FindEntry(entryID string) *Entry {
	for i := range d.Entries {
		if d.Entries[i].ID == entryID {
			return &d.Entries[i]
		}
	}
	return nil
}

// LiveJournals returns all journals that have not been soft-deleted,
// in stored (most-recent-first) order.
func (d *OwnerDocument) LiveJournals() []Journal {
	out := make([]Journal, 0, len(d.Journals))
	for _, j := range d.Journals {
		if !j.IsDeleted() {
			out = append(out, j)
		}
	}
	return out
}

// EntriesForJournal returns all entries referencing the given journal,
// including entries whose journal has since been soft-deleted.
func (d *OwnerDocument) EntriesForJournal(journalID string) []Entry {
	out := make([]Entry, 0)
	for _, e := range d.Entries {
		if e.JournalID == journalID {
			out = append(out, e)
		}
	}
	return out
}
