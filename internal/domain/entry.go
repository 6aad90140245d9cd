package domain

import "time"

// EntryStatus is the lifecycle state of an entry.
type EntryStatus string

// Entry statuses. The only allowed transition is draft -> approved.
const (
	StatusDraft    EntryStatus = "draft"
	StatusApproved EntryStatus = "approved"
)

// Entry is a single journal page: uploaded media plus, once approved, the
// chosen template and final text.
type Entry struct {
	Tracked
	JournalID          string         `json:"journal_id"`
	Status             EntryStatus    `json:"status"`
	TitleFinal         string         `json:"title_final,omitempty"`
	DescFinal          string         `json:"desc_final,omitempty"`
	ApprovedTemplateID string         `json:"approved_template_id,omitempty"`
	Media              []Media        `json:"media"`
	LastPreview        *PreviewBundle `json:"last_preview,omitempty"`
}

// Media is an uploaded image together with its generated variants.
// Stored embedded in its owning entry, most-recent-first.
type Media struct {
	ID           string    `json:"id"`
	OriginalURL  string    `json:"original_url"`
	DerivedURL   string    `json:"derived_url"`
	ThumbURL     string    `json:"thumb_url,omitempty"`
	BlurHash     string    `json:"blur_hash,omitempty"`
	OriginalName string    `json:"original_name,omitempty"`
	MimeType     string    `json:"mime_type,omitempty"`
	Size         int64     `json:"size,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsApproved returns true once the entry has been approved.
func (e *Entry) IsApproved() bool {
	return e.Status == StatusApproved
}

// PrependMedia inserts media at the front of the entry's media list
// (most recent first) and refreshes UpdatedAt.
func (e *Entry) PrependMedia(m Media) {
	e.Media = append([]Media{m}, e.Media...)
	e.Touch()
}

// Approve transitions the entry to approved, recording the chosen template
// and final text. Calling it again overwrites the previous final fields; the
// status never goes back to draft.
func (e *Entry) Approve(templateID, title, desc string) {
	e.Status = StatusApproved
	e.ApprovedTemplateID = templateID
	e.TitleFinal = title
	e.DescFinal = desc
	e.Touch()
}

// EntryVersion is an immutable record of one approval. Version numbers are
// monotonically increasing per entry, so history survives re-approval.
type EntryVersion struct {
	ID         string    `json:"id"`
	EntryID    string    `json:"entry_id"`
	VersionNum int       `json:"version_num"`
	TemplateID string    `json:"template_id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	CreatedAt  time.Time `json:"created_at"`
}
