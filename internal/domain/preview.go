package domain

import "time"

// PreviewStyle names one of the fixed layout families.
type PreviewStyle string

// The three layout families offered by the composer.
const (
	StyleScrapbook PreviewStyle = "scrapbook"
	StyleVintage   PreviewStyle = "vintage"
	StyleMinimal   PreviewStyle = "minimal"
)

// PreviewLayout is the minimal layout metadata a client needs to render an
// option: named background/frame assets plus collage and notes treatments.
type PreviewLayout struct {
	Background string `json:"background"`
	Frame      string `json:"frame"`
	Collage    string `json:"collage"` // single, grid, or stack
	NotesStyle string `json:"notes_style"`
}

// PreviewSuggestion is the copilot's proposed title and description text.
type PreviewSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PreviewOption is one selectable page template.
type PreviewOption struct {
	ID         string            `json:"id"`
	Style      PreviewStyle      `json:"style"`
	Label      string            `json:"label"`
	Layout     PreviewLayout     `json:"layout"`
	Suggestion PreviewSuggestion `json:"suggestion"`
}

// PreviewBundle is the full set of template options generated for an entry.
// The last-generated bundle is cached on the entry; GeneratedAt is the only
// field that changes between identical regenerations.
type PreviewBundle struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Options     []PreviewOption `json:"options"`
}
