// Package preview composes layout template options for a journal entry.
package preview

import (
	"fmt"
	"time"

	"github.com/junkjournalapp/junkjournal-server/internal/domain"
)

// Template option IDs. These are stable identifiers the client echoes back
// on approval.
const (
	OptionScrapbook = "opt_scrapbook"
	OptionVintage   = "opt_vintage"
	OptionMinimal   = "opt_minimal"
)

// Compose builds the preview bundle for an entry: three named layout options
// with a suggested title and description. The function is pure apart from
// the generation timestamp, so previewing twice with unchanged inputs yields
// the same options.
func Compose(entry *domain.Entry) *domain.PreviewBundle {
	mediaCount := len(entry.Media)
	suggestion := suggest(entry, mediaCount)

	scrapbookCollage := "grid"
	if mediaCount <= 1 {
		scrapbookCollage = "single"
	}
	vintageCollage := "grid"
	if mediaCount <= 2 {
		vintageCollage = "stack"
	}

	return &domain.PreviewBundle{
		GeneratedAt: time.Now().UTC(),
		Options: []domain.PreviewOption{
			{
				ID:    OptionScrapbook,
				Style: domain.StyleScrapbook,
				Label: "Scrapbook (collage + tape)",
				Layout: domain.PreviewLayout{
					Background: "paper-warm",
					Frame:      "tape-corners",
					Collage:    scrapbookCollage,
					NotesStyle: "handwritten",
				},
				Suggestion: suggestion,
			},
			{
				ID:    OptionVintage,
				Style: domain.StyleVintage,
				Label: "Vintage (sepia paper + typewriter)",
				Layout: domain.PreviewLayout{
					Background: "paper-sepia",
					Frame:      "vintage-border",
					Collage:    vintageCollage,
					NotesStyle: "typewriter",
				},
				Suggestion: suggestion,
			},
			{
				ID:    OptionMinimal,
				Style: domain.StyleMinimal,
				Label: "Minimal (clean margins)",
				Layout: domain.PreviewLayout{
					Background: "paper-clean",
					Frame:      "simple-shadow",
					Collage:    "single",
					NotesStyle: "clean",
				},
				Suggestion: suggestion,
			},
		},
	}
}

// ValidOption reports whether a template ID names one of the composed options.
func ValidOption(templateID string) bool {
	switch templateID {
	case OptionScrapbook, OptionVintage, OptionMinimal:
		return true
	}
	return false
}

// suggest derives title and description text from the entry's current state.
// Entries the owner has already titled keep their text; everything else gets
// count-based phrasing.
func suggest(entry *domain.Entry, mediaCount int) domain.PreviewSuggestion {
	title := entry.TitleFinal
	if title == "" {
		if mediaCount == 1 {
			title = "A small moment"
		} else {
			title = fmt.Sprintf("A collage of %d moments", mediaCount)
		}
	}

	desc := entry.DescFinal
	if desc == "" {
		desc = "A cozy memory captured in textures, color, and little details. (Edit anytime.)"
	}

	return domain.PreviewSuggestion{
		Title:       title,
		Description: desc,
	}
}
