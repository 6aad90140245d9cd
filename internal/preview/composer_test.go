package preview

import (
	"testing"

	"github.com/junkjournalapp/junkjournal-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWithMedia(count int) *domain.Entry {
	e := &domain.Entry{Status: domain.StatusDraft}
	for i := 0; i < count; i++ {
		e.Media = append(e.Media, domain.Media{ID: "md"})
	}
	return e
}

func TestCompose_ReturnsThreeOptions(t *testing.T) {
	bundle := Compose(entryWithMedia(1))

	require.Len(t, bundle.Options, 3)
	assert.Equal(t, OptionScrapbook, bundle.Options[0].ID)
	assert.Equal(t, OptionVintage, bundle.Options[1].ID)
	assert.Equal(t, OptionMinimal, bundle.Options[2].ID)
	assert.False(t, bundle.GeneratedAt.IsZero())
}

func TestCompose_LayoutMetadata(t *testing.T) {
	bundle := Compose(entryWithMedia(1))

	scrapbook := bundle.Options[0]
	assert.Equal(t, "paper-warm", scrapbook.Layout.Background)
	assert.Equal(t, "tape-corners", scrapbook.Layout.Frame)
	assert.Equal(t, "handwritten", scrapbook.Layout.NotesStyle)

	vintage := bundle.Options[1]
	assert.Equal(t, "paper-sepia", vintage.Layout.Background)
	assert.Equal(t, "typewriter", vintage.Layout.NotesStyle)

	minimal := bundle.Options[2]
	assert.Equal(t, "paper-clean", minimal.Layout.Background)
	assert.Equal(t, "single", minimal.Layout.Collage)
}

func TestCompose_CollageVariesWithMediaCount(t *testing.T) {
	tests := []struct {
		count     int
		scrapbook string
		vintage   string
	}{
		{0, "single", "stack"},
		{1, "single", "stack"},
		{2, "grid", "stack"},
		{3, "grid", "grid"},
	}

	for _, tt := range tests {
		bundle := Compose(entryWithMedia(tt.count))
		assert.Equal(t, tt.scrapbook, bundle.Options[0].Layout.Collage, "scrapbook with %d media", tt.count)
		assert.Equal(t, tt.vintage, bundle.Options[1].Layout.Collage, "vintage with %d media", tt.count)
	}
}

func TestCompose_SuggestionHeuristic(t *testing.T) {
	single := Compose(entryWithMedia(1))
	assert.Equal(t, "A small moment", single.Options[0].Suggestion.Title)

	collage := Compose(entryWithMedia(4))
	assert.Equal(t, "A collage of 4 moments", collage.Options[0].Suggestion.Title)
	assert.Contains(t, collage.Options[0].Suggestion.Description, "cozy memory")
}

func TestCompose_KeepsOwnerText(t *testing.T) {
	e := entryWithMedia(2)
	e.TitleFinal = "Beach day"
	e.DescFinal = "Sand everywhere."

	bundle := Compose(e)
	assert.Equal(t, "Beach day", bundle.Options[0].Suggestion.Title)
	assert.Equal(t, "Sand everywhere.", bundle.Options[0].Suggestion.Description)
}

func TestCompose_Idempotent(t *testing.T) {
	e := entryWithMedia(2)

	first := Compose(e)
	second := Compose(e)

	// Same options, modulo the generation timestamp
	require.Len(t, second.Options, len(first.Options))
	for i := range first.Options {
		assert.Equal(t, first.Options[i], second.Options[i])
	}
}

func TestValidOption(t *testing.T) {
	assert.True(t, ValidOption(OptionScrapbook))
	assert.True(t, ValidOption(OptionVintage))
	assert.True(t, ValidOption(OptionMinimal))
	assert.False(t, ValidOption("opt_unknown"))
	assert.False(t, ValidOption(""))
}
