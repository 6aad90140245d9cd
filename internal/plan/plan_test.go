package plan

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest_SinglePage(t *testing.T) {
	plans := Suggest(Request{SpreadMode: ModeSingle, PageFormat: "A5", GutterSide: "left"})

	require.Len(t, plans, 1)
	p := plans[0]

	assert.Equal(t, ModeSingle, p.SpreadMode)
	assert.Equal(t, "A5", p.PageFormat)
	assert.Equal(t, "Found Things, Soft Day", p.ConceptTitle)
	assert.Equal(t, "left", p.Layout.GutterSide)
	assert.GreaterOrEqual(t, len(p.Layout.Zones), 3)
	assert.GreaterOrEqual(t, len(p.Materials), 6)
	assert.GreaterOrEqual(t, len(p.SafetyAndCare), 3)
	assert.GreaterOrEqual(t, len(p.Tags), 2)
}

func TestSuggest_RecipeIsOrdered(t *testing.T) {
	plans := Suggest(Request{SpreadMode: ModeSingle, PageFormat: "A6"})

	recipe := plans[0].LayerRecipe
	require.GreaterOrEqual(t, len(recipe), 8)
	require.LessOrEqual(t, len(recipe), 14)

	for i, step := range recipe {
		assert.Equal(t, i+1, step.Step)
		assert.NotEmpty(t, step.Action)
		assert.NotEmpty(t, step.Method)
		assert.NotEmpty(t, step.Rationale)
	}
}

func TestSuggest_TitleBecomesEssence(t *testing.T) {
	plans := Suggest(Request{SpreadMode: ModeSingle, PageFormat: "TN", Title: "Autumn walk"})
	assert.Equal(t, "Essence: Autumn walk", plans[0].ConceptTitle)
}

func TestSuggest_TwoPage(t *testing.T) {
	plans := Suggest(Request{SpreadMode: ModeTwoPage, PageFormat: "A5", GutterSide: "right"})

	require.Len(t, plans, 1)
	p := plans[0]

	assert.Equal(t, ModeTwoPage, p.SpreadMode)
	assert.Equal(t, 12, p.Layout.GutterMm)

	// Writing lands on the right page, collage work on the left
	for _, step := range p.LayerRecipe {
		if step.Action == "write" {
			assert.Equal(t, "right", step.Page)
		} else {
			assert.Equal(t, "left", step.Page)
		}
	}

	// Two-page mode adds cross-page tape guidance
	last := p.TapePlan.TransparentTape[len(p.TapePlan.TransparentTape)-1]
	assert.Equal(t, "cross-page continuity", last.UseFor)
}

func TestSuggest_CaptionsHaveSixOptions(t *testing.T) {
	plans := Suggest(Request{SpreadMode: ModeSingle, PageFormat: "Letter"})

	require.NotEmpty(t, plans[0].Captions)
	for _, c := range plans[0].Captions {
		assert.Len(t, c.Options, 6)
	}
	assert.Len(t, plans[0].Writing.Prompts, 3)
	assert.GreaterOrEqual(t, len(plans[0].Writing.MicroCaptions), 6)
}

func TestSuggest_ScrapsBecomeCaptionTargets(t *testing.T) {
	plans := Suggest(Request{
		SpreadMode: ModeSingle,
		PageFormat: "A5",
		Scraps: []Scrap{
			{Type: "text", Text: "train ticket, Kyoto"},
			{Type: "link", URL: "https://example.com/cafe", Text: "that cafe"},
		},
	})

	captions := plans[0].Captions
	require.Len(t, captions, 3)
	assert.Equal(t, "scrap cluster", captions[0].For)
	assert.Equal(t, `scrap #1: paper/text, label="train ticket, Kyoto"`, captions[1].For)
	assert.Contains(t, captions[2].For, "paper/link")
	assert.Contains(t, captions[2].For, "https://example.com/cafe")
	for _, c := range captions {
		assert.Equal(t, captions[0].Options, c.Options)
	}
}

func TestTruncate_KeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("折り紙と切手", 20)
	for max := 1; max < 24; max++ {
		got := truncate(long, max)
		assert.True(t, utf8.ValidString(got), "max=%d", max)
		assert.LessOrEqual(t, len(got), max)
		assert.True(t, strings.HasPrefix(long, got))
	}
	assert.Equal(t, "short", truncate("short", 140))
}

func TestSuggest_Deterministic(t *testing.T) {
	req := Request{SpreadMode: ModeTwoPage, PageFormat: "A5", GutterSide: "left", Title: "Essence"}

	first := Suggest(req)
	second := Suggest(req)
	assert.Equal(t, first, second)
}
