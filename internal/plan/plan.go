// Package plan generates physical spread plans: step-by-step instructions
// for assembling a real paper journal page from collected scraps.
package plan

import (
	"fmt"
	"unicode/utf8"
)

// Spread modes.
const (
	ModeSingle  = "single"
	ModeTwoPage = "two_page"
)

// Page formats accepted by the planner.
var PageFormats = []string{"A5", "A6", "TN", "Letter"}

// Request describes the page the owner is planning.
type Request struct {
	SpreadMode string  `json:"spread_mode" validate:"required,oneof=single two_page"`
	PageFormat string  `json:"page_format" validate:"required,oneof=A5 A6 TN Letter"`
	GutterSide string  `json:"gutter_side" validate:"omitempty,oneof=left right"`
	Title      string  `json:"title" validate:"omitempty,max=200"`
	Scraps     []Scrap `json:"scraps" validate:"omitempty,max=20,dive"`
}

// Scrap is one collected item the owner wants on the page.
type Scrap struct {
	Type string `json:"type" validate:"required,oneof=text link"`
	Text string `json:"text" validate:"omitempty,max=500"`
	URL  string `json:"url" validate:"omitempty,max=500"`
}

// Zone marks a named region of the page.
type Zone struct {
	ZoneID      string `json:"zone_id"`
	Page        string `json:"page"`
	Placement   string `json:"placement"`
	Description string `json:"description"`
}

// Layout positions the zones within margins.
type Layout struct {
	GutterSide string `json:"gutter_side,omitempty"`
	MarginMm   int    `json:"margin_mm"`
	GutterMm   int    `json:"gutter_mm"`
	Zones      []Zone `json:"zones"`
}

// LayerStep is one ordered assembly action.
type LayerStep struct {
	Step      int    `json:"step"`
	Page      string `json:"page"`
	Action    string `json:"action"`
	Target    string `json:"target"`
	Method    string `json:"method"`
	Rationale string `json:"rationale"`
}

// TapeUse describes one way a tape type is applied.
type TapeUse struct {
	UseFor    string `json:"use_for"`
	Technique string `json:"technique"`
	Notes     string `json:"notes"`
}

// TapePlan splits tape guidance by tape type.
type TapePlan struct {
	TransparentTape []TapeUse `json:"transparent_tape"`
	WashiTape       []TapeUse `json:"washi_tape"`
}

// CaptionSet offers caption text options for one part of the spread.
type CaptionSet struct {
	For     string   `json:"for"`
	Options []string `json:"options"`
}

// Writing holds journaling guidance for the spread.
type Writing struct {
	ToneGuidance   string   `json:"tone_guidance"`
	Prompts        []string `json:"prompts"`
	DraftParagraph string   `json:"draft_paragraph"`
	MicroCaptions  []string `json:"micro_captions"`
}

// Plan is a complete spread plan.
type Plan struct {
	SpreadMode    string       `json:"spread_mode"`
	PageFormat    string       `json:"page_format"`
	ConceptTitle  string       `json:"concept_title"`
	Layout        Layout       `json:"layout"`
	LayerRecipe   []LayerStep  `json:"layer_recipe"`
	TapePlan      TapePlan     `json:"tape_plan"`
	Materials     []string     `json:"materials"`
	Captions      []CaptionSet `json:"captions"`
	Writing       Writing      `json:"writing"`
	SafetyAndCare []string     `json:"safety_and_care"`
	Tags          []string     `json:"tags"`
}

// Suggest builds spread plans for the request. The output is deterministic
// for a given input.
func Suggest(req Request) []Plan {
	conceptTitle := "Found Things, Soft Day"
	if req.Title != "" {
		conceptTitle = "Essence: " + req.Title
	}

	base := singlePlan(req, conceptTitle)
	for _, line := range summarizeScraps(req.Scraps) {
		base.Captions = append(base.Captions, CaptionSet{
			For:     line,
			Options: base.Captions[0].Options,
		})
	}

	if req.SpreadMode == ModeTwoPage {
		return []Plan{twoPagePlan(base)}
	}
	return []Plan{base}
}

// summarizeScraps turns scraps into short descriptor lines; each line becomes
// a caption target in the plan.
func summarizeScraps(scraps []Scrap) []string {
	var lines []string
	for n, s := range scraps {
		switch s.Type {
		case "text":
			lines = append(lines, fmt.Sprintf("scrap #%d: paper/text, label=%q", n+1, truncate(s.Text, 140)))
		case "link":
			lines = append(lines, fmt.Sprintf("scrap #%d: paper/link, url=%q, note=%q", n+1, s.URL, truncate(s.Text, 140)))
		}
	}
	return lines
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func singlePlan(req Request, conceptTitle string) Plan {
	return Plan{
		SpreadMode:   ModeSingle,
		PageFormat:   req.PageFormat,
		ConceptTitle: conceptTitle,
		Layout: Layout{
			GutterSide: req.GutterSide,
			MarginMm:   8,
			GutterMm:   8,
			Zones: []Zone{
				{ZoneID: "anchor", Page: "single", Placement: "center",
					Description: "Main anchor centered; keep gutter clear."},
				{ZoneID: "clusterA", Page: "single", Placement: "top-left",
					Description: "Delicate cluster: leaves/fragile bits, frame-taped with clear tape."},
				{ZoneID: "clusterB", Page: "single", Placement: "bottom-right",
					Description: "Heavier cluster: coins/tokens; strap or pocket if bulky."},
				{ZoneID: "journalBlock", Page: "single", Placement: "bottom",
					Description: "Handwriting area with breathing room."},
				{ZoneID: "captionStrip", Page: "single", Placement: "top",
					Description: "Date + tiny labels."},
			},
		},
		LayerRecipe: []LayerStep{
			{Step: 1, Page: "single", Action: "tear", Target: "background strip",
				Method:    "Tear a thin kraft/tissue strip behind the anchor edge.",
				Rationale: "Softens edges and adds texture."},
			{Step: 2, Page: "single", Action: "place", Target: "scrap #1 (anchor)",
				Method:    "Center it; respect margin and gutter.",
				Rationale: "Sets the visual weight."},
			{Step: 3, Page: "single", Action: "tape", Target: "scrap #1 edges",
				Method:    "Clear hinge tape: 2-3 short strips on corners/edges.",
				Rationale: "Secure without hiding."},
			{Step: 4, Page: "single", Action: "place", Target: "scrap #2 (delicate)",
				Method:    "Angle top-left; float over anchor slightly.",
				Rationale: "Adds motion; feels found."},
			{Step: 5, Page: "single", Action: "tape", Target: "scrap #2 (delicate)",
				Method:    "Frame tape perimeter with thin clear strips; avoid the center.",
				Rationale: "Prevents curling and preserves texture."},
			{Step: 6, Page: "single", Action: "place", Target: "scrap #3 (paper/receipt)",
				Method:    "Tuck a corner under anchor; peek into journal area.",
				Rationale: "Adds paper-trail authenticity."},
			{Step: 7, Page: "single", Action: "tape", Target: "scrap #3 corner",
				Method:    "One washi tab + one clear hinge.",
				Rationale: "Charm + stability."},
			{Step: 8, Page: "single", Action: "pocket_build", Target: "optional pocket (bulky)",
				Method:    "Fold scrap paper pocket; glue seams; reinforce with clear tape.",
				Rationale: "Stops page bulge from fighting the binding."},
			{Step: 9, Page: "single", Action: "label", Target: "caption strip",
				Method:    "Add 2-3 micro labels (date + 2 words).",
				Rationale: "Breadcrumbs make it curated."},
			{Step: 10, Page: "single", Action: "write", Target: "journal block",
				Method:    "Write 6-10 short lines; leave whitespace.",
				Rationale: "Collage + reflection, not a wall-of-text."},
		},
		TapePlan: TapePlan{
			TransparentTape: []TapeUse{
				{UseFor: "leaf/delicate edges", Technique: "frame tape",
					Notes: "Perimeter only; don't seal moisture inside."},
				{UseFor: "anchor corners", Technique: "hinge tape",
					Notes: "Short hinges reduce glare and keep it tidy."},
				{UseFor: "bulky item stabilization", Technique: "strap tape / pocket",
					Notes: "Strap if removable; pocket if heavy."},
			},
			WashiTape: []TapeUse{
				{UseFor: "receipt tab", Technique: "corner tab",
					Notes: "One tab per cluster is enough; avoid overpowering."},
				{UseFor: "date header", Technique: "mini banner",
					Notes: "Thin banner unifies without clutter."},
			},
		},
		Materials: []string{
			"transparent tape (clear)",
			"washi tape (1-2 patterns)",
			"glue stick (optional for flat paper)",
			"glue dots (optional for chunky items)",
			"fine-liner pen",
			"label stickers / scrap paper for captions",
		},
		Captions: []CaptionSet{
			{For: "scrap cluster", Options: []string{
				"tiny proof", "kept anyway", "soft day",
				"found + saved", "small relics", "quiet details",
			}},
		},
		Writing: Writing{
			ToneGuidance: "Warm, sensory, imperfect. Pin down texture, not a report.",
			Prompts: []string{
				"What did you notice that most people miss?",
				"What did you keep, and why?",
				"What felt small but meaningful today?",
			},
			DraftParagraph: "Today felt like a pocketful of small proofs: paper trails, tiny textures, " +
				"a few seconds I didn't want to lose. I'm not trying to tell the whole story, " +
				"just enough to return to the feeling later. The scraps aren't perfect, but " +
				"they're honest. They say: I was here. I noticed. And that was enough.",
			MicroCaptions: []string{"found", "kept", "soft", "tiny proof", "still here", "details"},
		},
		SafetyAndCare: []string{
			"Delicate items (leaves): tape the perimeter to reduce curling; avoid trapping moisture.",
			"Bulky items (coins/tokens): use a pocket or strap to reduce binding stress and page bulge.",
			"Write after taping so you don't smear ink on glossy tape or drag tape edges.",
		},
		Tags: []string{"junk-journal", "transparent-tape", "found-objects"},
	}
}

// twoPagePlan spreads the single-page plan across facing pages: collage on
// the left, writing on the right.
func twoPagePlan(base Plan) Plan {
	p := base
	p.SpreadMode = ModeTwoPage
	p.Layout = Layout{
		MarginMm: 8,
		GutterMm: 12,
		Zones: []Zone{
			{ZoneID: "anchor", Page: "left", Placement: "center",
				Description: "Left page collage base; keep center gutter clear."},
			{ZoneID: "clusterA", Page: "left", Placement: "top-left",
				Description: "Delicate cluster on outer edge (frame-taped)."},
			{ZoneID: "pocket", Page: "left", Placement: "bottom-left",
				Description: "Pocket for bulky items; avoid center gutter."},
			{ZoneID: "journalBlock", Page: "right", Placement: "center",
				Description: "Right page is writing-heavy, clean space for handwriting."},
			{ZoneID: "captionStrip", Page: "right", Placement: "top",
				Description: "Date + tiny labels on right page header."},
		},
	}

	recipe := make([]LayerStep, len(base.LayerRecipe))
	for i, s := range base.LayerRecipe {
		s.Page = "left"
		if s.Action == "write" {
			s.Page = "right"
		}
		recipe[i] = s
	}
	p.LayerRecipe = recipe

	tape := base.TapePlan
	tape.TransparentTape = append(append([]TapeUse{}, base.TapePlan.TransparentTape...), TapeUse{
		UseFor:    "cross-page continuity",
		Technique: "floating edge tabs",
		Notes:     "Don't bridge the gutter with bulky tape; keep it light.",
	})
	p.TapePlan = tape

	return p
}
