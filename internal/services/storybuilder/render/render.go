// Package render builds the story builder HTML page and htmx fragments.
//
// Markup lives in embedded html/template files; each exported function
// returns a templ.Component so handlers serve every view through
// templ.Handler.
package render

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("render").ParseFS(templateFS, "templates/*.html"))

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

// Page renders the full story builder page.
func Page(data PageData) templ.Component {
	return component("page", newPageView(data))
}

// MiceCard renders one structural card fragment.
func MiceCard(card storage.StructuralCard) templ.Component {
	return component("mice_card", newMiceCardView(card))
}

// TryCard renders one cycle card fragment.
func TryCard(card storage.CycleCard) templ.Component {
	return component("try_card", newTryCardView(card))
}

// MiceCreateForm renders the empty structural card form.
func MiceCreateForm() templ.Component {
	return component("mice_create_form", formView{Options: options(structuralCodes, "")})
}

// MiceEditForm renders the edit form for a structural card.
func MiceEditForm(card storage.StructuralCard) templ.Component {
	return component("mice_edit_form", formView{
		Card:      card,
		DOMID:     newMiceCardView(card).DOMID,
		Color:     colorFor(structuralColors, card.Code),
		ActionURL: routepath.MiceCardResource(card.ID),
		CancelURL: routepath.MiceCard(card.ID),
		Options:   options(structuralCodes, card.Code),
	})
}

// TryCreateForm renders the empty cycle card form.
func TryCreateForm() templ.Component {
	return component("try_create_form", formView{Options: options(cycleTypes, "")})
}

// TryEditForm renders the edit form for a cycle card.
func TryEditForm(card storage.CycleCard) templ.Component {
	return component("try_edit_form", formView{
		Card:      card,
		DOMID:     newTryCardView(card).DOMID,
		Color:     colorFor(cycleColors, card.Type),
		ActionURL: routepath.TryCardResource(card.ID),
		CancelURL: routepath.TryCard(card.ID),
		Options:   options(cycleTypes, card.Type),
	})
}

// NestingDiagram renders structural cards indented by nesting level.
func NestingDiagram(cards []storage.StructuralCard) templ.Component {
	return component("nesting_diagram", Nesting(cards))
}

// StoryTimeline renders the three-act outline.
func StoryTimeline(mice []storage.StructuralCard, tries []storage.CycleCard) templ.Component {
	return component("story_timeline", BuildTimeline(mice, tries))
}

// IconSlot renders one icon slot, polling while generation is pending.
func IconSlot(ref storage.IconRef, icon storage.Icon) templ.Component {
	return component("icon_slot", NewIconSlotView(ref, icon))
}

// ProbePage renders the connection test page, which loads its result.
func ProbePage(backendLabel string) templ.Component {
	return component("probe_page", backendLabel)
}

// ProbeResult renders a connection test outcome.
func ProbeResult(result imagegen.ProbeResult) templ.Component {
	return component("probe_result", newProbeView(result))
}
