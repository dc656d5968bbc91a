package render

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/storybuilder/internal/platform/timeouts"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// IndentPerLevel is the nesting diagram indent in pixels.
const IndentPerLevel = 20

var structuralTooltips = map[string]string{
	"M": "Milieu: Story about a place/environment. Character enters → explores → leaves. Example: Alice falls down rabbit hole, explores Wonderland, returns home.",
	"I": "Idea: Story about a question/mystery. Question posed → investigated → answered. Example: Whodunit mystery starts with murder, detective investigates, reveals killer.",
	"C": "Character: Story about internal change. Character dissatisfied → struggles → transforms. Example: Scrooge is miserly, faces ghosts, becomes generous.",
	"E": "Event: Story about external problem. World order disrupted → crisis → new order. Example: Alien invasion threatens Earth, heroes fight back, peace restored.",
}

var cycleTooltips = map[string]string{
	"Success":   "Yes, but... - Character succeeds at immediate goal but the larger problem persists. Example: Hero defeats minion but villain escapes.",
	"Failure":   "No, and... - Character fails and situation worsens. Example: Detective's suspect has alibi AND another murder occurs.",
	"Trade-off": "Yes, but at a cost - Character wins something but loses something else. Example: Hero saves city but loses their powers.",
	"Moral":     "Success with ethical compromise - Character succeeds but violates their values. Example: Detective catches killer by breaking the law.",
}

var structuralColors = map[string]string{
	"M": "bg-blue-100 border-blue-300",
	"I": "bg-green-100 border-green-300",
	"C": "bg-yellow-100 border-yellow-300",
	"E": "bg-purple-100 border-purple-300",
}

var cycleColors = map[string]string{
	"Success":   "bg-green-100 border-green-300",
	"Failure":   "bg-red-100 border-red-300",
	"Trade-off": "bg-orange-100 border-orange-300",
	"Moral":     "bg-blue-100 border-blue-300",
}

const neutralColor = "bg-base-100 border-base-300"

// Option is one entry of a select control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

var structuralCodes = []Option{
	{Value: "M", Label: "Milieu"},
	{Value: "I", Label: "Idea"},
	{Value: "C", Label: "Character"},
	{Value: "E", Label: "Event"},
}

var cycleTypes = []Option{
	{Value: "Success", Label: "Success"},
	{Value: "Failure", Label: "Failure"},
	{Value: "Trade-off", Label: "Trade-off"},
	{Value: "Moral", Label: "Moral"},
}

func options(all []Option, selected string) []Option {
	out := make([]Option, len(all))
	for i, o := range all {
		o.Selected = o.Value == selected
		out[i] = o
	}
	return out
}

func colorFor(colors map[string]string, key string) string {
	if c, ok := colors[key]; ok {
		return c
	}
	return neutralColor
}

// IconSlotView is the render state of one icon slot.
type IconSlotView struct {
	DOMID       string
	Status      storage.IconStatus
	Loading     bool
	Ready       bool
	ImageURL    string
	StatusURL   string
	GenerateURL string
	PollTrigger string
	Alt         string
}

// NewIconSlotView derives the slot state, resolving legacy rows by payload.
func NewIconSlotView(ref storage.IconRef, icon storage.Icon) IconSlotView {
	status := icons.Resolve(icon)
	view := IconSlotView{
		DOMID:       fmt.Sprintf("icon-%s-%d-%s", ref.Kind, ref.CardID, ref.Slot),
		Status:      status,
		Loading:     status == storage.IconPending,
		Ready:       status == storage.IconReady,
		StatusURL:   routepath.IconStatus(ref),
		GenerateURL: routepath.IconGenerate(ref),
		PollTrigger: fmt.Sprintf("every %ds", int(timeouts.IconPoll/time.Second)),
		Alt:         fmt.Sprintf("%s icon", ref.Slot),
	}
	if view.Ready {
		view.ImageURL = fmt.Sprintf("%s?v=%x", routepath.Icon(ref), payloadVersion(icon.Payload))
	}
	return view
}

func payloadVersion(payload []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(payload)
	return h.Sum32()
}

type miceCardView struct {
	Card        storage.StructuralCard
	DOMID       string
	Tooltip     string
	Color       string
	EditURL     string
	ResourceURL string
	OpeningIcon IconSlotView
	ClosingIcon IconSlotView
}

func newMiceCardView(card storage.StructuralCard) miceCardView {
	return miceCardView{
		Card:        card,
		DOMID:       fmt.Sprintf("mice-card-%d", card.ID),
		Tooltip:     structuralTooltips[card.Code],
		Color:       colorFor(structuralColors, card.Code),
		EditURL:     routepath.MiceEdit(card.ID),
		ResourceURL: routepath.MiceCardResource(card.ID),
		OpeningIcon: NewIconSlotView(storage.IconRef{Kind: storage.KindStructural, CardID: card.ID, Slot: storage.SlotOpening}, card.OpeningIcon),
		ClosingIcon: NewIconSlotView(storage.IconRef{Kind: storage.KindStructural, CardID: card.ID, Slot: storage.SlotClosing}, card.ClosingIcon),
	}
}

type tryCardView struct {
	Card            storage.CycleCard
	DOMID           string
	Tooltip         string
	Color           string
	EditURL         string
	ResourceURL     string
	ConsequenceIcon IconSlotView
}

func newTryCardView(card storage.CycleCard) tryCardView {
	return tryCardView{
		Card:            card,
		DOMID:           fmt.Sprintf("try-card-%d", card.ID),
		Tooltip:         cycleTooltips[card.Type],
		Color:           colorFor(cycleColors, card.Type),
		EditURL:         routepath.TryEdit(card.ID),
		ResourceURL:     routepath.TryCardResource(card.ID),
		ConsequenceIcon: NewIconSlotView(storage.IconRef{Kind: storage.KindCycle, CardID: card.ID, Slot: storage.SlotConsequence}, card.ConsequenceIcon),
	}
}

type formView struct {
	Card      any
	DOMID     string
	Color     string
	ActionURL string
	CancelURL string
	Options   []Option
}

// NestedCard is one row of the nesting diagram.
type NestedCard struct {
	Card   storage.StructuralCard
	Indent int
	Border string
}

// SortByNesting returns cards ordered by ascending nesting level, keeping
// the input order among equal levels.
func SortByNesting(cards []storage.StructuralCard) []storage.StructuralCard {
	out := append([]storage.StructuralCard(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NestingLevel < out[j].NestingLevel })
	return out
}

// SortByOrder returns cycle cards ordered by ascending position.
func SortByOrder(cards []storage.CycleCard) []storage.CycleCard {
	out := append([]storage.CycleCard(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderNum < out[j].OrderNum })
	return out
}

// Nesting lays out structural cards for the nesting diagram.
func Nesting(cards []storage.StructuralCard) []NestedCard {
	sorted := SortByNesting(cards)
	out := make([]NestedCard, 0, len(sorted))
	for _, card := range sorted {
		out = append(out, NestedCard{
			Card:   card,
			Indent: (card.NestingLevel - 1) * IndentPerLevel,
			Border: borderColor(card.Code),
		})
	}
	return out
}

func borderColor(code string) string {
	switch code {
	case "M":
		return "border-blue-100 border-blue-300"
	case "I":
		return "border-green-100 border-green-300"
	case "C":
		return "border-yellow-100 border-yellow-300"
	case "E":
		return "border-purple-100 border-purple-300"
	default:
		return "border-base-300"
	}
}

// Beat is one opening or closing line on the timeline.
type Beat struct {
	Code string
	Text string
}

// Timeline is the three-act view of a story.
type Timeline struct {
	Setup         []Beat
	Confrontation []storage.CycleCard
	Resolution    []Beat
}

// BuildTimeline orders openings by ascending nesting, cycle cards by
// position, and closings in the reverse of the opening order.
func BuildTimeline(mice []storage.StructuralCard, tries []storage.CycleCard) Timeline {
	sorted := SortByNesting(mice)
	tl := Timeline{
		Setup:         make([]Beat, 0, len(sorted)),
		Confrontation: SortByOrder(tries),
		Resolution:    make([]Beat, 0, len(sorted)),
	}
	for _, card := range sorted {
		tl.Setup = append(tl.Setup, Beat{Code: card.Code, Text: card.Opening})
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		tl.Resolution = append(tl.Resolution, Beat{Code: sorted[i].Code, Text: sorted[i].Closing})
	}
	return tl
}

// TemplateChoice is one entry in the templates modal.
type TemplateChoice struct {
	Name        string
	Title       string
	Description string
}

// PageData is everything the story builder page shows.
type PageData struct {
	Structural   []storage.StructuralCard
	Cycle        []storage.CycleCard
	Templates    []TemplateChoice
	BackendLabel string
}

type helpEntry struct {
	Value string
	Label string
	Text  string
}

type pageView struct {
	PageData
	Help            []helpEntry
	StructuralCards []miceCardView
	CycleCards      []tryCardView
	Nesting         []NestedCard
	Timeline        Timeline
}

func newPageView(data PageData) pageView {
	view := pageView{
		PageData:        data,
		StructuralCards: make([]miceCardView, 0, len(data.Structural)),
		CycleCards:      make([]tryCardView, 0, len(data.Cycle)),
		Nesting:         Nesting(data.Structural),
		Timeline:        BuildTimeline(data.Structural, data.Cycle),
	}
	for _, code := range structuralCodes {
		view.Help = append(view.Help, helpEntry{Value: code.Value, Label: code.Label, Text: structuralTooltips[code.Value]})
	}
	for _, card := range data.Structural {
		view.StructuralCards = append(view.StructuralCards, newMiceCardView(card))
	}
	for _, card := range SortByOrder(data.Cycle) {
		view.CycleCards = append(view.CycleCards, newTryCardView(card))
	}
	return view
}

type probeView struct {
	imagegen.ProbeResult
	Heading    string
	AlertClass string
}

func newProbeView(result imagegen.ProbeResult) probeView {
	view := probeView{ProbeResult: result}
	switch {
	case result.Success:
		view.Heading, view.AlertClass = "Connection successful", "alert-success"
	case strings.Contains(result.Message, "402") || strings.Contains(strings.ToLower(result.Message), "payment required"):
		view.Heading, view.AlertClass = "Payment required", "alert-warning"
	default:
		view.Heading, view.AlertClass = "Connection failed", "alert-error"
	}
	return view
}
