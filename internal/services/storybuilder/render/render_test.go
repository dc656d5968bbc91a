package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Fatalf("body missing %q:\n%s", w, body)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, w := range unwanted {
		if strings.Contains(body, w) {
			t.Fatalf("body unexpectedly contains %q:\n%s", w, body)
		}
	}
}

func TestMiceCardRendersControlsAndSlots(t *testing.T) {
	t.Parallel()

	card := storage.StructuralCard{ID: 4, Code: "C", Opening: "Scrooge is miserly", Closing: "Scrooge gives", NestingLevel: 2}
	body := renderString(t, MiceCard(card))

	assertContains(t, body,
		`id="mice-card-4"`,
		"bg-yellow-100 border-yellow-300",
		"↓ Scrooge is miserly",
		"↑ Scrooge gives",
		"Level 2",
		`hx-get="/mice-edit/4"`,
		`hx-target="#mice-card-4"`,
		`hx-delete="/mice-cards/4"`,
		`id="icon-mice-4-opening"`,
		`id="icon-mice-4-closing"`,
		"Character: Story about internal change.",
	)
}

func TestMiceCardEscapesUserText(t *testing.T) {
	t.Parallel()

	card := storage.StructuralCard{ID: 1, Code: "M", Opening: "<script>alert(1)</script>", Closing: "x", NestingLevel: 1}
	body := renderString(t, MiceCard(card))
	assertNotContains(t, body, "<script>alert(1)</script>")
	assertContains(t, body, "&lt;script&gt;")
}

func TestMiceCardUnknownCodeUsesNeutralColor(t *testing.T) {
	t.Parallel()

	body := renderString(t, MiceCard(storage.StructuralCard{ID: 1, Code: "X", NestingLevel: 1}))
	assertContains(t, body, neutralColor)
}

func TestTryCardRendersOrderAndDeleteConfirm(t *testing.T) {
	t.Parallel()

	card := storage.CycleCard{ID: 9, Type: "Failure", Attempt: "Ask", Failure: "Alibi", Consequence: "Another body", OrderNum: 3}
	body := renderString(t, TryCard(card))

	assertContains(t, body,
		`id="try-card-9"`,
		"Failure #3",
		"bg-red-100 border-red-300",
		"Another body",
		`hx-delete="/try-cards/9"`,
		`hx-target="body"`,
		"hx-confirm=",
		`id="icon-try-9-consequence"`,
	)
}

func TestIconSlotPollsOnlyWhilePending(t *testing.T) {
	t.Parallel()

	ref := storage.IconRef{Kind: storage.KindCycle, CardID: 2, Slot: storage.SlotConsequence}
	tests := []struct {
		name    string
		icon    storage.Icon
		polling bool
	}{
		{name: "pending", icon: storage.Icon{Status: storage.IconPending, Payload: icons.Placeholder()}, polling: true},
		{name: "legacy placeholder", icon: storage.Icon{Payload: icons.Placeholder()}, polling: true},
		{name: "ready", icon: storage.Icon{Status: storage.IconReady, Payload: []byte("png")}},
		{name: "legacy image", icon: storage.Icon{Payload: []byte("png")}},
		{name: "absent", icon: storage.Icon{Status: storage.IconAbsent}},
		{name: "legacy empty", icon: storage.Icon{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			body := renderString(t, IconSlot(ref, tc.icon))
			poll := []string{
				`hx-get="/icons/try/2/consequence/status"`,
				`hx-trigger="every 2s"`,
				`hx-swap="outerHTML"`,
			}
			if tc.polling {
				assertContains(t, body, poll...)
				assertContains(t, body, `src="/static/loading-icon.png"`)
				assertNotContains(t, body, "/generate")
				return
			}
			assertNotContains(t, body, "hx-trigger")
			assertContains(t, body, `hx-post="/icons/try/2/consequence/generate"`)
		})
	}
}

func TestIconSlotReadyLinksVersionedImage(t *testing.T) {
	t.Parallel()

	ref := storage.IconRef{Kind: storage.KindStructural, CardID: 5, Slot: storage.SlotClosing}
	view := NewIconSlotView(ref, storage.Icon{Status: storage.IconReady, Payload: []byte("png")})
	if !view.Ready || view.Loading {
		t.Fatalf("view = %+v, want ready", view)
	}
	if !strings.HasPrefix(view.ImageURL, "/icons/mice/5/closing?v=") {
		t.Fatalf("ImageURL = %q", view.ImageURL)
	}
	other := NewIconSlotView(ref, storage.Icon{Status: storage.IconReady, Payload: []byte("png2")})
	if other.ImageURL == view.ImageURL {
		t.Fatalf("ImageURL did not change with payload: %q", view.ImageURL)
	}
}

func TestFormsPostToCardRoutes(t *testing.T) {
	t.Parallel()

	mice := renderString(t, MiceCreateForm())
	assertContains(t, mice,
		`hx-post="/mice-cards"`,
		`name="nesting_level" value="1"`,
		`hx-get="/clear-form"`,
		`hx-target="#mice-form-container"`,
		`<option value="M">Milieu</option>`,
	)

	try := renderString(t, TryCreateForm())
	assertContains(t, try,
		`hx-post="/try-cards"`,
		`name="order_num" value="1"`,
		`hx-get="/clear-try-form"`,
		`<option value="Trade-off">Trade-off</option>`,
	)
}

func TestEditFormsPrefillAndCancel(t *testing.T) {
	t.Parallel()

	mice := renderString(t, MiceEditForm(storage.StructuralCard{ID: 3, Code: "I", Opening: "Who?", Closing: "Him.", NestingLevel: 2}))
	assertContains(t, mice,
		`id="mice-card-3"`,
		`hx-put="/mice-cards/3"`,
		`<option value="I" selected>Idea</option>`,
		">Who?</textarea>",
		`value="2"`,
		`hx-get="/mice-card/3"`,
	)

	try := renderString(t, TryEditForm(storage.CycleCard{ID: 8, Type: "Moral", Attempt: "a", Failure: "f", Consequence: "c", OrderNum: 4}))
	assertContains(t, try,
		`id="try-card-8"`,
		`hx-put="/try-cards/8"`,
		`hx-target="#try-card-8"`,
		`<option value="Moral" selected>Moral</option>`,
		`name="order_num" value="4"`,
		`hx-get="/try-card/8"`,
	)
}

func TestNestingSortsStablyAndIndents(t *testing.T) {
	t.Parallel()

	cards := []storage.StructuralCard{
		{ID: 1, Code: "E", NestingLevel: 2},
		{ID: 2, Code: "M", NestingLevel: 1},
		{ID: 3, Code: "C", NestingLevel: 2},
		{ID: 4, Code: "I", NestingLevel: 3},
	}
	got := Nesting(cards)
	var ids []int64
	var indents []int
	for _, n := range got {
		ids = append(ids, n.Card.ID)
		indents = append(indents, n.Indent)
	}
	if diff := cmp.Diff([]int64{2, 1, 3, 4}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 20, 20, 40}, indents); diff != "" {
		t.Fatalf("indent mismatch (-want +got):\n%s", diff)
	}
	if cards[0].ID != 1 {
		t.Fatalf("input slice was reordered")
	}
}

func TestNestingDiagramEmptyState(t *testing.T) {
	t.Parallel()

	body := renderString(t, NestingDiagram(nil))
	assertContains(t, body, "No MICE cards to display")

	body = renderString(t, NestingDiagram([]storage.StructuralCard{{ID: 1, Code: "M", NestingLevel: 3}}))
	assertContains(t, body, "border-l-4", "margin-left: 40px")
}

func TestBuildTimelineOrdersActs(t *testing.T) {
	t.Parallel()

	mice := []storage.StructuralCard{
		{ID: 1, Code: "C", Opening: "open C", Closing: "close C", NestingLevel: 2},
		{ID: 2, Code: "M", Opening: "open M", Closing: "close M", NestingLevel: 1},
		{ID: 3, Code: "I", Opening: "open I", Closing: "close I", NestingLevel: 3},
	}
	tries := []storage.CycleCard{
		{ID: 10, OrderNum: 2},
		{ID: 11, OrderNum: 1},
	}
	tl := BuildTimeline(mice, tries)

	wantSetup := []Beat{{Code: "M", Text: "open M"}, {Code: "C", Text: "open C"}, {Code: "I", Text: "open I"}}
	if diff := cmp.Diff(wantSetup, tl.Setup); diff != "" {
		t.Fatalf("setup mismatch (-want +got):\n%s", diff)
	}
	wantResolution := []Beat{{Code: "I", Text: "close I"}, {Code: "C", Text: "close C"}, {Code: "M", Text: "close M"}}
	if diff := cmp.Diff(wantResolution, tl.Resolution); diff != "" {
		t.Fatalf("resolution mismatch (-want +got):\n%s", diff)
	}
	if tl.Confrontation[0].ID != 11 || tl.Confrontation[1].ID != 10 {
		t.Fatalf("confrontation = %+v, want ids [11 10]", tl.Confrontation)
	}
}

func TestStoryTimelineEmptyStates(t *testing.T) {
	t.Parallel()

	body := renderString(t, StoryTimeline(nil, nil))
	assertContains(t, body,
		"Act 1: Setup",
		"Act 2: Confrontation",
		"Act 3: Resolution",
		"No openings",
		"No try/fail cycles",
		"No closings",
	)
}

func TestPageRendersColumnsAndTemplates(t *testing.T) {
	t.Parallel()

	body := renderString(t, Page(PageData{
		Structural:   []storage.StructuralCard{{ID: 1, Code: "M", Opening: "Falls", Closing: "Returns", NestingLevel: 1}},
		Cycle:        []storage.CycleCard{{ID: 2, Type: "Success", Attempt: "Run", OrderNum: 1}},
		Templates:    []TemplateChoice{{Name: "mystery", Title: "Murder Mystery", Description: "A detective story"}},
		BackendLabel: imagegen.Label(imagegen.BackendGradio),
	}))

	assertContains(t, body,
		"<!DOCTYPE html>",
		"htmx.org",
		`id="templates-modal"`,
		`hx-post="/load-template/mystery"`,
		"Murder Mystery",
		`id="mice-help"`,
		"MICE Cards",
		"Try/Fail Cycles",
		"Generated Outline",
		"Nesting Structure",
		"Story Timeline",
		`id="mice-card-1"`,
		`id="try-card-2"`,
		`hx-post="/clear-data"`,
		"Gradio API (Free)",
	)
}

func TestProbeResultStyles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result imagegen.ProbeResult
		want   []string
	}{
		{
			name:   "success",
			result: imagegen.ProbeResult{Success: true, Mode: "Gradio API (Free)", Message: "ok", Bytes: 42},
			want:   []string{"alert-success", "Connection successful", "42 bytes", "Gradio API (Free)"},
		},
		{
			name:   "payment required",
			result: imagegen.ProbeResult{Mode: "Inference API (Paid)", Message: "inference returned status 402"},
			want:   []string{"alert-warning", "Payment required"},
		},
		{
			name:   "failure",
			result: imagegen.ProbeResult{Mode: "OpenAI Images API", Message: "boom"},
			want:   []string{"alert-error", "Connection failed", "boom"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertContains(t, renderString(t, ProbeResult(tc.result)), tc.want...)
		})
	}
}

func TestProbePageLoadsResult(t *testing.T) {
	t.Parallel()

	body := renderString(t, ProbePage("Disabled"))
	assertContains(t, body,
		`id="status-container"`,
		`hx-get="/test-image-api/run"`,
		`hx-trigger="load"`,
		"Testing Disabled",
	)
}
