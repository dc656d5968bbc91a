package routepath

import (
	"testing"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

func TestTopLevelRouteConstants(t *testing.T) {
	t.Parallel()

	if Root != "/" {
		t.Fatalf("Root = %q", Root)
	}
	if Health != "/up" {
		t.Fatalf("Health = %q", Health)
	}
	if PlaceholderIcon != "/static/loading-icon.png" {
		t.Fatalf("PlaceholderIcon = %q", PlaceholderIcon)
	}
	if TryCardReorder != "/try-cards/{id}/reorder" {
		t.Fatalf("TryCardReorderPattern = %q", TryCardReorder)
	}
}

func TestCardRouteBuilders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "MiceCard", got: MiceCard(3), want: "/mice-card/3"},
		{name: "MiceEdit", got: MiceEdit(3), want: "/mice-edit/3"},
		{name: "MiceCardResource", got: MiceCardResource(3), want: "/mice-cards/3"},
		{name: "TryCard", got: TryCard(7), want: "/try-card/7"},
		{name: "TryEdit", got: TryEdit(7), want: "/try-edit/7"},
		{name: "TryCardResource", got: TryCardResource(7), want: "/try-cards/7"},
		{name: "TryCardReorderPath", got: TryCardReorderPath(7), want: "/try-cards/7/reorder"},
		{name: "LoadTemplate", got: LoadTemplate("mystery"), want: "/load-template/mystery"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("%s() = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestIconRouteBuilders(t *testing.T) {
	t.Parallel()

	ref := storage.IconRef{Kind: storage.KindCycle, CardID: 12, Slot: storage.SlotConsequence}
	if got := Icon(ref); got != "/icons/try/12/consequence" {
		t.Fatalf("Icon() = %q", got)
	}
	if got := IconStatus(ref); got != "/icons/try/12/consequence/status" {
		t.Fatalf("IconStatus() = %q", got)
	}
	if got := IconGenerate(ref); got != "/icons/try/12/consequence/generate" {
		t.Fatalf("IconGenerate() = %q", got)
	}
}
