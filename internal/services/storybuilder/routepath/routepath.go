// Package routepath stores canonical HTTP paths for story builder modules.
package routepath

import (
	"strconv"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

const (
	Root    = "/"
	Health  = "/up"
	Metrics = "/metrics"

	MiceForm                = "/mice-form"
	MiceFormClear           = "/clear-form"
	MiceCards               = "/mice-cards"
	MiceCardsPrefix         = "/mice-cards/"
	MiceCardResourcePattern = MiceCardsPrefix + "{id}"
	MiceCardPrefix          = "/mice-card/"
	MiceCardPattern         = MiceCardPrefix + "{id}"
	MiceEditPrefix          = "/mice-edit/"
	MiceEditPattern         = MiceEditPrefix + "{id}"
	TryForm                 = "/try-form"
	TryFormClear            = "/clear-try-form"
	TryCards                = "/try-cards"
	TryCardsPrefix          = "/try-cards/"
	TryCardResourcePattern  = TryCardsPrefix + "{id}"
	TryCardReorder          = TryCardsPrefix + "{id}/reorder"
	TryCardPrefix           = "/try-card/"
	TryCardPattern          = TryCardPrefix + "{id}"
	TryEditPrefix           = "/try-edit/"
	TryEditPattern          = TryEditPrefix + "{id}"
	ClearData               = "/clear-data"
	LoadTemplatePrefix      = "/load-template/"
	LoadTemplatePattern     = LoadTemplatePrefix + "{name}"
	IconsPrefix             = "/icons/"
	IconPattern             = IconsPrefix + "{kind}/{id}/{slot}"
	IconStatusPattern       = IconPattern + "/status"
	IconGeneratePattern     = IconPattern + "/generate"
	ProbePage               = "/test-image-api"
	ProbeRun                = "/test-image-api/run"
	StaticPrefix            = "/static/"
	PlaceholderIcon         = StaticPrefix + "loading-icon.png"
)

// MiceCard returns the structural card fragment route.
func MiceCard(id int64) string {
	return MiceCardPrefix + formatID(id)
}

// MiceEdit returns the structural card edit form route.
func MiceEdit(id int64) string {
	return MiceEditPrefix + formatID(id)
}

// MiceCardResource returns the structural card update/delete route.
func MiceCardResource(id int64) string {
	return MiceCardsPrefix + formatID(id)
}

// TryCard returns the cycle card fragment route.
func TryCard(id int64) string {
	return TryCardPrefix + formatID(id)
}

// TryEdit returns the cycle card edit form route.
func TryEdit(id int64) string {
	return TryEditPrefix + formatID(id)
}

// TryCardResource returns the cycle card update/delete route.
func TryCardResource(id int64) string {
	return TryCardsPrefix + formatID(id)
}

// TryCardReorderPath returns the cycle card reorder route.
func TryCardReorderPath(id int64) string {
	return TryCardResource(id) + "/reorder"
}

// LoadTemplate returns the template load route.
func LoadTemplate(name string) string {
	return LoadTemplatePrefix + name
}

// Icon returns the icon image route for a slot.
func Icon(ref storage.IconRef) string {
	return IconsPrefix + string(ref.Kind) + "/" + formatID(ref.CardID) + "/" + string(ref.Slot)
}

// IconStatus returns the polling route for a slot.
func IconStatus(ref storage.IconRef) string {
	return Icon(ref) + "/status"
}

// IconGenerate returns the manual generation route for a slot.
func IconGenerate(ref storage.IconRef) string {
	return Icon(ref) + "/generate"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
