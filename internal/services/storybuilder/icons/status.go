package icons

import (
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// Resolve returns the effective status of an icon. Rows written before
// status tracking carry no status; for those an empty payload is absent,
// the placeholder is pending, and anything else is ready.
func Resolve(icon storage.Icon) storage.IconStatus {
	if icon.Status != storage.IconStatusUnknown {
		return icon.Status
	}
	switch {
	case len(icon.Payload) == 0:
		return storage.IconAbsent
	case IsPlaceholder(icon.Payload):
		return storage.IconPending
	default:
		return storage.IconReady
	}
}

// IsLoading reports whether a slot should keep polling.
func IsLoading(icon storage.Icon) bool {
	return Resolve(icon) == storage.IconPending
}

// PromptLabel is the prompt prefix for a slot.
func PromptLabel(slot storage.SlotName) string {
	switch slot {
	case storage.SlotOpening:
		return "story opening"
	case storage.SlotClosing:
		return "story ending"
	case storage.SlotConsequence:
		return "consequence"
	default:
		return ""
	}
}
