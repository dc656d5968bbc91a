package storage

import "fmt"

// IconStatus is the lifecycle state of one icon slot.
type IconStatus string

const (
	// IconStatusUnknown marks rows written before slot status was tracked.
	IconStatusUnknown IconStatus = ""
	IconAbsent        IconStatus = "absent"
	IconPending       IconStatus = "pending"
	IconReady         IconStatus = "ready"
)

// Icon is a stored icon slot: status plus image payload.
type Icon struct {
	Status  IconStatus
	Payload []byte
	// JobID names the generation job that owns a pending slot.
	JobID string
}

// CardKind names the card table that owns a slot.
type CardKind string

const (
	KindStructural CardKind = "mice"
	KindCycle      CardKind = "try"
)

// SlotName names one icon slot on a card.
type SlotName string

const (
	SlotOpening     SlotName = "opening"
	SlotClosing     SlotName = "closing"
	SlotConsequence SlotName = "consequence"
)

// IconRef addresses one icon slot on one card.
type IconRef struct {
	Kind   CardKind
	CardID int64
	Slot   SlotName
}

// String formats the ref as kind/id/slot.
func (r IconRef) String() string {
	return fmt.Sprintf("%s/%d/%s", r.Kind, r.CardID, r.Slot)
}

// Label is the kind/slot pair without the card id, used as a metric label.
func (r IconRef) Label() string {
	return string(r.Kind) + "/" + string(r.Slot)
}

// ParseIconRef validates a kind/slot pair from a request path.
func ParseIconRef(kind, slot string, cardID int64) (IconRef, error) {
	ref := IconRef{Kind: CardKind(kind), CardID: cardID, Slot: SlotName(slot)}
	if !ref.Valid() {
		return IconRef{}, fmt.Errorf("unknown icon slot %s/%s", kind, slot)
	}
	return ref, nil
}

// Valid reports whether the slot exists on the kind.
func (r IconRef) Valid() bool {
	switch r.Kind {
	case KindStructural:
		return r.Slot == SlotOpening || r.Slot == SlotClosing
	case KindCycle:
		return r.Slot == SlotConsequence
	default:
		return false
	}
}

// SourceText returns the card text that feeds the slot's prompt.
func (c StructuralCard) SourceText(slot SlotName) string {
	if slot == SlotClosing {
		return c.Closing
	}
	return c.Opening
}

// Icon returns the stored icon for a structural card slot.
func (c StructuralCard) Icon(slot SlotName) Icon {
	if slot == SlotClosing {
		return c.ClosingIcon
	}
	return c.OpeningIcon
}
