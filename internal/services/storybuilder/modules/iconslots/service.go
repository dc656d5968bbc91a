package iconslots

import (
	"context"
	"errors"

	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// SlotStore is the storage subset the icon slot module needs.
type SlotStore interface {
	GetIcon(ctx context.Context, ref storage.IconRef) (storage.Icon, error)
	GetStructuralCard(ctx context.Context, id int64) (storage.StructuralCard, error)
	GetCycleCard(ctx context.Context, id int64) (storage.CycleCard, error)
}

type service struct {
	store SlotStore
	icons module.Icons
}

func newService(store SlotStore, icons module.Icons) service {
	return service{store: store, icons: icons}
}

func (s service) icon(ctx context.Context, ref storage.IconRef) (storage.Icon, error) {
	return s.store.GetIcon(ctx, ref)
}

// generate queues a fresh icon for the slot's current text and returns the
// slot state afterwards. Queue refusals leave the slot as the queue set it.
func (s service) generate(ctx context.Context, ref storage.IconRef) (storage.Icon, error) {
	text, err := s.sourceText(ctx, ref)
	if err != nil {
		return storage.Icon{}, err
	}
	_ = s.icons.Request(ctx, ref, text)
	return s.store.GetIcon(ctx, ref)
}

func (s service) sourceText(ctx context.Context, ref storage.IconRef) (string, error) {
	switch ref.Kind {
	case storage.KindStructural:
		card, err := s.store.GetStructuralCard(ctx, ref.CardID)
		if err != nil {
			return "", err
		}
		return card.SourceText(ref.Slot), nil
	case storage.KindCycle:
		card, err := s.store.GetCycleCard(ctx, ref.CardID)
		if err != nil {
			return "", err
		}
		return card.Consequence, nil
	default:
		return "", errors.New("unknown card kind")
	}
}
