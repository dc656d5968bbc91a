package mice

import (
	"context"
	"fmt"

	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// CardStore is the storage subset the MICE module needs.
type CardStore interface {
	GetStructuralCard(ctx context.Context, id int64) (storage.StructuralCard, error)
	CreateStructuralCard(ctx context.Context, storyID int64, input storage.StructuralCardInput) (storage.StructuralCard, error)
	UpdateStructuralCard(ctx context.Context, id int64, input storage.StructuralCardInput) (storage.StructuralCard, error)
	DeleteStructuralCard(ctx context.Context, id int64) error
}

type service struct {
	store CardStore
	icons module.Icons
}

func newService(store CardStore, icons module.Icons) service {
	return service{store: store, icons: icons}
}

func (s service) get(ctx context.Context, id int64) (storage.StructuralCard, error) {
	return s.store.GetStructuralCard(ctx, id)
}

func (s service) create(ctx context.Context, input storage.StructuralCardInput) (storage.StructuralCard, error) {
	card, err := s.store.CreateStructuralCard(ctx, storage.DefaultStoryID, input)
	if err != nil {
		return storage.StructuralCard{}, fmt.Errorf("create mice card: %w", err)
	}
	s.requestIcons(ctx, card, storage.StructuralCard{})
	return card, nil
}

func (s service) update(ctx context.Context, id int64, input storage.StructuralCardInput) (storage.StructuralCard, error) {
	before, err := s.store.GetStructuralCard(ctx, id)
	if err != nil {
		return storage.StructuralCard{}, err
	}
	card, err := s.store.UpdateStructuralCard(ctx, id, input)
	if err != nil {
		return storage.StructuralCard{}, err
	}
	s.requestIcons(ctx, card, before)
	return card, nil
}

func (s service) delete(ctx context.Context, id int64) error {
	return s.store.DeleteStructuralCard(ctx, id)
}

// requestIcons queues each slot whose text differs from before.
func (s service) requestIcons(ctx context.Context, card, before storage.StructuralCard) {
	for _, slot := range []storage.SlotName{storage.SlotOpening, storage.SlotClosing} {
		text := card.SourceText(slot)
		if text == before.SourceText(slot) {
			continue
		}
		ref := storage.IconRef{Kind: storage.KindStructural, CardID: card.ID, Slot: slot}
		s.icons.AutoRequest(ctx, ref, text)
	}
}
