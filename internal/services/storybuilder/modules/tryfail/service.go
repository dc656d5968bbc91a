package tryfail

import (
	"context"
	"fmt"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/metrics"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// CardStore is the storage subset the Try/Fail module needs.
type CardStore interface {
	GetCycleCard(ctx context.Context, id int64) (storage.CycleCard, error)
	CreateCycleCard(ctx context.Context, storyID int64, input storage.CycleCardInput) (storage.CycleCard, error)
	UpdateCycleCard(ctx context.Context, id int64, input storage.CycleCardInput) (storage.CycleCard, error)
	MoveCycleCard(ctx context.Context, id int64, position int) (storage.CycleCard, error)
	DeleteCycleCard(ctx context.Context, id int64) error
}

type service struct {
	store   CardStore
	icons   module.Icons
	metrics *metrics.Metrics
}

func newService(store CardStore, icons module.Icons, m *metrics.Metrics) service {
	return service{store: store, icons: icons, metrics: m}
}

// updateResult reports what an update changed.
type updateResult struct {
	card  storage.CycleCard
	moved bool
}

func (s service) get(ctx context.Context, id int64) (storage.CycleCard, error) {
	return s.store.GetCycleCard(ctx, id)
}

// create inserts the card at input.OrderNum, shifting later cards down.
func (s service) create(ctx context.Context, input storage.CycleCardInput) (storage.CycleCard, error) {
	card, err := s.store.CreateCycleCard(ctx, storage.DefaultStoryID, input)
	if err != nil {
		return storage.CycleCard{}, fmt.Errorf("create try card: %w", err)
	}
	s.icons.AutoRequest(ctx, consequenceRef(card.ID), card.Consequence)
	return card, nil
}

func (s service) update(ctx context.Context, id int64, input storage.CycleCardInput) (updateResult, error) {
	before, err := s.store.GetCycleCard(ctx, id)
	if err != nil {
		return updateResult{}, err
	}
	card, err := s.store.UpdateCycleCard(ctx, id, input)
	if err != nil {
		return updateResult{}, err
	}
	moved := card.OrderNum != before.OrderNum
	if moved {
		s.metrics.IncReorders()
	}
	if card.Consequence != before.Consequence {
		s.icons.AutoRequest(ctx, consequenceRef(card.ID), card.Consequence)
	}
	return updateResult{card: card, moved: moved}, nil
}

// move counts a reorder only when the card's stored position changed.
func (s service) move(ctx context.Context, id int64, position int) (storage.CycleCard, error) {
	before, err := s.store.GetCycleCard(ctx, id)
	if err != nil {
		return storage.CycleCard{}, err
	}
	card, err := s.store.MoveCycleCard(ctx, id, position)
	if err != nil {
		return storage.CycleCard{}, err
	}
	if card.OrderNum != before.OrderNum {
		s.metrics.IncReorders()
	}
	return card, nil
}

func (s service) delete(ctx context.Context, id int64) error {
	return s.store.DeleteCycleCard(ctx, id)
}

func consequenceRef(id int64) storage.IconRef {
	return storage.IconRef{Kind: storage.KindCycle, CardID: id, Slot: storage.SlotConsequence}
}
