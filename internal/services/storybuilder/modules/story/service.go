package story

import (
	"context"
	"fmt"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/render"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storytemplates"
)

// StoryStore is the storage subset the story module needs.
type StoryStore interface {
	ListStructuralCards(ctx context.Context, storyID int64) ([]storage.StructuralCard, error)
	ListCycleCards(ctx context.Context, storyID int64) ([]storage.CycleCard, error)
	ClearStory(ctx context.Context, storyID int64) error
	ReplaceStory(ctx context.Context, storyID int64, content storage.StoryContent) error
}

type service struct {
	store   StoryStore
	catalog *storytemplates.Catalog
}

func newService(store StoryStore, catalog *storytemplates.Catalog) service {
	return service{store: store, catalog: catalog}
}

func (s service) page(ctx context.Context) (render.PageData, error) {
	structural, err := s.store.ListStructuralCards(ctx, storage.DefaultStoryID)
	if err != nil {
		return render.PageData{}, fmt.Errorf("list mice cards: %w", err)
	}
	cycle, err := s.store.ListCycleCards(ctx, storage.DefaultStoryID)
	if err != nil {
		return render.PageData{}, fmt.Errorf("list try cards: %w", err)
	}
	data := render.PageData{Structural: structural, Cycle: cycle}
	if s.catalog != nil {
		for _, tmpl := range s.catalog.List() {
			data.Templates = append(data.Templates, render.TemplateChoice{
				Name:        tmpl.Name,
				Title:       tmpl.Title,
				Description: tmpl.Description,
			})
		}
	}
	return data, nil
}

func (s service) clear(ctx context.Context) error {
	return s.store.ClearStory(ctx, storage.DefaultStoryID)
}

// loadTemplate replaces every card of the default story with the named
// template. Unknown names return storytemplates.ErrUnknownTemplate.
func (s service) loadTemplate(ctx context.Context, name string) error {
	if s.catalog == nil {
		return fmt.Errorf("%w: %s", storytemplates.ErrUnknownTemplate, name)
	}
	tmpl, err := s.catalog.Get(name)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceStory(ctx, storage.DefaultStoryID, tmpl.Content()); err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}
	return nil
}
