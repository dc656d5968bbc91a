package storage

import (
	"context"
	"errors"
)

// DefaultStoryID groups every card until multi-story support exists.
const DefaultStoryID int64 = 1

// ErrNotFound reports that a card id does not exist.
var ErrNotFound = errors.New("card not found")

// StructuralCard is one MICE frame with an opening and a closing beat.
type StructuralCard struct {
	ID           int64
	StoryID      int64
	Code         string
	Opening      string
	Closing      string
	NestingLevel int
	OpeningIcon  Icon
	ClosingIcon  Icon
}

// StructuralCardInput carries the caller-editable fields of a MICE card.
type StructuralCardInput struct {
	Code         string
	Opening      string
	Closing      string
	NestingLevel int
}

// CycleCard is one Try/Fail beat with an explicit sequence position.
type CycleCard struct {
	ID              int64
	StoryID         int64
	Type            string
	Attempt         string
	Failure         string
	Consequence     string
	OrderNum        int
	ConsequenceIcon Icon
}

// CycleCardInput carries the caller-editable fields of a Try/Fail card.
type CycleCardInput struct {
	Type        string
	Attempt     string
	Failure     string
	Consequence string
	OrderNum    int
}

// StoryContent is a complete set of cards for one story.
type StoryContent struct {
	Structural []StructuralCardInput
	Cycle      []CycleCardInput
}

// Store is the persistence contract used by handlers, the icon queue, and
// the maintenance CLI.
type Store interface {
	Close() error

	ListStructuralCards(ctx context.Context, storyID int64) ([]StructuralCard, error)
	GetStructuralCard(ctx context.Context, id int64) (StructuralCard, error)
	CreateStructuralCard(ctx context.Context, storyID int64, input StructuralCardInput) (StructuralCard, error)
	UpdateStructuralCard(ctx context.Context, id int64, input StructuralCardInput) (StructuralCard, error)
	DeleteStructuralCard(ctx context.Context, id int64) error

	ListCycleCards(ctx context.Context, storyID int64) ([]CycleCard, error)
	GetCycleCard(ctx context.Context, id int64) (CycleCard, error)
	CreateCycleCard(ctx context.Context, storyID int64, input CycleCardInput) (CycleCard, error)
	UpdateCycleCard(ctx context.Context, id int64, input CycleCardInput) (CycleCard, error)
	MoveCycleCard(ctx context.Context, id int64, position int) (CycleCard, error)
	DeleteCycleCard(ctx context.Context, id int64) error

	ClearStory(ctx context.Context, storyID int64) error
	ReplaceStory(ctx context.Context, storyID int64, content StoryContent) error

	GetIcon(ctx context.Context, ref IconRef) (Icon, error)
	PutIcon(ctx context.Context, ref IconRef, icon Icon) error
	// CompleteIcon writes icon only while jobID still owns the pending slot
	// and its source text still equals sourceText. It reports whether it
	// wrote.
	CompleteIcon(ctx context.Context, ref IconRef, jobID, sourceText string, icon Icon) (bool, error)
	// ReleaseIcon returns a pending slot owned by jobID to absent. A slot
	// taken over by a newer job is left alone.
	ReleaseIcon(ctx context.Context, ref IconRef, jobID string) (bool, error)
	ResetPendingIcons(ctx context.Context) (int64, error)
}
