package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/ordering"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

const cycleColumns = `id, story_id, type, attempt, failure, consequence, order_num, consequence_icon, consequence_icon_status`

// position is the lightweight view of a cycle card used while reordering.
type position struct {
	id    int64
	order int
}

// ListCycleCards returns a story's Try/Fail cards by order, then id.
func (s *Store) ListCycleCards(ctx context.Context, storyID int64) ([]storage.CycleCard, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+cycleColumns+` FROM try_cards WHERE story_id = ? ORDER BY order_num, id`,
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cycle cards: %w", err)
	}
	defer rows.Close()

	cards := []storage.CycleCard{}
	for rows.Next() {
		card, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle cards: %w", err)
	}
	return cards, nil
}

// GetCycleCard loads one Try/Fail card.
func (s *Store) GetCycleCard(ctx context.Context, id int64) (storage.CycleCard, error) {
	if err := s.ready(); err != nil {
		return storage.CycleCard{}, err
	}
	return getCycle(ctx, s.sqlDB, id)
}

// CreateCycleCard inserts a card at input.OrderNum and renumbers the story
// to 1..N. Positions below 1 count back from the end and out-of-range
// positions clamp to the front or the end. The returned card carries its
// final position.
func (s *Store) CreateCycleCard(ctx context.Context, storyID int64, input storage.CycleCardInput) (storage.CycleCard, error) {
	if err := s.ready(); err != nil {
		return storage.CycleCard{}, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.CycleCard{}, fmt.Errorf("begin create cycle card: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := listPositions(ctx, tx, storyID)
	if err != nil {
		return storage.CycleCard{}, err
	}
	id, err := insertCycle(ctx, tx, storyID, input)
	if err != nil {
		return storage.CycleCard{}, err
	}
	seq = ordering.Insert(seq, position{id: id, order: input.OrderNum}, input.OrderNum)
	if err := renumber(ctx, tx, seq); err != nil {
		return storage.CycleCard{}, err
	}

	card, err := getCycle(ctx, tx, id)
	if err != nil {
		return storage.CycleCard{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.CycleCard{}, fmt.Errorf("commit create cycle card: %w", err)
	}
	return card, nil
}

// MoveCycleCard moves a card to a new 1-based position and renumbers the
// story. It returns storage.ErrNotFound without changes for unknown ids.
func (s *Store) MoveCycleCard(ctx context.Context, id int64, newPosition int) (storage.CycleCard, error) {
	if err := s.ready(); err != nil {
		return storage.CycleCard{}, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.CycleCard{}, fmt.Errorf("begin move cycle card: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	card, err := getCycle(ctx, tx, id)
	if err != nil {
		return storage.CycleCard{}, err
	}
	if err := moveTo(ctx, tx, card, newPosition); err != nil {
		return storage.CycleCard{}, err
	}
	if card, err = getCycle(ctx, tx, id); err != nil {
		return storage.CycleCard{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.CycleCard{}, fmt.Errorf("commit move cycle card: %w", err)
	}
	return card, nil
}

// UpdateCycleCard overwrites the content fields of a card. When OrderNum
// differs from the stored position the card is moved in the same
// transaction.
func (s *Store) UpdateCycleCard(ctx context.Context, id int64, input storage.CycleCardInput) (storage.CycleCard, error) {
	if err := s.ready(); err != nil {
		return storage.CycleCard{}, err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.CycleCard{}, fmt.Errorf("begin update cycle card: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getCycle(ctx, tx, id)
	if err != nil {
		return storage.CycleCard{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE try_cards SET type = ?, attempt = ?, failure = ?, consequence = ? WHERE id = ?`,
		input.Type, input.Attempt, input.Failure, input.Consequence, id,
	); err != nil {
		return storage.CycleCard{}, fmt.Errorf("update cycle card: %w", err)
	}
	if err := moveTo(ctx, tx, current, input.OrderNum); err != nil {
		return storage.CycleCard{}, err
	}

	card, err := getCycle(ctx, tx, id)
	if err != nil {
		return storage.CycleCard{}, err
	}
	if err := tx.Commit(); err != nil {
		return storage.CycleCard{}, fmt.Errorf("commit update cycle card: %w", err)
	}
	return card, nil
}

// DeleteCycleCard removes one card without renumbering the rest.
func (s *Store) DeleteCycleCard(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM try_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cycle card: %w", err)
	}
	return requireAffected(res)
}

func moveTo(ctx context.Context, tx *sql.Tx, card storage.CycleCard, newPosition int) error {
	if card.OrderNum == newPosition {
		return nil
	}
	seq, err := listPositions(ctx, tx, card.StoryID)
	if err != nil {
		return err
	}
	target := position{id: card.ID, order: card.OrderNum}
	seq = ordering.Move(seq, func(p position) bool { return p.id == card.ID }, target, newPosition)
	return renumber(ctx, tx, seq)
}

func listPositions(ctx context.Context, db queryer, storyID int64) ([]position, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, order_num FROM try_cards WHERE story_id = ? ORDER BY order_num, id`,
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cycle positions: %w", err)
	}
	defer rows.Close()

	var seq []position
	for rows.Next() {
		var p position
		if err := rows.Scan(&p.id, &p.order); err != nil {
			return nil, fmt.Errorf("scan cycle position: %w", err)
		}
		seq = append(seq, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle positions: %w", err)
	}
	return seq, nil
}

// renumber writes order_num = index+1 for every row whose stored value
// differs.
func renumber(ctx context.Context, db execer, seq []position) error {
	for i, p := range seq {
		want := i + 1
		if p.order == want {
			continue
		}
		if _, err := db.ExecContext(ctx, `UPDATE try_cards SET order_num = ? WHERE id = ?`, want, p.id); err != nil {
			return fmt.Errorf("renumber cycle card %d: %w", p.id, err)
		}
	}
	return nil
}

func getCycle(ctx context.Context, db queryer, id int64) (storage.CycleCard, error) {
	row := db.QueryRowContext(ctx, `SELECT `+cycleColumns+` FROM try_cards WHERE id = ?`, id)
	card, err := scanCycle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.CycleCard{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CycleCard{}, fmt.Errorf("get cycle card: %w", err)
	}
	return card, nil
}

func scanCycle(row scanner) (storage.CycleCard, error) {
	var card storage.CycleCard
	var status string
	if err := row.Scan(
		&card.ID,
		&card.StoryID,
		&card.Type,
		&card.Attempt,
		&card.Failure,
		&card.Consequence,
		&card.OrderNum,
		&card.ConsequenceIcon.Payload,
		&status,
	); err != nil {
		return storage.CycleCard{}, err
	}
	card.ConsequenceIcon.Status = storage.IconStatus(status)
	return card, nil
}

func insertCycle(ctx context.Context, db execer, storyID int64, input storage.CycleCardInput) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO try_cards (story_id, type, attempt, failure, consequence, order_num, consequence_icon_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		storyID, input.Type, input.Attempt, input.Failure, input.Consequence, input.OrderNum,
		string(storage.IconAbsent),
	)
	if err != nil {
		return 0, fmt.Errorf("insert cycle card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("cycle card id: %w", err)
	}
	return id, nil
}

func sortedCycleInputs(inputs []storage.CycleCardInput) []storage.CycleCardInput {
	out := append([]storage.CycleCardInput(nil), inputs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderNum < out[j].OrderNum })
	return out
}
