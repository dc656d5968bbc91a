package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/louisbranch/storybuilder/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const dsnOptions = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// Store provides SQLite-backed persistence for story builder cards.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens and migrates a story builder SQLite store, creating the parent
// directory when needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", "file:"+cleanPath+"?"+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations(ctx context.Context) error {
	_, err := sqlitemigrate.Apply(ctx, s.sqlDB, migrations.FS, ".")
	return err
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// ListStructuralCards returns a story's MICE cards in creation order.
func (s *Store) ListStructuralCards(ctx context.Context, storyID int64) ([]storage.StructuralCard, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+structuralColumns+` FROM mice_cards WHERE story_id = ? ORDER BY id`,
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list structural cards: %w", err)
	}
	defer rows.Close()

	cards := []storage.StructuralCard{}
	for rows.Next() {
		card, err := scanStructural(rows)
		if err != nil {
			return nil, fmt.Errorf("scan structural card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate structural cards: %w", err)
	}
	return cards, nil
}

// GetStructuralCard loads one MICE card.
func (s *Store) GetStructuralCard(ctx context.Context, id int64) (storage.StructuralCard, error) {
	if err := s.ready(); err != nil {
		return storage.StructuralCard{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+structuralColumns+` FROM mice_cards WHERE id = ?`, id)
	card, err := scanStructural(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.StructuralCard{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.StructuralCard{}, fmt.Errorf("get structural card: %w", err)
	}
	return card, nil
}

// CreateStructuralCard inserts a MICE card with absent icon slots.
func (s *Store) CreateStructuralCard(ctx context.Context, storyID int64, input storage.StructuralCardInput) (storage.StructuralCard, error) {
	if err := s.ready(); err != nil {
		return storage.StructuralCard{}, err
	}
	id, err := insertStructural(ctx, s.sqlDB, storyID, input)
	if err != nil {
		return storage.StructuralCard{}, err
	}
	return s.GetStructuralCard(ctx, id)
}

// UpdateStructuralCard overwrites the editable fields of a MICE card.
func (s *Store) UpdateStructuralCard(ctx context.Context, id int64, input storage.StructuralCardInput) (storage.StructuralCard, error) {
	if err := s.ready(); err != nil {
		return storage.StructuralCard{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE mice_cards SET code = ?, opening = ?, closing = ?, nesting_level = ? WHERE id = ?`,
		input.Code, input.Opening, input.Closing, input.NestingLevel, id,
	)
	if err != nil {
		return storage.StructuralCard{}, fmt.Errorf("update structural card: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return storage.StructuralCard{}, err
	}
	return s.GetStructuralCard(ctx, id)
}

// DeleteStructuralCard removes one MICE card.
func (s *Store) DeleteStructuralCard(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM mice_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete structural card: %w", err)
	}
	return requireAffected(res)
}

// ClearStory deletes every card of a story.
func (s *Store) ClearStory(ctx context.Context, storyID int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear story: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteStory(ctx, tx, storyID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear story: %w", err)
	}
	return nil
}

// ReplaceStory atomically swaps every card of a story for content. Cycle
// cards keep their relative order and are renumbered densely.
func (s *Store) ReplaceStory(ctx context.Context, storyID int64, content storage.StoryContent) error {
	if err := s.ready(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace story: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteStory(ctx, tx, storyID); err != nil {
		return err
	}
	for _, input := range content.Structural {
		if _, err := insertStructural(ctx, tx, storyID, input); err != nil {
			return err
		}
	}
	for i, input := range sortedCycleInputs(content.Cycle) {
		input.OrderNum = i + 1
		if _, err := insertCycle(ctx, tx, storyID, input); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace story: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	execer
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const structuralColumns = `id, story_id, code, opening, closing, nesting_level, act1_icon, act1_icon_status, act3_icon, act3_icon_status`

func scanStructural(row scanner) (storage.StructuralCard, error) {
	var card storage.StructuralCard
	var openingStatus, closingStatus string
	if err := row.Scan(
		&card.ID,
		&card.StoryID,
		&card.Code,
		&card.Opening,
		&card.Closing,
		&card.NestingLevel,
		&card.OpeningIcon.Payload,
		&openingStatus,
		&card.ClosingIcon.Payload,
		&closingStatus,
	); err != nil {
		return storage.StructuralCard{}, err
	}
	card.OpeningIcon.Status = storage.IconStatus(openingStatus)
	card.ClosingIcon.Status = storage.IconStatus(closingStatus)
	return card, nil
}

func insertStructural(ctx context.Context, db execer, storyID int64, input storage.StructuralCardInput) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO mice_cards (story_id, code, opening, closing, nesting_level, act1_icon_status, act3_icon_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		storyID, input.Code, input.Opening, input.Closing, input.NestingLevel,
		string(storage.IconAbsent), string(storage.IconAbsent),
	)
	if err != nil {
		return 0, fmt.Errorf("insert structural card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("structural card id: %w", err)
	}
	return id, nil
}

func deleteStory(ctx context.Context, db execer, storyID int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM mice_cards WHERE story_id = ?`, storyID); err != nil {
		return fmt.Errorf("delete structural cards: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM try_cards WHERE story_id = ?`, storyID); err != nil {
		return fmt.Errorf("delete cycle cards: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
