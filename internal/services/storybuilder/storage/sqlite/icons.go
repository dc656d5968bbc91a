package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// iconColumns maps a slot to its table and the columns that back it.
type iconColumns struct {
	table   string
	payload string
	status  string
	job     string
	source  string
}

var slotColumns = map[storage.CardKind]map[storage.SlotName]iconColumns{
	storage.KindStructural: {
		storage.SlotOpening: {table: "mice_cards", payload: "act1_icon", status: "act1_icon_status", job: "act1_icon_job", source: "opening"},
		storage.SlotClosing: {table: "mice_cards", payload: "act3_icon", status: "act3_icon_status", job: "act3_icon_job", source: "closing"},
	},
	storage.KindCycle: {
		storage.SlotConsequence: {table: "try_cards", payload: "consequence_icon", status: "consequence_icon_status", job: "consequence_icon_job", source: "consequence"},
	},
}

func columnsFor(ref storage.IconRef) (iconColumns, error) {
	cols, ok := slotColumns[ref.Kind][ref.Slot]
	if !ok {
		return iconColumns{}, fmt.Errorf("unknown icon slot %s", ref)
	}
	return cols, nil
}

// GetIcon loads one icon slot.
func (s *Store) GetIcon(ctx context.Context, ref storage.IconRef) (storage.Icon, error) {
	if err := s.ready(); err != nil {
		return storage.Icon{}, err
	}
	cols, err := columnsFor(ref)
	if err != nil {
		return storage.Icon{}, err
	}

	var icon storage.Icon
	var status string
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT `+cols.payload+`, `+cols.status+`, `+cols.job+` FROM `+cols.table+` WHERE id = ?`,
		ref.CardID,
	).Scan(&icon.Payload, &status, &icon.JobID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Icon{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Icon{}, fmt.Errorf("get icon %s: %w", ref, err)
	}
	icon.Status = storage.IconStatus(status)
	return icon, nil
}

// PutIcon overwrites one icon slot unconditionally.
func (s *Store) PutIcon(ctx context.Context, ref storage.IconRef, icon storage.Icon) error {
	if err := s.ready(); err != nil {
		return err
	}
	cols, err := columnsFor(ref)
	if err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE `+cols.table+` SET `+cols.payload+` = ?, `+cols.status+` = ?, `+cols.job+` = ? WHERE id = ?`,
		payloadArg(icon.Payload), string(icon.Status), icon.JobID, ref.CardID,
	)
	if err != nil {
		return fmt.Errorf("put icon %s: %w", ref, err)
	}
	return requireAffected(res)
}

// CompleteIcon writes icon only while jobID owns the pending slot and its
// source text still equals sourceText.
func (s *Store) CompleteIcon(ctx context.Context, ref storage.IconRef, jobID, sourceText string, icon storage.Icon) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	cols, err := columnsFor(ref)
	if err != nil {
		return false, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE `+cols.table+` SET `+cols.payload+` = ?, `+cols.status+` = ?, `+cols.job+` = ''
		 WHERE id = ? AND `+cols.status+` = ? AND `+cols.job+` = ? AND `+cols.source+` = ?`,
		payloadArg(icon.Payload), string(icon.Status), ref.CardID, string(storage.IconPending), jobID, sourceText,
	)
	if err != nil {
		return false, fmt.Errorf("complete icon %s: %w", ref, err)
	}
	return affected(res)
}

// ReleaseIcon resets a pending slot to absent while jobID still owns it.
func (s *Store) ReleaseIcon(ctx context.Context, ref storage.IconRef, jobID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	cols, err := columnsFor(ref)
	if err != nil {
		return false, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE `+cols.table+` SET `+cols.payload+` = NULL, `+cols.status+` = ?, `+cols.job+` = ''
		 WHERE id = ? AND `+cols.status+` = ? AND `+cols.job+` = ?`,
		string(storage.IconAbsent), ref.CardID, string(storage.IconPending), jobID,
	)
	if err != nil {
		return false, fmt.Errorf("release icon %s: %w", ref, err)
	}
	return affected(res)
}

// ResetPendingIcons turns every pending slot back to absent. Jobs do not
// survive a restart, so pending slots found at startup would never resolve.
func (s *Store) ResetPendingIcons(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var total int64
	for _, slots := range slotColumns {
		for _, cols := range slots {
			res, err := s.sqlDB.ExecContext(ctx,
				`UPDATE `+cols.table+` SET `+cols.payload+` = NULL, `+cols.status+` = ?, `+cols.job+` = '' WHERE `+cols.status+` = ?`,
				string(storage.IconAbsent), string(storage.IconPending),
			)
			if err != nil {
				return total, fmt.Errorf("reset pending %s: %w", cols.payload, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return total, fmt.Errorf("rows affected: %w", err)
			}
			total += n
		}
	}
	return total, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func payloadArg(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	return payload
}
