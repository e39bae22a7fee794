package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
)

// JournalRepository is the append-only audit trail of escrow steps.
type JournalRepository interface {
	Append(ctx context.Context, step *entity.Step) error
	ListByGame(ctx context.Context, gameID string) ([]entity.Step, error)
}

type sqliteJournal struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) JournalRepository {
	return &sqliteJournal{db: db}
}

func (that *sqliteJournal) Append(ctx context.Context, step *entity.Step) error {
	if step.ID == "" {
		step.ID = uuid.NewString()
	}

	if step.CreatedAt.IsZero() {
		step.CreatedAt = time.Now().UTC()
	}

	_, err := that.db.ExecContext(ctx, `
INSERT INTO escrow_steps (id, game_id, step, status, tx_hash, ledger, detail, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, step.ID, step.GameID, string(step.Name), string(step.Status), step.TxHash, step.Ledger, step.Detail, step.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to append step: %w", err)
	}

	return nil
}

func (that *sqliteJournal) ListByGame(ctx context.Context, gameID string) ([]entity.Step, error) {
	rows, err := that.db.QueryContext(ctx, `
SELECT id, game_id, step, status, tx_hash, ledger, detail, created_at
FROM escrow_steps
WHERE game_id = ?
ORDER BY seq
`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	steps := make([]entity.Step, 0)

	for rows.Next() {
		var (
			step      entity.Step
			name      string
			status    string
			createdAt int64
		)

		if err = rows.Scan(&step.ID, &step.GameID, &name, &status, &step.TxHash, &step.Ledger, &step.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}

		step.Name = entity.StepName(name)
		step.Status = entity.StepStatus(status)
		step.CreatedAt = time.UnixMilli(createdAt).UTC()

		steps = append(steps, step)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read steps: %w", err)
	}

	return steps, nil
}
