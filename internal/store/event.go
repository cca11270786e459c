package store

import (
	"context"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const sequenceRowID = 1

// sequenceCounter hands out one monotonic sequence shared by every table.
// Progress revisions and LLM events draw from it so writes across tables can
// be ordered. The mutex serializes within the process; the transaction keeps
// read and increment together in the database.
type sequenceCounter struct {
	mu  sync.Mutex
	drv dialect.Driver
}

// newSequenceCounter creates a counter and seeds its single row.
func newSequenceCounter(ctx context.Context, drv dialect.Driver) (*sequenceCounter, error) {
	seed := builder().Insert(sequenceTable).
		Columns("id", "next_val").
		Values(sequenceRowID, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	if err := execQuery(ctx, drv, seed); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	var seq int64
	read := builder().Select("next_val").
		From(entsql.Table(sequenceTable)).
		Where(entsql.EQ("id", sequenceRowID))
	err = scanRows(ctx, tx, read, func(rows *entsql.Rows) error {
		return rows.Scan(&seq)
	})
	if err == nil && seq == 0 {
		err = fmt.Errorf("sequence row missing")
	}
	if err == nil {
		bump := builder().Update(sequenceTable).
			Set("next_val", seq+1).
			Where(entsql.EQ("id", sequenceRowID))
		err = execQuery(ctx, tx, bump)
	}
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
