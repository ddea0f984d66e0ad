package sqlutil

import (
	"context"
	"fmt"
)

// DB is a pool that can both query and begin transactions.
type DB interface {
	DBTX
	TxBeginner
}

// NextID issues the next stable integer id for table. The counter row
// only moves forward, so ids freed by a hard delete are never reissued.
// Callers must run it inside the transaction that inserts the row.
func NextID(ctx context.Context, q DBTX, table string) (int, error) {
	var id int
	err := q.QueryRow(ctx, fmt.Sprintf(`
		UPDATE id_counters
		SET last_id = GREATEST(last_id, (SELECT COALESCE(MAX(id), 0) FROM %s)) + 1
		WHERE name = $1
		RETURNING last_id`, table), table).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to issue %s id: %w", table, err)
	}
	return id, nil
}

// SyncCounter raises the id counter of table to its current max id, after
// rows were inserted with explicit ids.
func SyncCounter(ctx context.Context, q DBTX, table string) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
		UPDATE id_counters
		SET last_id = GREATEST(last_id, (SELECT COALESCE(MAX(id), 0) FROM %s))
		WHERE name = $1`, table), table)
	if err != nil {
		return fmt.Errorf("failed to sync %s id counter: %w", table, err)
	}
	return nil
}
