// internal/infra/database/postgres_ledger_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"password_notifier/internal/domain/ledger"
)

// PostgresLedgerStore keeps the notification ledger in a
// notification_ledger table:
//
//	CREATE TABLE notification_ledger (
//	    account_id    VARCHAR PRIMARY KEY,
//	    last_notified DATE NOT NULL
//	);
//
// It honors the same contract as the file store: Load once at start,
// Save replaces all rows wholesale at end of run.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

func (s *PostgresLedgerStore) Load(ctx context.Context) (ledger.Entries, error) {
	query := `SELECT account_id, last_notified FROM notification_ledger`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying notification ledger: %w", err)
	}
	defer rows.Close()

	entries := make(ledger.Entries)
	for rows.Next() {
		var accountID string
		var lastNotified time.Time
		if err := rows.Scan(&accountID, &lastNotified); err != nil {
			return nil, fmt.Errorf("error scanning ledger row: %w", err)
		}
		entries[accountID] = lastNotified.Format(ledger.DateLayout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return entries, nil
}

func (s *PostgresLedgerStore) Save(ctx context.Context, entries ledger.Entries) error {
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for ledger save: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx, `DELETE FROM notification_ledger`); err != nil {
		return fmt.Errorf("error clearing notification ledger: %w", err)
	}

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO notification_ledger (account_id, last_notified) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for ledger save: %w", err)
	}
	defer stmt.Close()

	for accountID, date := range entries {
		if _, err := stmt.ExecContext(ctx, accountID, date); err != nil {
			return fmt.Errorf("error inserting ledger entry for %s: %w", accountID, err)
		}
	}

	return txn.Commit()
}
