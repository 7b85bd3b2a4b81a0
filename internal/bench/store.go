// Package bench runs the generate → load → compact → measure loop
// against an embedded SQLite messages table, producing the measurement
// samples the analyzer consumes. It replaces the manual round of bulk
// loading a cluster and transcribing administrative output.
package bench

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/msgbench/msgbench/internal/dataset"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	chat_id             INTEGER NOT NULL,
	bucket              INTEGER NOT NULL,
	chat_msg_local_id   INTEGER NOT NULL,
	flags               INTEGER NOT NULL,
	date                INTEGER NOT NULL,
	update_time         INTEGER NOT NULL,
	author_id           INTEGER NOT NULL,
	text                TEXT NOT NULL,
	kludges             TEXT NOT NULL,
	forwarded           INTEGER NOT NULL,
	forwarded_message_ids TEXT NOT NULL,
	mentions            TEXT NOT NULL,
	marked_users        TEXT NOT NULL,
	ttl                 INTEGER NOT NULL,
	deleted_for_all     INTEGER NOT NULL,
	PRIMARY KEY (chat_id, bucket, chat_msg_local_id DESC)
) WITHOUT ROWID;
`

const insertSQL = `
INSERT INTO messages (
	chat_id, bucket, chat_msg_local_id, flags, date, update_time,
	author_id, text, kludges, forwarded, forwarded_message_ids,
	mentions, marked_users, ttl, deleted_for_all
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Store is a single-table message store backed by one SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates (or opens) the database at path and ensures the
// messages table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmark database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// LoadMessages bulk-inserts msgs in a single transaction, the embedded
// analogue of a dsbulk load.
func (s *Store) LoadMessages(ctx context.Context, msgs []dataset.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range msgs {
		m := &msgs[i]
		_, err := stmt.ExecContext(ctx,
			m.ChatID, m.Bucket, m.LocalID, m.Flags, m.Date, m.UpdateTime,
			m.AuthorID, m.Text, m.Kludges, m.Forwarded,
			dataset.EncodeIDList(m.ForwardedIDs), m.Mentions,
			dataset.EncodeIDList(m.MarkedUsers), m.TTL, m.DeletedForAll)
		if err != nil {
			return fmt.Errorf("failed to insert message %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Compact reclaims free pages so SizeOnDisk reflects live data only,
// the same reason the manual procedure ran flush+compact before
// measuring.
func (s *Store) Compact(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to compact database: %w", err)
	}
	return nil
}

// Count returns the number of stored messages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

// SizeOnDisk reports the database file size in bytes.
func (s *Store) SizeOnDisk() (int64, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat database file: %w", err)
	}
	return fi.Size(), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
