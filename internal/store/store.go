// Package store persists canonical messages in SQLite. The store is a
// downstream collaborator of the normalization pipeline: it never derives
// classification itself, it re-runs the pure classifier whenever mutable
// state (pin, reactions) changes so the indexed bitsets always agree with the
// stored record.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"tgcanon/internal/normalize"
	"tgcanon/pkg/canon"

	_ "github.com/mattn/go-sqlite3"
)

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS messages (
  peer_kind    INTEGER NOT NULL,
  peer_id      INTEGER NOT NULL,
  namespace    INTEGER NOT NULL,
  message_id   INTEGER NOT NULL,
  timestamp    INTEGER NOT NULL,
  thread_id    INTEGER,
  grouping_key INTEGER,
  tags         INTEGER NOT NULL,
  global_tags  INTEGER NOT NULL,
  pinned       INTEGER NOT NULL DEFAULT 0,
  record       BLOB NOT NULL,
  PRIMARY KEY (peer_kind, peer_id, namespace, message_id)
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_peer_time
ON messages (peer_kind, peer_id, namespace, timestamp DESC, message_id DESC);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_thread
ON messages (peer_kind, peer_id, namespace, thread_id, message_id);
`,
	`
CREATE TABLE IF NOT EXISTS reply_refs (
  src_peer_kind  INTEGER NOT NULL,
  src_peer_id    INTEGER NOT NULL,
  src_namespace  INTEGER NOT NULL,
  src_message_id INTEGER NOT NULL,
  tgt_peer_kind  INTEGER NOT NULL,
  tgt_peer_id    INTEGER NOT NULL,
  tgt_namespace  INTEGER NOT NULL,
  tgt_message_id INTEGER NOT NULL,
  PRIMARY KEY (src_peer_kind, src_peer_id, src_namespace, src_message_id)
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_reply_refs_target
ON reply_refs (tgt_peer_kind, tgt_peer_id, tgt_namespace, tgt_message_id);
`,
}

// Store is a SQLite-backed message store.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the database at path and runs schema migrations.
// ":memory:" opens an in-memory database.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// in-memory databases coherent across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	store := &Store{db: db, log: log}
	if err := store.enableWAL(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) enableWAL() error {
	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode=WAL;").Scan(&journalMode); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	// In-memory databases report "memory"; that is fine.
	if journalMode != "wal" && journalMode != "memory" {
		return fmt.Errorf("enable WAL mode: unexpected journal mode %q", journalMode)
	}

	return nil
}

func (s *Store) applyMigrations() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d;", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bump schema version to %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
		s.log.Debug("applied schema migration", slog.Int("version", i+1))
	}

	return nil
}

// Put persists one normalization result: the message record, its indexed
// bitsets, and the reply index edge when present. Results without a message
// (empty raw records) are a no-op.
func (s *Store) Put(ctx context.Context, result normalize.Result) error {
	message := result.Message
	if message == nil {
		return nil
	}

	record, err := encodeMessage(message)
	if err != nil {
		return fmt.Errorf("put %s: %w", message.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put %s: begin: %w", message.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	pinned := 0
	if message.Tags.Contains(canon.TagPinned) {
		pinned = 1
	}
	_, err = tx.ExecContext(ctx, `
INSERT OR REPLACE INTO messages
  (peer_kind, peer_id, namespace, message_id, timestamp, thread_id, grouping_key, tags, global_tags, pinned, record)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		message.ID.Peer.Kind, message.ID.Peer.ID, message.ID.Namespace, message.ID.ID,
		message.Timestamp, message.ThreadID, message.GroupingKey,
		message.Tags, message.GlobalTags, pinned, record,
	)
	if err != nil {
		return fmt.Errorf("put %s: insert: %w", message.ID, err)
	}

	if reference := result.ReplyReference; reference != nil {
		_, err = tx.ExecContext(ctx, `
INSERT OR REPLACE INTO reply_refs
  (src_peer_kind, src_peer_id, src_namespace, src_message_id,
   tgt_peer_kind, tgt_peer_id, tgt_namespace, tgt_message_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			reference.Source.Peer.Kind, reference.Source.Peer.ID, reference.Source.Namespace, reference.Source.ID,
			reference.Target.Peer.Kind, reference.Target.Peer.ID, reference.Target.Namespace, reference.Target.ID,
		)
		if err != nil {
			return fmt.Errorf("put %s: reply ref: %w", message.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put %s: commit: %w", message.ID, err)
	}

	return nil
}

// Get loads one message by id.
func (s *Store) Get(ctx context.Context, id canon.MessageID) (*canon.Message, error) {
	var record []byte
	err := s.db.QueryRowContext(ctx, `
SELECT record FROM messages
WHERE peer_kind = ? AND peer_id = ? AND namespace = ? AND message_id = ?;`,
		id.Peer.Kind, id.Peer.ID, id.Namespace, id.ID,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, canon.ErrMessageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}

	return decodeMessage(record)
}

// QueryByTags lists a peer's messages whose tag bitset contains every bit of
// mask, newest first.
func (s *Store) QueryByTags(ctx context.Context, peer canon.PeerID, namespace canon.Namespace, mask canon.Tags, limit int) ([]*canon.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT record FROM messages
WHERE peer_kind = ? AND peer_id = ? AND namespace = ? AND (tags & ?) = ?
ORDER BY message_id DESC LIMIT ?;`,
		peer.Kind, peer.ID, namespace, mask, mask, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query tags %s for %s: %w", mask, peer, err)
	}

	return collectRows(rows)
}

// QueryByGlobalTags lists messages across all peers whose global tag bitset
// contains every bit of mask, newest first.
func (s *Store) QueryByGlobalTags(ctx context.Context, mask canon.GlobalTags, limit int) ([]*canon.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT record FROM messages
WHERE (global_tags & ?) = ?
ORDER BY timestamp DESC, message_id DESC LIMIT ?;`,
		mask, mask, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query global tags %s: %w", mask, err)
	}

	return collectRows(rows)
}

// ListThread lists a thread's messages in id order.
func (s *Store) ListThread(ctx context.Context, peer canon.PeerID, namespace canon.Namespace, threadID int64, limit int) ([]*canon.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT record FROM messages
WHERE peer_kind = ? AND peer_id = ? AND namespace = ? AND thread_id = ?
ORDER BY message_id LIMIT ?;`,
		peer.Kind, peer.ID, namespace, threadID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list thread %d of %s: %w", threadID, peer, err)
	}

	return collectRows(rows)
}

// RepliesTo lists the ids of stored messages replying to target.
func (s *Store) RepliesTo(ctx context.Context, target canon.MessageID) ([]canon.MessageID, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT src_peer_kind, src_peer_id, src_namespace, src_message_id FROM reply_refs
WHERE tgt_peer_kind = ? AND tgt_peer_id = ? AND tgt_namespace = ? AND tgt_message_id = ?
ORDER BY src_message_id;`,
		target.Peer.Kind, target.Peer.ID, target.Namespace, target.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("replies to %s: %w", target, err)
	}
	defer rows.Close()

	var out []canon.MessageID
	for rows.Next() {
		var id canon.MessageID
		if err := rows.Scan(&id.Peer.Kind, &id.Peer.ID, &id.Namespace, &id.ID); err != nil {
			return nil, fmt.Errorf("replies to %s: scan: %w", target, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replies to %s: %w", target, err)
	}

	return out, nil
}

// SetPinned updates the pin state and re-runs classification so the stored
// bitsets stay derived, never hand-edited.
func (s *Store) SetPinned(ctx context.Context, id canon.MessageID, pinned bool) error {
	return s.mutate(ctx, id, pinned, func(message *canon.Message) {})
}

// SetReactions replaces the reactions attribute and re-runs classification.
func (s *Store) SetReactions(ctx context.Context, id canon.MessageID, reactions canon.Reactions) error {
	return s.mutateKeepPin(ctx, id, func(message *canon.Message) {
		for i, attribute := range message.Attributes {
			if _, ok := attribute.(canon.Reactions); ok {
				message.Attributes[i] = reactions
				return
			}
		}
		message.Attributes = append(message.Attributes, reactions)
	})
}

// mutateKeepPin applies a record mutation preserving the current pin state.
func (s *Store) mutateKeepPin(ctx context.Context, id canon.MessageID, apply func(*canon.Message)) error {
	var pinned int
	err := s.db.QueryRowContext(ctx, `
SELECT pinned FROM messages
WHERE peer_kind = ? AND peer_id = ? AND namespace = ? AND message_id = ?;`,
		id.Peer.Kind, id.Peer.ID, id.Namespace, id.ID,
	).Scan(&pinned)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mutate %s: %w", id, canon.ErrMessageNotFound)
	}
	if err != nil {
		return fmt.Errorf("mutate %s: %w", id, err)
	}

	return s.mutate(ctx, id, pinned != 0, apply)
}

func (s *Store) mutate(ctx context.Context, id canon.MessageID, pinned bool, apply func(*canon.Message)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mutate %s: begin: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var record []byte
	err = tx.QueryRowContext(ctx, `
SELECT record FROM messages
WHERE peer_kind = ? AND peer_id = ? AND namespace = ? AND message_id = ?;`,
		id.Peer.Kind, id.Peer.ID, id.Namespace, id.ID,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mutate %s: %w", id, canon.ErrMessageNotFound)
	}
	if err != nil {
		return fmt.Errorf("mutate %s: %w", id, err)
	}

	message, err := decodeMessage(record)
	if err != nil {
		return fmt.Errorf("mutate %s: %w", id, err)
	}
	apply(message)
	reclassify(message, pinned)

	updated, err := encodeMessage(message)
	if err != nil {
		return fmt.Errorf("mutate %s: %w", id, err)
	}
	pinnedValue := 0
	if pinned {
		pinnedValue = 1
	}
	_, err = tx.ExecContext(ctx, `
UPDATE messages SET tags = ?, global_tags = ?, pinned = ?, record = ?
WHERE peer_kind = ? AND peer_id = ? AND namespace = ? AND message_id = ?;`,
		message.Tags, message.GlobalTags, pinnedValue, updated,
		id.Peer.Kind, id.Peer.ID, id.Namespace, id.ID,
	)
	if err != nil {
		return fmt.Errorf("mutate %s: update: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mutate %s: commit: %w", id, err)
	}

	return nil
}

// reclassify recomputes both tag bitsets from the stored attributes and media.
func reclassify(message *canon.Message, pinned bool) {
	var entities []canon.TextEntity
	for _, attribute := range message.Attributes {
		if typed, ok := attribute.(canon.TextEntities); ok {
			entities = typed.Entities
			break
		}
	}
	incoming := message.Flags.Contains(canon.FlagIncoming)
	message.Tags, message.GlobalTags = normalize.ClassifyTags(incoming, message.Attributes, message.Media, entities, pinned)
}

func collectRows(rows *sql.Rows) ([]*canon.Message, error) {
	defer rows.Close()

	var out []*canon.Message
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		message, err := decodeMessage(record)
		if err != nil {
			return nil, err
		}
		out = append(out, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}

	return out, nil
}
