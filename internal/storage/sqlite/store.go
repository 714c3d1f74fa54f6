// Package sqlite implements the durable character and journal stores on a
// single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/character/event"
	"github.com/astmary-project/astmery/internal/storage"
	"github.com/astmary-project/astmery/internal/storage/sqlite/migrations"
)

// Store provides a SQLite-backed store implementing the character and event
// store interfaces.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database. Nil-safe so callers can defer
// it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutCharacter inserts or replaces a character record.
func (s *Store) PutCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("character id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("character name is required")
	}

	baseStats, err := json.Marshal(orEmptyStats(record.BaseStats))
	if err != nil {
		return fmt.Errorf("encode base stats: %w", err)
	}
	tags, err := json.Marshal(orEmptyTags(record.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	now := time.Now().UTC().UnixMilli()
	createdAt := record.CreatedAt
	if createdAt == 0 {
		createdAt = now
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO characters (id, name, owner_id, base_stats, tags, profile, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    owner_id = excluded.owner_id,
    base_stats = excluded.base_stats,
    tags = excluded.tags,
    profile = excluded.profile,
    updated_at = excluded.updated_at
`, record.ID, record.Name, record.OwnerID, string(baseStats), string(tags), record.Profile, createdAt, now)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	return nil
}

// GetCharacter loads one character record.
func (s *Store) GetCharacter(ctx context.Context, id string) (storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CharacterRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CharacterRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, owner_id, base_stats, tags, profile, created_at, updated_at
FROM characters WHERE id = ?
`, id)
	record, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return storage.CharacterRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}
	return record, nil
}

// ListCharacters returns every character record ordered by creation time.
func (s *Store) ListCharacters(ctx context.Context) ([]storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, owner_id, base_stats, tags, profile, created_at, updated_at
FROM characters ORDER BY created_at, id
`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var records []storage.CharacterRecord
	for rows.Next() {
		record, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return records, nil
}

// AppendEvent validates and appends one journal event, assigning the next
// per-character sequence number inside a transaction.
func (s *Store) AppendEvent(ctx context.Context, characterID string, evt event.Event) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(characterID) == "" {
		return 0, fmt.Errorf("character id is required")
	}
	if err := character.ValidateEvent(evt); err != nil {
		return 0, err
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UTC().UnixMilli()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(seq), 0) + 1 FROM character_events WHERE character_id = ?
`, characterID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next event seq: %w", err)
	}

	payload := string(evt.PayloadJSON)
	if payload == "" {
		payload = "{}"
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO character_events (character_id, seq, id, timestamp_ms, type, description, payload)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, characterID, seq, evt.ID, evt.Timestamp, string(evt.Type), evt.Description, payload); err != nil {
		return 0, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit event: %w", err)
	}
	return seq, nil
}

// ListEvents returns a character's journal in sequence order.
func (s *Store) ListEvents(ctx context.Context, characterID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, timestamp_ms, type, description, payload
FROM character_events WHERE character_id = ? ORDER BY seq
`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var eventType, payload string
		if err := rows.Scan(&evt.ID, &evt.Timestamp, &eventType, &evt.Description, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Type = event.Type(eventType)
		evt.PayloadJSON = []byte(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (storage.CharacterRecord, error) {
	var record storage.CharacterRecord
	var baseStats, tags string
	if err := row.Scan(&record.ID, &record.Name, &record.OwnerID, &baseStats, &tags,
		&record.Profile, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return storage.CharacterRecord{}, err
	}
	if err := json.Unmarshal([]byte(baseStats), &record.BaseStats); err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("decode base stats: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &record.Tags); err != nil {
		return storage.CharacterRecord{}, fmt.Errorf("decode tags: %w", err)
	}
	return record, nil
}

func orEmptyStats(stats map[string]float64) map[string]float64 {
	if stats == nil {
		return map[string]float64{}
	}
	return stats
}

func orEmptyTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var (
	_ storage.CharacterStore = (*Store)(nil)
	_ storage.EventStore     = (*Store)(nil)
)
