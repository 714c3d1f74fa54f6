package storage

import (
	"context"
	"errors"

	"github.com/astmary-project/astmery/internal/character/event"
	"github.com/astmary-project/astmery/internal/session"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// CharacterRecord is the stored identity of a character. The sheet itself is
// never stored; it is always derived by replaying the journal.
type CharacterRecord struct {
	ID        string
	Name      string
	OwnerID   string
	BaseStats map[string]float64
	Tags      []string
	Profile   string
	CreatedAt int64
	UpdatedAt int64
}

// CharacterStore persists character records.
type CharacterStore interface {
	PutCharacter(ctx context.Context, record CharacterRecord) error
	GetCharacter(ctx context.Context, id string) (CharacterRecord, error)
	ListCharacters(ctx context.Context) ([]CharacterRecord, error)
}

// EventStore persists the append-only character journal. Append assigns the
// next per-character sequence number; List returns events in sequence order,
// which is the total order replay expects.
type EventStore interface {
	AppendEvent(ctx context.Context, characterID string, evt event.Event) (seq int64, err error)
	ListEvents(ctx context.Context, characterID string) ([]event.Event, error)
}

// SessionStore holds ephemeral per-room play state: current resource values
// and a capped session log. Losing this data loses nothing durable.
type SessionStore interface {
	PutResourceValues(ctx context.Context, roomID string, values map[string]float64) error
	GetResourceValues(ctx context.Context, roomID string) (map[string]float64, error)
	AppendSessionEvent(ctx context.Context, roomID string, evt session.Event) error
	ListSessionEvents(ctx context.Context, roomID string, limit int64) ([]session.Event, error)
}
