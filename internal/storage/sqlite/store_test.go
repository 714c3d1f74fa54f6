package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/astmary-project/astmery/internal/character"
	"github.com/astmary-project/astmery/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "astmery.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestPutAndGetCharacter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := storage.CharacterRecord{
		ID:        "char-1",
		Name:      "アステルナ",
		OwnerID:   "owner-1",
		BaseStats: map[string]float64{"Body": 4, "Magic": 6},
		Tags:      []string{"mage"},
		Profile:   "A wandering scholar.",
	}
	if err := store.PutCharacter(ctx, record); err != nil {
		t.Fatalf("PutCharacter() error = %v", err)
	}

	got, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("GetCharacter() error = %v", err)
	}
	if got.Name != record.Name {
		t.Fatalf("Name = %q, want %q", got.Name, record.Name)
	}
	if got.BaseStats["Magic"] != 6 {
		t.Fatalf("BaseStats[Magic] = %v, want 6", got.BaseStats["Magic"])
	}
	if len(got.Tags) != 1 || got.Tags[0] != "mage" {
		t.Fatalf("Tags = %v, want [mage]", got.Tags)
	}
	if got.CreatedAt == 0 || got.UpdatedAt == 0 {
		t.Fatalf("timestamps not set: created %d updated %d", got.CreatedAt, got.UpdatedAt)
	}
}

func TestPutCharacterUpdatesExisting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := storage.CharacterRecord{ID: "char-1", Name: "Before"}
	if err := store.PutCharacter(ctx, record); err != nil {
		t.Fatalf("PutCharacter() error = %v", err)
	}
	record.Name = "After"
	if err := store.PutCharacter(ctx, record); err != nil {
		t.Fatalf("PutCharacter() update error = %v", err)
	}

	got, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("GetCharacter() error = %v", err)
	}
	if got.Name != "After" {
		t.Fatalf("Name = %q, want %q", got.Name, "After")
	}

	records, err := store.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("ListCharacters() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
}

func TestGetCharacterNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetCharacter(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetCharacter() error = %v, want ErrNotFound", err)
	}
}

func TestAppendEventAssignsSequence(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutCharacter(ctx, storage.CharacterRecord{ID: "char-1", Name: "Hero"}); err != nil {
		t.Fatalf("PutCharacter() error = %v", err)
	}

	first, err := character.NewExperienceGainedEvent(50, "session reward", "")
	if err != nil {
		t.Fatalf("NewExperienceGainedEvent() error = %v", err)
	}
	second, err := character.NewStatGrownEvent("Body", 1, 20, "training")
	if err != nil {
		t.Fatalf("NewStatGrownEvent() error = %v", err)
	}

	seq, err := store.AppendEvent(ctx, "char-1", first)
	if err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq = %d, want 1", seq)
	}
	seq, err = store.AppendEvent(ctx, "char-1", second)
	if err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}
	if seq != 2 {
		t.Fatalf("seq = %d, want 2", seq)
	}

	events, err := store.ListEvents(ctx, "char-1")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].ID != first.ID || events[1].ID != second.ID {
		t.Fatalf("event order = [%s %s], want [%s %s]",
			events[0].ID, events[1].ID, first.ID, second.ID)
	}

	state, err := character.Calculate(events, nil, nil)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if state.Exp.Total != 50 {
		t.Fatalf("Exp.Total = %v, want 50", state.Exp.Total)
	}
	if state.Stats["Body"] != 1 {
		t.Fatalf("Stats[Body] = %v, want 1", state.Stats["Body"])
	}
}

func TestAppendEventRejectsInvalidPayload(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutCharacter(ctx, storage.CharacterRecord{ID: "char-1", Name: "Hero"}); err != nil {
		t.Fatalf("PutCharacter() error = %v", err)
	}

	evt, err := character.NewExperienceGainedEvent(50, "ok", "")
	if err != nil {
		t.Fatalf("NewExperienceGainedEvent() error = %v", err)
	}
	evt.PayloadJSON = []byte(`{"amount": -5}`)

	if _, err := store.AppendEvent(ctx, "char-1", evt); err == nil {
		t.Fatal("AppendEvent() accepted a negative experience amount")
	}

	events, err := store.ListEvents(ctx, "char-1")
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("len(events) = %d, want 0", len(events))
	}
}

func TestSequencesAreIndependentPerCharacter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"char-a", "char-b"} {
		if err := store.PutCharacter(ctx, storage.CharacterRecord{ID: id, Name: id}); err != nil {
			t.Fatalf("PutCharacter(%s) error = %v", id, err)
		}
	}

	evtA, err := character.NewExperienceGainedEvent(10, "", "")
	if err != nil {
		t.Fatalf("NewExperienceGainedEvent() error = %v", err)
	}
	evtB, err := character.NewExperienceGainedEvent(20, "", "")
	if err != nil {
		t.Fatalf("NewExperienceGainedEvent() error = %v", err)
	}

	if _, err := store.AppendEvent(ctx, "char-a", evtA); err != nil {
		t.Fatalf("AppendEvent(char-a) error = %v", err)
	}
	seq, err := store.AppendEvent(ctx, "char-b", evtB)
	if err != nil {
		t.Fatalf("AppendEvent(char-b) error = %v", err)
	}
	if seq != 1 {
		t.Fatalf("char-b seq = %d, want 1", seq)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astmery.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := store.PutCharacter(ctx, storage.CharacterRecord{ID: "char-1", Name: "Hero"}); err != nil {
		t.Fatalf("PutCharacter() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() after restart error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("GetCharacter() after restart error = %v", err)
	}
	if got.Name != "Hero" {
		t.Fatalf("Name = %q, want %q", got.Name, "Hero")
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("Close() on nil store error = %v", err)
	}
	if _, err := store.GetCharacter(context.Background(), "x"); err == nil {
		t.Fatal("GetCharacter() on nil store did not error")
	}
}
