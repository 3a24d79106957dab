package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/testutil"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("quota exceeded") }
func (failingStore) Remove(context.Context, string) error     { return errors.New("locked") }

// unreadableStore fails reads while down is set and counts writes.
type unreadableStore struct {
	kv.Store
	down   bool
	writes int
}

func (s *unreadableStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.down {
		return "", false, context.Canceled
	}
	return s.Store.Get(ctx, key)
}

func (s *unreadableStore) Set(ctx context.Context, key, value string) error {
	s.writes++
	return s.Store.Set(ctx, key, value)
}

func sampleSolution() domain.Solution {
	return domain.Solution{
		Status:           domain.StatusSolved,
		Title:            "Linear equation",
		Classification:   "Algebra",
		Difficulty:       domain.DifficultyEasy,
		DifficultyRating: 2,
		KeyConcepts:      []string{"inverse operations"},
		Reasoning:        "isolate x",
		Solution:         []string{"x=5"},
	}
}

func TestAddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	r := NewRepo(store, "s1", logger.NewNop())
	r.Load(ctx)

	const n = 5
	var ids []string
	for i := 0; i < n; i++ {
		it := r.Add(ctx, domain.NewTextProblem("p"), sampleSolution())
		ids = append(ids, it.ID)
	}

	got := r.List()
	if len(got) != n {
		t.Fatalf("unexpected length: got=%d want=%d", len(got), n)
	}
	for i := range got {
		if got[i].ID != ids[n-1-i] {
			t.Fatalf("item %d: got=%s want=%s", i, got[i].ID, ids[n-1-i])
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID <= got[i].ID {
			t.Fatalf("ids not time ordered: %s <= %s", got[i-1].ID, got[i].ID)
		}
	}

	raw, ok, _ := store.Get(ctx, "math-solver-history:s1")
	if !ok {
		t.Fatalf("expected persisted entry")
	}
	var persisted []domain.HistoryItem
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("persisted list: %v", err)
	}
	if len(persisted) != n || persisted[0].ID != got[0].ID {
		t.Fatalf("persisted list mismatch: got=%d first=%s", len(persisted), persisted[0].ID)
	}

	reloaded, err := NewRepo(store, "s1", logger.NewNop()).Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded) != n {
		t.Fatalf("reload: got=%d want=%d", len(reloaded), n)
	}
}

func TestClearRemovesEntry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	r := NewRepo(store, "s1", logger.NewNop())
	r.Add(ctx, domain.NewTextProblem("p"), sampleSolution())
	r.Clear(ctx)

	if len(r.List()) != 0 {
		t.Fatalf("expected empty list")
	}
	if _, ok, _ := store.Get(ctx, "math-solver-history:s1"); ok {
		t.Fatalf("expected storage entry removed")
	}
}

func TestCorruptHistoryLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, "math-solver-history:s1", "{not json")
	got, err := NewRepo(store, "s1", logger.NewNop()).Load(ctx)
	if err != nil {
		t.Fatalf("parse failures are not reported: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got=%v", got)
	}
}

func TestStorageFailuresAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	r := NewRepo(failingStore{}, "s1", logger.NewNop())
	got, err := r.Load(ctx)
	if len(got) != 0 {
		t.Fatalf("expected empty list on read failure")
	}
	var serr *apperr.StorageError
	if !errors.As(err, &serr) || serr.Op != "get" {
		t.Fatalf("expected StorageError from Load, got=%v", err)
	}
	it := r.Add(ctx, domain.NewTextProblem("p"), sampleSolution())
	if got, ok := r.Get(it.ID); !ok || got.ID != it.ID {
		t.Fatalf("in-memory list should hold item after failed write")
	}
	r.Clear(ctx)
	if len(r.List()) != 0 {
		t.Fatalf("expected empty list after clear")
	}
}

func TestImageProblemSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := kv.NewGormStore(testutil.DB(t), testutil.Logger(t))
	r := NewRepo(store, "s2", logger.NewNop())
	p := domain.NewImageProblem("image/png", "aGVsbG8=", "")
	r.Add(ctx, p, sampleSolution())

	got, err := NewRepo(store, "s2", logger.NewNop()).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected length: got=%d", len(got))
	}
	if got[0].Problem.Kind != domain.ProblemImage || got[0].Problem.Image.MIMEType != "image/png" {
		t.Fatalf("unexpected problem: %+v", got[0].Problem)
	}
	if got[0].Problem.Prompt != domain.DefaultImagePrompt {
		t.Fatalf("unexpected prompt: got=%q", got[0].Problem.Prompt)
	}
}

func TestUnreadHistoryIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store := &unreadableStore{Store: kv.NewGormStore(testutil.DB(t), testutil.Logger(t))}
	seed := NewRepo(store, "s1", logger.NewNop())
	seed.Add(ctx, domain.NewTextProblem("first"), sampleSolution())
	seed.Add(ctx, domain.NewTextProblem("second"), sampleSolution())
	writes := store.writes

	store.down = true
	r := NewRepo(store, "s1", logger.NewNop())
	if _, err := r.Load(ctx); err == nil {
		t.Fatalf("expected read failure")
	}
	r.Add(ctx, domain.NewTextProblem("third"), sampleSolution())
	if store.writes != writes {
		t.Fatalf("unread list was overwritten")
	}

	store.down = false
	got, err := r.Load(ctx)
	if err != nil || len(got) != 3 {
		t.Fatalf("stored list lost: got=%d err=%v", len(got), err)
	}
	if got[0].Problem.Text != "third" || got[2].Problem.Text != "first" {
		t.Fatalf("unexpected order: %s, %s", got[0].Problem.Text, got[2].Problem.Text)
	}
	reloaded, err := NewRepo(store, "s1", logger.NewNop()).Load(ctx)
	if err != nil || len(reloaded) != 3 {
		t.Fatalf("persisted after recovery: got=%d err=%v", len(reloaded), err)
	}
}
