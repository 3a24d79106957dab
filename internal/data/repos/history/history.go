// Package history keeps the list of solved problems for one session,
// newest first, mirrored into a kv.Store as a JSON array.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

const StorageKey = "math-solver-history"

type Repo interface {
	// Load returns an error only when storage could not be read. Until a
	// later Load succeeds, Add keeps items in memory without persisting so
	// the unread entry is not overwritten.
	Load(ctx context.Context) ([]domain.HistoryItem, error)
	Add(ctx context.Context, problem domain.Problem, solution domain.Solution) domain.HistoryItem
	Clear(ctx context.Context)
	List() []domain.HistoryItem
	Get(id string) (domain.HistoryItem, bool)
}

type repo struct {
	store kv.Store
	key   string
	log   *logger.Logger
	now   func() time.Time

	mu         sync.RWMutex
	items      []domain.HistoryItem
	readFailed bool
}

func NewRepo(store kv.Store, sessionID string, log *logger.Logger) Repo {
	return &repo{
		store: store,
		key:   kv.Key(StorageKey, sessionID),
		log:   log.With("repo", "HistoryRepo", "session_id", sessionID),
		now:   time.Now,
	}
}

// Load replaces the in-memory list with the persisted one. A parse failure
// leaves an empty list. A read failure leaves an empty list and is returned.
// Items added since a failed read are kept in front of the stored ones and
// written back.
func (r *repo) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	var items []domain.HistoryItem
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		serr := &apperr.StorageError{Op: "get", Key: r.key, Err: err}
		r.log.Warn("history read failed", "error", serr)
		r.mu.Lock()
		r.items = []domain.HistoryItem{}
		r.readFailed = true
		r.mu.Unlock()
		return []domain.HistoryItem{}, serr
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			r.log.Warn("history parse failed; starting empty", "error", err)
			items = nil
		}
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}

	r.mu.Lock()
	pending := r.readFailed && len(r.items) > 0
	if pending {
		items = append(cloneItems(r.items), items...)
	}
	r.items = items
	r.readFailed = false
	snapshot := cloneItems(items)
	r.mu.Unlock()

	if pending {
		r.persist(ctx, snapshot)
	}
	return snapshot, nil
}

func (r *repo) Add(ctx context.Context, problem domain.Problem, solution domain.Solution) domain.HistoryItem {
	item := domain.HistoryItem{
		ID:        newID(),
		Problem:   problem,
		Solution:  solution,
		Timestamp: r.now().UTC(),
	}

	r.mu.Lock()
	r.items = append([]domain.HistoryItem{item}, r.items...)
	snapshot := cloneItems(r.items)
	unread := r.readFailed
	r.mu.Unlock()

	if unread {
		r.log.Warn("history not persisted; stored list was never read", "item_id", item.ID)
		return item
	}
	r.persist(ctx, snapshot)
	return item
}

func (r *repo) Clear(ctx context.Context) {
	r.mu.Lock()
	r.items = []domain.HistoryItem{}
	r.mu.Unlock()

	if err := r.store.Remove(ctx, r.key); err != nil {
		r.log.Warn("history remove failed", "error", &apperr.StorageError{Op: "remove", Key: r.key, Err: err})
		return
	}
	// The stored list is now known to be empty.
	r.mu.Lock()
	r.readFailed = false
	r.mu.Unlock()
}

func (r *repo) List() []domain.HistoryItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneItems(r.items)
}

func (r *repo) Get(id string) (domain.HistoryItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.HistoryItem{}, false
}

func (r *repo) persist(ctx context.Context, items []domain.HistoryItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		r.log.Error("history encode failed", "error", err)
		return
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		r.log.Warn("history write failed", "error", &apperr.StorageError{Op: "set", Key: r.key, Err: err})
	}
}

// newID returns a UUIDv7 so ids sort by creation time.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func cloneItems(in []domain.HistoryItem) []domain.HistoryItem {
	out := make([]domain.HistoryItem, len(in))
	copy(out, in)
	return out
}
