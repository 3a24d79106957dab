package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

// Registry owns one Workspace per session id.
type Registry struct {
	deps Deps
	log  *logger.Logger

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		deps:  d,
		log:   d.Log.With("service", "WorkspaceRegistry"),
		items: make(map[string]*Workspace),
	}
}

// Get returns the workspace for sessionID, creating and loading it on first
// use.
func (r *Registry) Get(ctx context.Context, sessionID string) *Workspace {
	sessionID = strings.TrimSpace(sessionID)
	r.mu.Lock()
	w, ok := r.items[sessionID]
	if !ok {
		w = newWorkspace(sessionID, r.deps)
		r.items[sessionID] = w
	}
	n := len(r.items)
	r.mu.Unlock()

	if !ok {
		r.log.Debug("workspace created", "session_id", sessionID)
		r.deps.Metrics.SetWorkspaces(n)
	}
	w.init(ctx)
	w.touch()
	return w
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep drops workspaces idle for longer than maxIdle. Workspaces with a
// solve or chat turn in flight are kept. Persisted history and settings are
// reloaded on next use.
func (r *Registry) Sweep(now time.Time, maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, w := range r.items {
		if now.Sub(w.idleSince()) > maxIdle && !w.busy() {
			delete(r.items, id)
			n++
		}
	}
	if n > 0 {
		r.log.Info("swept idle workspaces", "count", n, "remaining", len(r.items))
		r.deps.Metrics.SetWorkspaces(len(r.items))
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.Sweep(now, maxIdle)
		}
	}
}
