// Package solver owns the solve life cycle of one workspace:
// Idle -> Solving -> Solved | Failed.
package solver

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/history"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/i18n"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/gateway"
)

type State string

const (
	StateIdle    State = "idle"
	StateSolving State = "solving"
	StateSolved  State = "solved"
	StateFailed  State = "failed"
)

var (
	ErrSolveInFlight = errors.New("a solve is already in flight")
	// ErrSuperseded is returned when Clear or a load replaced the problem
	// while its solve was in flight. The result was discarded.
	ErrSuperseded = errors.New("solve result superseded")
)

type Snapshot struct {
	State     State            `json:"state"`
	RequestID uint64           `json:"requestId"`
	Problem   *domain.Problem  `json:"problem,omitempty"`
	Solution  *domain.Solution `json:"solution,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// ChatResetter receives a fresh chat session whenever the problem context
// changes. A nil session leaves chat disabled until the next reset.
type ChatResetter interface {
	Reset(session gemini.ChatSession)
}

type LanguageSource interface {
	Language() domain.Language
}

type Orchestrator struct {
	gw      gateway.Gateway
	history history.Repo
	chat    ChatResetter
	lang    LanguageSource
	log     *logger.Logger

	mu       sync.Mutex
	seq      uint64
	latest   uint64
	state    State
	problem  *domain.Problem
	solution *domain.Solution
	errMsg   string
}

func NewOrchestrator(gw gateway.Gateway, hist history.Repo, chat ChatResetter, lang LanguageSource, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		gw:      gw,
		history: hist,
		chat:    chat,
		lang:    lang,
		log:     log.With("service", "SolveOrchestrator"),
		state:   StateIdle,
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	s := Snapshot{State: o.state, RequestID: o.latest, Error: o.errMsg}
	if o.problem != nil {
		p := *o.problem
		s.Problem = &p
	}
	if o.solution != nil {
		sol := *o.solution
		s.Solution = &sol
	}
	return s
}

// Submit solves problem. A Submit while another is Solving changes nothing
// and returns ErrSolveInFlight. A gateway failure is not an error here: the
// orchestrator lands in Failed with a localized message. The gateway call,
// the history write and the chat renewal outlive a cancelled ctx.
func (o *Orchestrator) Submit(ctx context.Context, problem domain.Problem) (Snapshot, error) {
	if err := problem.Validate(); err != nil {
		return o.Snapshot(), err
	}

	o.mu.Lock()
	if o.state == StateSolving {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		return snap, ErrSolveInFlight
	}
	o.seq++
	reqID := o.seq
	o.latest = reqID
	o.state = StateSolving
	o.problem = &problem
	o.solution = nil
	o.errMsg = ""
	o.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	lang := o.lang.Language()
	sol, err := o.gw.Solve(bg, problem, lang)

	o.mu.Lock()
	if o.latest != reqID {
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.log.Info("discarding stale solve result", "request_id", reqID, "latest", snap.RequestID)
		return snap, ErrSuperseded
	}
	if err != nil {
		o.state = StateFailed
		o.errMsg = failureMessage(i18n.New(lang), err)
		snap := o.snapshotLocked()
		o.mu.Unlock()
		o.log.Warn("solve failed", "request_id", reqID, "error", err)
		return snap, nil
	}
	o.state = StateSolved
	o.solution = sol
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.history.Add(bg, problem, *sol)
	o.renewChat(bg, reqID)
	return snap, nil
}

// Clear returns to Idle and starts a fresh chat.
func (o *Orchestrator) Clear(ctx context.Context) Snapshot {
	o.mu.Lock()
	o.seq++
	o.latest = o.seq
	gen := o.latest
	o.state = StateIdle
	o.problem = nil
	o.solution = nil
	o.errMsg = ""
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.renewChat(ctx, gen)
	return snap
}

// LoadFromHistory shows a stored item without calling the gateway or adding
// a history entry.
func (o *Orchestrator) LoadFromHistory(ctx context.Context, item domain.HistoryItem) Snapshot {
	return o.load(ctx, item.Problem, item.Solution)
}

// LoadShared shows a problem decoded from a share link.
func (o *Orchestrator) LoadShared(ctx context.Context, problem domain.Problem, solution domain.Solution) Snapshot {
	return o.load(ctx, problem, solution)
}

func (o *Orchestrator) load(ctx context.Context, problem domain.Problem, solution domain.Solution) Snapshot {
	o.mu.Lock()
	o.seq++
	o.latest = o.seq
	gen := o.latest
	o.state = StateSolved
	o.problem = &problem
	o.solution = &solution
	o.errMsg = ""
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.renewChat(ctx, gen)
	return snap
}

// RenewChat starts a new chat session for the current problem context.
func (o *Orchestrator) RenewChat(ctx context.Context) {
	o.mu.Lock()
	gen := o.latest
	o.mu.Unlock()
	o.renewChat(ctx, gen)
}

func (o *Orchestrator) renewChat(ctx context.Context, gen uint64) {
	session, err := o.gw.CreateChatSession(ctx, o.lang.Language())
	if err != nil {
		o.log.Warn("chat session unavailable", "error", err)
		session = nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.latest != gen {
		return
	}
	o.chat.Reset(session)
}

func failureMessage(loc i18n.Localizer, err error) string {
	switch {
	case apperr.IsInvalidResponse(err):
		return loc.T(i18n.KeyInvalidResponse)
	case apperr.IsGateway(err):
		return loc.T(i18n.KeySolveFailed)
	default:
		return loc.T(i18n.KeyUnknownError)
	}
}
