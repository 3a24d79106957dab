// Package workspace bundles the per-session state machines (settings,
// history, solver, chat) and exposes the operations the API serves.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/mathtutor-backend/internal/data/repos/history"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	"github.com/yungbote/mathtutor-backend/internal/i18n"
	"github.com/yungbote/mathtutor-backend/internal/observability"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/chat"
	"github.com/yungbote/mathtutor-backend/internal/services/gateway"
	"github.com/yungbote/mathtutor-backend/internal/services/settings"
	"github.com/yungbote/mathtutor-backend/internal/services/share"
	"github.com/yungbote/mathtutor-backend/internal/services/solver"
)

// ErrNothingToShare is returned by share operations when no solution is
// shown.
var ErrNothingToShare = fmt.Errorf("no solved problem to share: %w", apperr.ErrInvalidArgument)

type Deps struct {
	Store        kv.Store
	Gateway      gateway.Gateway
	Cards        *share.CardRenderer
	ShareBaseURL string
	Log          *logger.Logger
	// Metrics may be nil.
	Metrics *observability.Metrics
}

type Workspace struct {
	ID       string
	Settings *settings.Service
	History  history.Repo
	Solver   *solver.Orchestrator
	Chat     *chat.Conversation

	gw        gateway.Gateway
	cards     *share.CardRenderer
	shareBase string
	log       *logger.Logger
	metrics   *observability.Metrics

	initMu      sync.Mutex
	ready       bool
	chatStarted bool

	mu       sync.Mutex
	initial  map[domain.Language]InitialData
	lastUsed time.Time
}

type InitialData struct {
	Language domain.Language         `json:"language"`
	Examples []domain.ExampleProblem `json:"examples"`
	Fact     string                  `json:"fact"`
}

type State struct {
	SessionID    string               `json:"sessionId"`
	Settings     domain.Settings      `json:"settings"`
	Solve        solver.Snapshot      `json:"solve"`
	ChatState    chat.State           `json:"chatState"`
	ChatEnabled  bool                 `json:"chatEnabled"`
	ChatMessages []domain.ChatMessage `json:"chatMessages"`
	HistoryCount int                  `json:"historyCount"`
}

func newWorkspace(id string, d Deps) *Workspace {
	log := d.Log.With("workspace", id)
	st := settings.NewService(d.Store, id, log)
	hist := history.NewRepo(d.Store, id, log)
	conv := chat.NewConversation(st, log)
	return &Workspace{
		ID:        id,
		Settings:  st,
		History:   hist,
		Chat:      conv,
		Solver:    solver.NewOrchestrator(d.Gateway, hist, conv, st, log),
		gw:        d.Gateway,
		cards:     d.Cards,
		shareBase: d.ShareBaseURL,
		log:       log.With("service", "Workspace"),
		metrics:   d.Metrics,
		initial:   make(map[domain.Language]InitialData),
		lastUsed:  time.Now(),
	}
}

// init loads persisted state and opens the first chat session. It does not
// depend on ctx staying alive. A storage read failure leaves the workspace
// unready and the next request loads again.
func (w *Workspace) init(ctx context.Context) {
	w.initMu.Lock()
	defer w.initMu.Unlock()
	if w.ready {
		return
	}
	bg := context.WithoutCancel(ctx)
	_, settingsErr := w.Settings.Load(bg)
	_, historyErr := w.History.Load(bg)
	if !w.chatStarted {
		w.Solver.RenewChat(bg)
		w.chatStarted = true
	}
	if err := errors.Join(settingsErr, historyErr); err != nil {
		w.log.Warn("persisted state unavailable; will retry", "error", err)
		return
	}
	w.ready = true
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastUsed = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// busy reports a solve or chat turn still in flight.
func (w *Workspace) busy() bool {
	return w.Solver.Snapshot().State == solver.StateSolving || w.Chat.State() != chat.StateIdle
}

func (w *Workspace) State() State {
	hasSession := w.Chat.HasSession()
	return State{
		SessionID:    w.ID,
		Settings:     w.Settings.Get(),
		Solve:        w.Solver.Snapshot(),
		ChatState:    w.Chat.State(),
		ChatEnabled:  hasSession,
		ChatMessages: w.Chat.Messages(),
		HistoryCount: len(w.History.List()),
	}
}

type BootstrapResult struct {
	Location     string       `json:"location"`
	SharedLoaded bool         `json:"sharedLoaded"`
	State        State        `json:"state"`
	InitialData  *InitialData `json:"initialData,omitempty"`
}

// Bootstrap consumes a share fragment in location, if any. A decodable
// token sets the language and shows the shared solution; a bad token is
// logged and ignored. The returned location never carries the fragment, so
// the same token is not processed twice. Initial data is fetched only when
// no shared solution was loaded.
func (w *Workspace) Bootstrap(ctx context.Context, location string) BootstrapResult {
	token, cleaned, found := share.ConsumeLocation(location)
	res := BootstrapResult{Location: cleaned}

	if found {
		payload, err := share.Decode(token, w.Settings.Language())
		if err != nil {
			w.log.Warn("ignoring share link", "error", err)
		} else {
			if _, err := w.Settings.SetLanguage(ctx, string(payload.Language)); err != nil {
				w.log.Warn("share link language rejected", "error", err)
			}
			w.Solver.LoadShared(ctx, payload.Problem, payload.Solution)
			res.SharedLoaded = true
		}
	}

	if !res.SharedLoaded {
		data := w.InitialData(ctx, false)
		res.InitialData = &data
	}
	res.State = w.State()
	return res
}

// InitialData returns example problems and a fact for the current language,
// cached per language unless refresh is set. Fallback content is never
// cached, so the next call asks the model again.
func (w *Workspace) InitialData(ctx context.Context, refresh bool) InitialData {
	lang := w.Settings.Language()
	if !refresh {
		w.mu.Lock()
		cached, ok := w.initial[lang]
		w.mu.Unlock()
		if ok {
			return cached
		}
	}

	examples, fact, live := w.gw.GenerateInitialData(ctx, lang)
	data := InitialData{Language: lang, Examples: examples, Fact: fact}
	w.mu.Lock()
	if live {
		w.initial[lang] = data
	} else {
		delete(w.initial, lang)
	}
	w.mu.Unlock()
	return data
}

func (w *Workspace) Solve(ctx context.Context, problem domain.Problem) (solver.Snapshot, error) {
	snap, err := w.Solver.Submit(ctx, problem)
	switch {
	case errors.Is(err, solver.ErrSuperseded):
		w.metrics.IncSolveOutcome("superseded")
	case err == nil:
		w.metrics.IncSolveOutcome(string(snap.State))
	}
	return snap, err
}

func (w *Workspace) Clear(ctx context.Context) solver.Snapshot {
	return w.Solver.Clear(ctx)
}

func (w *Workspace) LoadHistory(ctx context.Context, id string) (solver.Snapshot, error) {
	item, ok := w.History.Get(id)
	if !ok {
		return w.Solver.Snapshot(), fmt.Errorf("history item %q: %w", id, apperr.ErrNotFound)
	}
	return w.Solver.LoadFromHistory(ctx, item), nil
}

// ClearHistory empties history and returns the solver to Idle.
func (w *Workspace) ClearHistory(ctx context.Context) solver.Snapshot {
	w.History.Clear(ctx)
	return w.Solver.Clear(ctx)
}

func (w *Workspace) SendChat(ctx context.Context, text string, onChunk func(string)) error {
	chunks := 0
	err := w.Chat.Send(ctx, text, func(chunk string) {
		chunks++
		if onChunk != nil {
			onChunk(chunk)
		}
	})
	w.metrics.AddChatChunks(chunks)
	switch {
	case err == nil:
		w.metrics.IncChatTurn("ok")
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrBusy), errors.Is(err, chat.ErrNoSession):
		w.metrics.IncChatTurn("rejected")
	case errors.Is(err, chat.ErrDetached):
		w.metrics.IncChatTurn("detached")
	default:
		w.metrics.IncChatTurn("error")
	}
	return err
}

func (w *Workspace) NewChat(ctx context.Context) {
	w.Solver.RenewChat(ctx)
}

// SetLanguage persists the language; a change starts a new chat session.
func (w *Workspace) SetLanguage(ctx context.Context, raw string) (domain.Settings, error) {
	changed, err := w.Settings.SetLanguage(ctx, raw)
	if err != nil {
		return w.Settings.Get(), err
	}
	if changed {
		w.Solver.RenewChat(ctx)
	}
	return w.Settings.Get(), nil
}

func (w *Workspace) SetFont(ctx context.Context, raw string) (domain.Settings, error) {
	err := w.Settings.SetFont(ctx, raw)
	return w.Settings.Get(), err
}

type ShareLink struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

func (w *Workspace) shown() (domain.Problem, domain.Solution, error) {
	snap := w.Solver.Snapshot()
	if snap.State != solver.StateSolved || snap.Problem == nil || snap.Solution == nil {
		return domain.Problem{}, domain.Solution{}, ErrNothingToShare
	}
	return *snap.Problem, *snap.Solution, nil
}

// ShareLink encodes the shown solution. Image problems fail with
// UnsupportedError.
func (w *Workspace) ShareLink() (ShareLink, error) {
	p, s, err := w.shown()
	if err != nil {
		return ShareLink{}, err
	}
	token, err := share.Encode(p, s, w.Settings.Language())
	if err != nil {
		var unsupported *apperr.UnsupportedError
		if errors.As(err, &unsupported) {
			unsupported.Reason = w.Settings.Localizer().T(i18n.KeyShareLinkImage)
		}
		return ShareLink{}, err
	}
	return ShareLink{Token: token, URL: share.BuildURL(w.shareBase, token)}, nil
}

// ShareCard renders the shown solution as a PNG and returns it with its
// download file name.
func (w *Workspace) ShareCard() ([]byte, string, error) {
	p, s, err := w.shown()
	if err != nil {
		return nil, "", err
	}
	if w.cards == nil {
		return nil, "", fmt.Errorf("share cards are not configured")
	}
	png, err := w.cards.Render(p, s)
	if err != nil {
		return nil, "", err
	}
	return png, share.CardFileName(s), nil
}
