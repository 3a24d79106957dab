package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
	"github.com/yungbote/mathtutor-backend/internal/data/repos/kv"
	httpx "github.com/yungbote/mathtutor-backend/internal/http"
	httpH "github.com/yungbote/mathtutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mathtutor-backend/internal/http/middleware"
	"github.com/yungbote/mathtutor-backend/internal/observability"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
	"github.com/yungbote/mathtutor-backend/internal/services/gateway"
	"github.com/yungbote/mathtutor-backend/internal/services/session"
	"github.com/yungbote/mathtutor-backend/internal/services/share"
	"github.com/yungbote/mathtutor-backend/internal/services/workspace"
)

type App struct {
	Log        *logger.Logger
	Cfg        Config
	Router     *gin.Engine
	Store      kv.Store
	Workspaces *workspace.Registry
	Sessions   session.Service
	Metrics    *observability.Metrics

	server       *httpx.Server
	storeCloser  io.Closer
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithConfig(ctx, log, cfg, nil)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithConfig wires the app. A nil client is created from cfg.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config, client gemini.Client) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     observability.ParseHeaders(cfg.OtelHeaders),
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	metrics := observability.Init(cfg.MetricsEnabled)

	store, closer, err := wireStorage(log, cfg)
	if err != nil {
		return nil, err
	}

	if client == nil {
		log.Info("Wiring Gemini client...", "model", cfg.GeminiModel)
		client, err = gemini.NewClient(ctx, log, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
	}
	var rec gemini.Recorder
	if metrics != nil {
		rec = metrics
	}
	client = gemini.Instrument(client, rec)

	cards, err := share.NewCardRenderer(cfg.ShareCardFont)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init share cards: %w", err)
	}

	sessions, err := session.NewService(log, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init sessions: %w", err)
	}

	registry := workspace.NewRegistry(workspace.Deps{
		Store:        store,
		Gateway:      gateway.NewGateway(client, log),
		Cards:        cards,
		ShareBaseURL: cfg.ShareBaseURL,
		Log:          log,
		Metrics:      metrics,
	})

	routerCfg := httpx.RouterConfig{
		Log:               log,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		SessionMiddleware: httpMW.NewSessionMiddleware(log, sessions),
		HealthHandler:     httpH.NewHealthHandler(),
		SessionHandler:    httpH.NewSessionHandler(sessions),
		I18nHandler:       httpH.NewI18nHandler(),
		StateHandler:      httpH.NewStateHandler(registry),
		SolveHandler:      httpH.NewSolveHandler(registry),
		HistoryHandler:    httpH.NewHistoryHandler(registry),
		ChatHandler:       httpH.NewChatHandler(log, registry),
		SettingsHandler:   httpH.NewSettingsHandler(registry),
		ShareHandler:      httpH.NewShareHandler(registry),
	}
	if cfg.OtelEnabled {
		routerCfg.ServiceName = cfg.ServiceName
	}
	srv := httpx.NewServer(routerCfg)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Router:       srv.Engine,
		Store:        store,
		Workspaces:   registry,
		Sessions:     sessions,
		Metrics:      metrics,
		server:       srv,
		storeCloser:  closer,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the idle workspace sweeper.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.Workspaces.RunSweeper(ctx, a.Cfg.SweepInterval, a.Cfg.WorkspaceIdleTTL)
}

func (a *App) Run() error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Addr())
	return a.server.Run(a.Cfg.Addr())
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.Log.Warn("server shutdown failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.storeCloser != nil {
		if err := a.storeCloser.Close(); err != nil {
			a.Log.Warn("storage close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
