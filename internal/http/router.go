package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mathtutor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mathtutor-backend/internal/http/middleware"
	"github.com/yungbote/mathtutor-backend/internal/observability"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// Metrics enables request metrics and GET /metrics when non-nil.
	Metrics *observability.Metrics

	SessionMiddleware *httpMW.SessionMiddleware

	HealthHandler   *httpH.HealthHandler
	SessionHandler  *httpH.SessionHandler
	I18nHandler     *httpH.I18nHandler
	StateHandler    *httpH.StateHandler
	SolveHandler    *httpH.SolveHandler
	HistoryHandler  *httpH.HistoryHandler
	ChatHandler     *httpH.ChatHandler
	SettingsHandler *httpH.SettingsHandler
	ShareHandler    *httpH.ShareHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		if cfg.SessionHandler != nil {
			api.POST("/session", cfg.SessionHandler.Create)
		}
		if cfg.I18nHandler != nil {
			api.GET("/i18n/:lang", cfg.I18nHandler.Table)
		}
		if cfg.ShareHandler != nil {
			api.POST("/share/decode", cfg.ShareHandler.Decode)
		}
	}

	protected := api.Group("/")
	{
		if cfg.SessionMiddleware != nil {
			protected.Use(cfg.SessionMiddleware.RequireSession())
		}

		if cfg.StateHandler != nil {
			protected.GET("/state", cfg.StateHandler.Get)
			protected.POST("/bootstrap", cfg.StateHandler.Bootstrap)
			protected.GET("/initial-data", cfg.StateHandler.InitialData)
		}

		if cfg.SolveHandler != nil {
			protected.POST("/solve", cfg.SolveHandler.Solve)
			protected.POST("/solve/image", cfg.SolveHandler.SolveImage)
			protected.POST("/clear", cfg.SolveHandler.Clear)
		}

		if cfg.HistoryHandler != nil {
			protected.GET("/history", cfg.HistoryHandler.List)
			protected.POST("/history/:id/load", cfg.HistoryHandler.Load)
			protected.DELETE("/history", cfg.HistoryHandler.Clear)
		}

		if cfg.ChatHandler != nil {
			protected.GET("/chat/messages", cfg.ChatHandler.Messages)
			protected.POST("/chat/messages", cfg.ChatHandler.Send)
			protected.POST("/chat/new", cfg.ChatHandler.New)
		}

		if cfg.SettingsHandler != nil {
			protected.GET("/settings", cfg.SettingsHandler.Get)
			protected.PUT("/settings", cfg.SettingsHandler.Update)
		}

		if cfg.ShareHandler != nil {
			protected.POST("/share/link", cfg.ShareHandler.Link)
			protected.GET("/share/image", cfg.ShareHandler.Image)
		}
	}

	return r
}
