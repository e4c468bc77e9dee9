// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package server

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/seating/internal/server/templates"
	"github.com/quixsi/seating/internal/session"
)

//go:embed all:static
var staticFS embed.FS

func NewServer(
	serviceName string,
	staticDir string,
	sessions *session.Store,
	widget *templates.WidgetHandler,
) *Server {
	s := &Server{
		logger:      slog.Default().WithGroup("http"),
		serviceName: serviceName,
		staticDir:   staticDir,
		sessions:    sessions,
		widget:      widget,
	}
	s.mux = s.routes()
	return s
}

type Server struct {
	serviceName string
	staticDir   string
	logger      *slog.Logger
	sessions    *session.Store
	widget      *templates.WidgetHandler
	mux         *gin.Engine
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	mux := gin.New()

	middlewares := []gin.HandlerFunc{
		sloggin.NewWithConfig(s.logger,
			sloggin.Config{
				DefaultLevel:     slog.LevelInfo,
				ClientErrorLevel: slog.LevelWarn,
				ServerErrorLevel: slog.LevelError,
			},
		),
		gin.Recovery(), otelgin.Middleware(s.serviceName), slogAddTraceAttributes,
	}
	mux.Use(middlewares...)

	var staticDir fs.FS
	var err error
	switch {
	case s.staticDir != "":
		staticDir = os.DirFS(s.staticDir)
	default:
		staticDir, err = fs.Sub(staticFS, "static")
		if err != nil {
			panic(err)
		}
	}
	mux.StaticFS("/static", http.FS(staticDir))

	mux.GET("/", s.widget.RenderPage)
	mux.GET("/healthz", s.health)

	page := mux.Group("/s/:uuid", sessionExists(s.sessions))
	page.GET("/view", s.widget.RenderView)
	page.POST("/search", s.widget.Search)
	page.POST("/clear", s.widget.Clear)
	page.POST("/view-all", s.widget.ToggleViewAll)
	page.POST("/guests/select", s.widget.SelectGuest)
	page.POST("/tables/:table", s.widget.SelectTable)
	page.POST("/modal/close", s.widget.CloseModal)

	mux.NoRoute(notFound)
	return mux
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func sessionExists(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var span trace.Span
		ctx := c.Request.Context()
		ctx, span = tracer.Start(ctx, "Middleware.sessionExists")
		defer span.End()

		id, err := uuid.Parse(c.Param("uuid"))
		if err != nil {
			span.RecordError(err)
			notFound(c)
			c.Abort()
			return
		}
		ctrl, err := sessions.Get(ctx, id)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			notFound(c)
			c.Abort()
			return
		}
		c.Set(templates.ContextKeySession, id.String())
		c.Set(templates.ContextKeyController, ctrl)
		c.Next()
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
}

func slogAddTraceAttributes(c *gin.Context) {
	sloggin.AddCustomAttributes(c,
		slog.String("trace-id", trace.SpanFromContext(c.Request.Context()).SpanContext().TraceID().String()),
	)
	sloggin.AddCustomAttributes(c,
		slog.String("span-id", trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()),
	)
	c.Next()
}
