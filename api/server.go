package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Aidin1998/publications/common/apiutil"
	"github.com/Aidin1998/publications/internal/config"
	"github.com/Aidin1998/publications/pkg/models"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// PublicationsService is the set of operations the handlers call
type PublicationsService interface {
	ListPapers(ctx context.Context) ([]models.Paper, error)
	PapersByID(ctx context.Context, rawID string) ([]models.Paper, error)
	CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (int64, error)
	ListFootnotes(ctx context.Context) ([]models.Footnote, error)
	FootnotesByPaperID(ctx context.Context, rawPaperID string) ([]models.Footnote, error)
	CreateFootnote(ctx context.Context, req *models.CreateFootnoteRequest) (int64, error)
	Ping(ctx context.Context) error
}

// Server represents the API server
type Server struct {
	cfg     config.Config
	router  *gin.Engine
	logger  *zap.Logger
	service PublicationsService
	http    *http.Server
}

// NewServer creates a new API server. cfg is copied and never modified.
func NewServer(cfg config.Config, logger *zap.Logger, service PublicationsService) *Server {
	server := &Server{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}

	// Create router
	router := gin.New()

	// Add middleware
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	// Configure CORS
	corsConfig := cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", apiutil.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))
	router.Use(apiutil.RequestID())
	if cfg.Monitoring.Enabled {
		router.Use(apiutil.MetricsMiddleware())
	}
	router.Use(apiutil.ErrorMiddleware())

	server.router = router
	server.registerRoutes()
	return server
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.greeting)

	if s.cfg.Monitoring.Enabled {
		s.router.GET(s.cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)

		papers := v1.Group("/papers")
		{
			papers.GET("", s.listPapers)
			papers.POST("", s.createPaper)
			papers.GET("/:id", s.getPapersByID)
		}

		footnotes := v1.Group("/footnotes")
		{
			footnotes.GET("", s.listFootnotes)
			footnotes.POST("", s.createFootnote)
			footnotes.GET("/:paper_id", s.getFootnotesByPaperID)
		}
	}
}

// Start binds the listen address and serves in the background. Bind errors
// are returned; errors after that are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return err
	}

	s.http = &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.logger.Info(s.cfg.Title + " is running on " + strconv.Itoa(s.cfg.Server.Port) + ".")
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	if s.cfg.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
