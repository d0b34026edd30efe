// Package server is the assessment service: it serves the bilingual question
// bank, grades submissions, stores profiles and results and answers chat.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/assistant"
	"github.com/abhisek/skillcheck/internal/store"
)

// APIVersion is reported by / and /health.
const APIVersion = "1.0.0"

// Options wires the server's collaborators.
type Options struct {
	Bank      *Bank
	Profiles  store.ProfileRepo
	Results   store.ResultRepo
	Chats     store.ChatRepo
	Assistant *assistant.Assistant
	Logger    *zap.Logger

	// Mode is the gin mode: debug, release or test.
	Mode           string
	AllowedOrigins []string
	ChatPerMinute  int
	ChatTimeout    time.Duration
}

// Server holds the gin engine and its dependencies.
type Server struct {
	opts    Options
	log     *zap.Logger
	metrics *Metrics
	engine  *gin.Engine
	now     func() time.Time
	newID   func() string
}

// New builds a server with all routes registered.
func New(opts Options) (*Server, error) {
	if opts.Bank == nil || opts.Profiles == nil || opts.Results == nil || opts.Chats == nil {
		return nil, errors.New("server: bank and repositories are required")
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = 30 * time.Second
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		opts:    opts,
		log:     opts.Logger,
		metrics: NewMetrics(),
		now:     time.Now,
		newID:   func() string { return "user_" + uuid.NewString() },
	}
	s.engine = s.routes()
	return s, nil
}

// Handler exposes the engine, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.opts.AllowedOrigins))
	r.Use(s.metrics.Middleware())

	r.GET("/metrics", s.metrics.Handler())

	r.GET("/", s.home)
	r.GET("/health", s.health)

	q := r.Group("/quiz")
	{
		q.GET("/questions", s.questions)
		q.GET("/questions/:language", s.questions)
		q.POST("/submit", s.submit)
		q.GET("/results/:user_id", s.results)
	}

	r.POST("/profile", s.createProfile)
	r.GET("/users/:user_id/profile", s.getProfile)

	chat := []gin.HandlerFunc{}
	if s.opts.ChatPerMinute > 0 {
		chat = append(chat, RateLimiter(s.opts.ChatPerMinute))
	}
	r.POST("/chat", append(chat, s.chat)...)
	r.GET("/chat/history/:user_id", s.chatHistory)

	return r
}

// Run serves on addr until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts down gracefully within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("server exited")
	return nil
}
