package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pixpod/pixpod/internal/metrics"
	"github.com/pixpod/pixpod/pkg/session"
)

// Server is the chat front-end HTTP server. It renders the single page,
// exposes the JSON API the page talks to, and owns the presentation-side
// mapping of invocation failures to display text.
type Server struct {
	options     ServerOptions
	store       *session.Store
	resolver    CredentialResolver
	agentConfig AgentConfigResolver
	newCaller   CallerFactory
	metrics     *metrics.Metrics
	limiter     *rateLimiter
	logger      zerolog.Logger
	server      *http.Server
	startTime   time.Time
}

// NewServer creates a web server.
func NewServer(
	options ServerOptions,
	store *session.Store,
	resolver CredentialResolver,
	agentConfig AgentConfigResolver,
	newCaller CallerFactory,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*Server, error) {
	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if options.Port == 0 {
		options.Port = 8501
	}
	if options.RateLimitPerMinute == 0 {
		options.RateLimitPerMinute = 60
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("credential resolver is required")
	}
	if agentConfig == nil {
		return nil, fmt.Errorf("agent config resolver is required")
	}
	if newCaller == nil {
		return nil, fmt.Errorf("caller factory is required")
	}

	return &Server{
		options:     options,
		store:       store,
		resolver:    resolver,
		agentConfig: agentConfig,
		newCaller:   newCaller,
		metrics:     m,
		limiter:     newRateLimiter(options.RateLimitPerMinute),
		logger:      logger.With().Str("component", "web").Logger(),
		startTime:   time.Now(),
	}, nil
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	api := http.NewServeMux()
	api.HandleFunc("/api/chat", s.handleChat)
	api.HandleFunc("/api/session/new", s.handleNewSession)
	api.HandleFunc("/api/session/clear", s.handleClearChat)
	api.HandleFunc("/api/client/initialize", s.handleInitializeClient)
	api.HandleFunc("/api/export", s.handleExport)
	api.HandleFunc("/api/state", s.handleState)
	mux.Handle("/api/", s.withRateLimit(api))

	return s.withLogging(mux)
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: s.Handler(),
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Msg("Starting web server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.limiter.stop()
	if s.server == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down web server")

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown web server: %w", err)
	}

	s.logger.Info().Msg("Web server stopped")
	return nil
}

// sessionFor returns the browser's session, minting a cookie when the
// browser has none yet.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		sess, _ := s.store.GetOrCreate(cookie.Value)
		return sess, nil
	}

	token, err := s.store.NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to mint session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	sess, _ := s.store.GetOrCreate(token)
	return sess, nil
}
