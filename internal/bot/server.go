package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ajseidenfrau/NVSTWZ/internal/logger"
)

// StatusServer exposes the bot's status over HTTP for external monitoring.
// It is read-only; nothing about the bot can be changed through it.
type StatusServer struct {
	bot    *Bot
	server *http.Server
	log    *logger.Logger
}

// NewStatusServer creates a status server listening on addr.
func NewStatusServer(bot *Bot, addr string, log *logger.Logger) *StatusServer {
	s := &StatusServer{
		bot: bot,
		log: log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/portfolio", s.handlePortfolio)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start serves until Shutdown is called. Run it on its own goroutine.
func (s *StatusServer) Start() {
	s.log.Info("Status server listening", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Error("Status server failed", zap.Error(err))
	}
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.bot.Status())
}

func (s *StatusServer) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.bot.Snapshot())
}

func (s *StatusServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("Failed to encode response", zap.Error(err))
	}
}
