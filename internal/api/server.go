package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/go-watchparty/internal/config"
	"github.com/npezzotti/go-watchparty/internal/server"
)

// WatchPartyApp is the HTTP surface: the websocket upgrade endpoint for
// the live sync protocol and the legacy polling API over the same engine.
type WatchPartyApp struct {
	log            *log.Logger
	ps             *server.PartyServer
	mux            *http.Server
	allowedOrigins []string
}

func NewWatchPartyApp(mux *http.ServeMux, logger *log.Logger, ps *server.PartyServer, cfg *config.Config) *WatchPartyApp {
	s := &WatchPartyApp{
		log:            logger,
		ps:             ps,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("POST /sessions/create", s.createSession)
	mux.HandleFunc("POST /sessions/{id}/update", s.updateSession)
	mux.HandleFunc("GET /sessions/{id}", s.getSession)
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /ws", s.serveWs)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *WatchPartyApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *WatchPartyApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
