package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-watchparty/internal/server"
	"github.com/npezzotti/go-watchparty/internal/types"
)

type CreateSessionRequest struct {
	VideoId *int `json:"videoId"`
}

type UpdateSessionRequest struct {
	LastKnownTime *int64              `json:"lastKnownTime"`
	State         types.PlaybackState `json:"state"`
}

func (s *WatchPartyApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *WatchPartyApp) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusInternalServerError)
		return
	}

	if req.VideoId == nil || *req.VideoId < 0 {
		http.Error(w, "videoId must be a non-negative integer", http.StatusInternalServerError)
		return
	}

	rec := s.ps.LegacyCreateSession(*req.VideoId)
	s.writeJson(w, http.StatusOK, rec)
}

func (s *WatchPartyApp) updateSession(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusInternalServerError)
		return
	}

	if req.LastKnownTime == nil || *req.LastKnownTime < 0 {
		http.Error(w, "lastKnownTime must be a non-negative integer", http.StatusInternalServerError)
		return
	}

	if !req.State.Valid() {
		http.Error(w, `state must be "playing" or "paused"`, http.StatusInternalServerError)
		return
	}

	rec, err := s.ps.LegacyUpdateSession(r.PathValue("id"), *req.LastKnownTime, req.State)
	if err != nil {
		if errors.Is(err, server.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJson(w, http.StatusOK, rec)
}

func (s *WatchPartyApp) getSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ps.LegacySession(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, server.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJson(w, http.StatusOK, rec)
}

func (s *WatchPartyApp) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *WatchPartyApp) serveWs(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// only allow connections from allowed origins
			origin := r.Header.Get("Origin")
			if origin == "" {
				// if no origin header, allow the request
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := s.ps.Connect(conn)

	go client.Write()
	go client.Read()
}
