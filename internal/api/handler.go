package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
	"github.com/anthropics/tg-awaybot/internal/biz/usecase"

	"github.com/google/uuid"
)

// Server provides the HTTP control plane: a status page plus remote
// presence switching, so the owner can flip offline mode from scripts
// or an uptime monitor without opening Telegram.
type Server struct {
	state      *usecase.StateManager
	texts      usecase.ReplyTexts
	instanceID string

	server *http.Server
	addr   string
}

// StatusResponse is the JSON body of the status endpoint
type StatusResponse struct {
	Instance       string `json:"instance"`
	Status         string `json:"status"`
	OfflineMessage string `json:"offline_message,omitempty"`
	OfflineUntil   string `json:"offline_until,omitempty"`
	Uptime         string `json:"uptime"`
	DndChats       int    `json:"dnd_chats"`
	Autoreplies    int    `json:"autoreplies"`
	Commands       int    `json:"commands"`
}

// OfflineRequest is the body of POST /offline
type OfflineRequest struct {
	Message string `json:"message"`
}

// NewServer creates a new control server
func NewServer(state *usecase.StateManager, texts usecase.ReplyTexts, addr string) *Server {
	return &Server{
		state:      state,
		texts:      texts,
		instanceID: uuid.NewString(),
		addr:       addr,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleStatus)
	mux.HandleFunc("/offline", s.handleOffline)
	mux.HandleFunc("/online", s.handleOnline)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	fmt.Printf("[API] Starting HTTP server on %s\n", s.addr)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Shutdown(context.Background())
	}
	return nil
}

// handleStatus serves the status document. HEAD is allowed so uptime
// monitors can probe without a body.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		s.writeJSON(w, s.buildStatus())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) buildStatus() StatusResponse {
	snapshot := s.state.Snapshot()

	status := "online"
	if snapshot.Presence.Offline {
		status = "offline"
	}
	resp := StatusResponse{
		Instance:    s.instanceID,
		Status:      status,
		Uptime:      usecase.FormatUptime(time.Since(s.state.StartTime())),
		DndChats:    len(snapshot.Dnd),
		Autoreplies: len(snapshot.Overrides),
		Commands:    len(snapshot.Commands.Commands),
	}
	if snapshot.Presence.Offline {
		resp.OfflineMessage = snapshot.Presence.OfflineMessage
		if snapshot.Presence.OfflineUntil != nil {
			resp.OfflineUntil = snapshot.Presence.OfflineUntil.Format(time.RFC3339)
		}
	}
	return resp
}

// handleOffline switches to indefinite offline mode.
// An empty message falls back to the configured default.
func (s *Server) handleOffline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OfflineRequest
	if r.Body != nil {
		// An empty or absent body is fine; only malformed JSON is rejected.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	message := req.Message
	if message == "" {
		message = s.texts.OfflineDefault
	}

	if err := s.state.Mutate(r.Context(), func(st *domain.State) error {
		st.Presence.GoOffline(message)
		return nil
	}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, s.buildStatus())
}

// handleOnline switches to online mode
func (s *Server) handleOnline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.state.Mutate(r.Context(), func(st *domain.State) error {
		st.Presence.GoOnline()
		return nil
	}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, s.buildStatus())
}

// ============ Helpers ============

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
