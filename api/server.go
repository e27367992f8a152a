// Package api exposes the marketplace over HTTP. Handlers are thin: they
// decode requests, call the engine or repository, and map error kinds to
// status codes. All invariants live below this layer.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"campusbarter/apperr"
	"campusbarter/bugsink"
	appcontext "campusbarter/context"
)

type Server struct {
	ctx *appcontext.Context
}

func NewServer(ctx *appcontext.Context) *Server {
	log.Println("[API] Server initialized")
	return &Server{ctx: ctx}
}

// Routes builds the HTTP mux
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /auth/me", s.withUser(s.handleMe))

	mux.HandleFunc("POST /items", s.withUser(s.handleCreateItem))
	mux.HandleFunc("GET /items", s.handleSearchItems)
	mux.HandleFunc("GET /items/mine", s.withUser(s.handleMyItems))
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)

	mux.HandleFunc("POST /items/{id}/exchanges", s.withUser(s.handleCreateExchange))
	mux.HandleFunc("GET /exchanges", s.withUser(s.handleListExchanges))
	mux.HandleFunc("GET /exchanges/{id}", s.withUser(s.handleExchangeDetail))
	mux.HandleFunc("PATCH /exchanges/{id}/status", s.withUser(s.handleUpdateStatus))
	mux.HandleFunc("DELETE /exchanges/{id}", s.withUser(s.handleCancelExchange))
	mux.HandleFunc("POST /exchanges/{id}/confirm", s.withUser(s.handleConfirmExchange))
	mux.HandleFunc("POST /exchanges/{id}/messages", s.withUser(s.handleSendMessage))
	mux.HandleFunc("GET /exchanges/{id}/messages", s.withUser(s.handleGetMessages))

	mux.HandleFunc("GET /locations", s.handleListLocations)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Error encoding response: %v", err)
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// statusForKind maps error kinds to HTTP status codes
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.InvalidInput, apperr.InvalidState:
		return http.StatusBadRequest
	case apperr.PermissionDenied:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.InvalidCredential:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusForKind(kind)

	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error on %s %s: %v", r.Method, r.URL.Path, err)
		bugsink.CaptureError(err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		writeJSON(w, status, errorResponse{Error: kind.String(), Detail: "internal error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: kind.String(), Detail: apperr.Message(err)})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidInput, "invalid request payload", err)
	}
	return nil
}
