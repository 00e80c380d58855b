// ABOUTME: HTTP surface for the document assistant
// ABOUTME: Exposes GET /health and POST /rag_chat with permissive CORS
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/harper/docqa/internal/core"
)

// Asker answers a question about the indexed document
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// ChatRequest is the /rag_chat body. "pregunta" is accepted for older clients.
type ChatRequest struct {
	Question string `json:"question"`
	Pregunta string `json:"pregunta,omitempty"`
}

// ChatResponse echoes the question with its answer
type ChatResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgBadQuestion = "No valid question received."
	msgInternal    = "An internal error occurred while processing the question."
	maxBodyBytes   = 1 << 20
)

// Server routes HTTP requests to an Asker
type Server struct {
	asker Asker
	mux   *http.ServeMux
}

// New creates a server for asker
func New(asker Asker) *Server {
	s := &Server{asker: asker, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /rag_chat", s.handleChat)
	s.mux.HandleFunc("OPTIONS /", s.handlePreflight)
	return s
}

// ServeHTTP adds CORS headers to every response
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadQuestion})
		return
	}
	question := req.Question
	if question == "" {
		question = req.Pregunta
	}
	question = strings.TrimSpace(question)
	if question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadQuestion})
		return
	}

	answer, err := s.asker.Ask(r.Context(), question)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNoContext):
		answer = core.NoContextAnswer
	case core.IsUserError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadQuestion})
		return
	default:
		log.Printf("[Server] Error answering %q: %v", question, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Question: question, Answer: answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] Failed to write response: %v", err)
	}
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down gracefully
func ListenAndServe(ctx context.Context, port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
