// Package server exposes the shopping assistant over HTTP: account
// registration and token login, an authenticated query endpoint driving the
// conversation engine, and stored chat history access.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shopchat-ai/shopchat/auth"
	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/history"
	"github.com/shopchat-ai/shopchat/logging"
)

// QueryProcessor runs one conversation and returns the final answer.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query, sessionID string) string
}

// Options configure a Server.
type Options struct {
	// Logger receives request diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Server holds the HTTP dependencies.
type Server struct {
	users     history.UserStore
	chats     history.ChatStore
	memory    core.MemoryStore
	issuer    *auth.TokenIssuer
	assistant QueryProcessor
	logger    logging.Logger
}

// New wires a Server over its stores and the conversation engine.
func New(users history.UserStore, chats history.ChatStore, mem core.MemoryStore, issuer *auth.TokenIssuer, assistant QueryProcessor, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		users:     users,
		chats:     chats,
		memory:    mem,
		issuer:    issuer,
		assistant: assistant,
		logger:    logging.OrNoOp(opts.Logger),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Post("/register", s.handleRegister)
	r.Post("/token", s.handleToken)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/query", s.handleQuery)
		r.Get("/sessions", s.handleSessions)
		r.Get("/chat-history/{sessionID}", s.handleChatHistory)
		r.Delete("/clear-session/{sessionID}", s.handleClearSession)
		r.Get("/users/me", s.handleMe)
	})

	return r
}

type ctxKey int

const userKey ctxKey = iota

func userFrom(ctx context.Context) *history.User {
	u, _ := ctx.Value(userKey).(*history.User)
	return u
}

// requireAuth resolves the bearer token to an account and stores it on the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.unauthorized(w)
			return
		}
		email, err := s.issuer.Verify(token)
		if err != nil {
			s.unauthorized(w)
			return
		}
		user, err := s.users.UserByEmail(r.Context(), email)
		if err != nil || user == nil {
			s.unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (s *Server) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "Could not validate credentials")
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	existing, err := s.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		s.internalError(w, "register", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.internalError(w, "register", err)
		return
	}
	user, err := s.users.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		s.internalError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	// OAuth2 password flow puts the email in the username field.
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.users.UserByEmail(r.Context(), email)
	if err != nil {
		s.internalError(w, "token", err)
		return
	}
	if user == nil || !auth.VerifyPassword(password, user.HashedPassword) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	token, err := s.issuer.Issue(user.Email)
	if err != nil {
		s.internalError(w, "token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "query and session_id are required")
		return
	}

	if _, err := s.chats.SaveMessage(r.Context(), user.ID, req.SessionID, "user", req.Query); err != nil {
		s.internalError(w, "query", err)
		return
	}

	response := s.assistant.ProcessQuery(r.Context(), req.Query, req.SessionID)

	if _, err := s.chats.SaveMessage(r.Context(), user.ID, req.SessionID, "assistant", response); err != nil {
		s.internalError(w, "query", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"session_id": req.SessionID, "response": response})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessions, err := s.chats.SessionsByUser(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, "sessions", err)
		return
	}
	if sessions == nil {
		sessions = []history.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	msgs, err := s.chats.HistoryBySession(r.Context(), sessionID)
	if err != nil {
		s.internalError(w, "chat-history", err)
		return
	}
	if len(msgs) > 0 && msgs[0].UserID != user.ID {
		writeError(w, http.StatusForbidden, "Not authorized to view this chat history")
		return
	}
	if msgs == nil {
		msgs = []history.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.memory.Clear(r.Context(), sessionID); err != nil {
		s.internalError(w, "clear-session", err)
		return
	}
	if err := s.chats.DeleteSession(r.Context(), user.ID, sessionID); err != nil {
		s.internalError(w, "clear-session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Session %s cleared.", sessionID)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("server.error", "op", op, "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
