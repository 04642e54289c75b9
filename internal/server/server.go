package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"sophie-backend/internal/config"
	"sophie-backend/internal/llm"
	"sophie-backend/internal/logger"
	"sophie-backend/internal/router"
	"sophie-backend/internal/script"
	"sophie-backend/internal/store"
	"sophie-backend/internal/types"
)

const (
	maxBodyBytes    = 64 << 10
	maxSessionIDLen = 128
)

type Server struct {
	router   *chi.Mux
	store    *store.MemoryStore
	chat     *router.Router
	script   *script.Script
	provider llm.Provider
	cfg      config.Config
}

func NewServer(cfg config.Config, sc *script.Script, provider llm.Provider) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		store:    store.NewMemoryStore(provider, sc.System, cfg.SessionTTL),
		chat:     router.New(sc, cfg.RemoteTimeout),
		script:   sc,
		provider: provider,
		cfg:      cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/info", s.handleInfo)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Get("/api/messages", s.handleMessages)
	s.router.Post("/api/reset", s.handleReset)
}

func (s *Server) Router() http.Handler { return s.router }

// Store exposes the session registry, for the idle sweeper.
func (s *Server) Store() *store.MemoryStore { return s.store }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.InfoResponse{
		Title:       s.script.UI.Title,
		Caption:     s.script.UI.Caption,
		Placeholder: s.script.UI.Placeholder,
		Provider:    s.provider.Name(),
		Model:       s.provider.Model(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	sid := s.getOrCreateSessionID(r, w)
	sess, err := s.store.GetOrCreate(r.Context(), sid)
	if err != nil {
		logger.Error("could not open chat session", "session", sid, "error", err)
		s.writeError(w, http.StatusBadGateway, "could not start a chat session")
		return
	}

	reply := s.chat.Reply(r.Context(), sess, req.Message)
	logger.Info("chat turn", "session", sid, "source", reply.Source, "topic", reply.Topic, "followups", reply.FollowupCount)

	w.Header().Set("X-Session-Id", sid)
	writeJSON(w, http.StatusOK, types.ChatResponse{
		SessionID:     sid,
		Reply:         reply.Text,
		Source:        string(reply.Source),
		Topic:         reply.Topic,
		FollowupCount: reply.FollowupCount,
	})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	resp := types.HistoryResponse{Messages: []types.Message{}}
	sid := getSessionID(r)
	if sess, ok := s.store.Get(sid); ok {
		resp.SessionID = sid
		for _, m := range sess.History() {
			resp.Messages = append(resp.Messages, types.Message{
				Role:      string(m.Role),
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if sid := getSessionID(r); sid != "" && s.store.Delete(sid) {
		logger.Info("session reset", "session", sid)
	}
	ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// getSessionID retrieves the session ID from cookie, header or query parameter
func getSessionID(r *http.Request) string {
	var sid string
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		sid = cookie
	} else if h := r.Header.Get("X-Session-Id"); h != "" {
		sid = h
	} else {
		sid = r.URL.Query().Get("sessionId")
	}
	sid = strings.TrimSpace(sid)
	if len(sid) > maxSessionIDLen {
		return ""
	}
	return sid
}

// getOrCreateSessionID gets the existing session ID or creates a new one,
// refreshing the cookie either way
func (s *Server) getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = uuid.NewString()
		logger.Debug("creating new session", "session", sid, "path", r.URL.Path)
	}
	SetSessionCookie(w, r, sid, s.cfg.SessionTTL)
	return sid
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
