// Package server exposes the article store and enhancement pipeline over a
// JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/copydesk/enhance-cli/internal/enhance"
	"github.com/copydesk/enhance-cli/internal/model"
	"github.com/copydesk/enhance-cli/internal/store"
)

// Server routes article CRUD and enhancement requests.
type Server struct {
	store    store.Store
	pipeline *enhance.Pipeline
	router   chi.Router
}

// New builds a Server with its routes registered.
func New(st store.Store, pipeline *enhance.Pipeline) *Server {
	s := &Server{store: st, pipeline: pipeline}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Post("/enhance", s.handleEnhance)
		})
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler for mounting or testing.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("server: write response", zap.Error(err))
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	filter := store.ArticleFilter{}

	if v := r.URL.Query().Get("enhanced"); v != "" {
		enhanced, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "enhanced must be a boolean")
			return
		}
		filter.Enhanced = &enhanced
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		filter.Offset = offset
	}

	articles, err := s.store.ListArticles(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list articles", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list articles")
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}
	writeData(w, http.StatusOK, articles)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.Article
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Title == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	article, err := s.store.CreateArticle(r.Context(), in)
	if err != nil {
		zap.L().Error("server: create article", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create article")
		return
	}
	writeData(w, http.StatusCreated, article)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		zap.L().Error("server: get article", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article == nil {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeData(w, http.StatusOK, article)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var update model.ArticleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	article, err := s.store.UpdateArticle(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "article not found")
			return
		}
		zap.L().Error("server: update article", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update article")
		return
	}
	writeData(w, http.StatusOK, article)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteArticle(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "article not found")
			return
		}
		zap.L().Error("server: delete article", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete article")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	article, err := s.store.GetArticle(r.Context(), id)
	if err != nil {
		zap.L().Error("server: get article", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article == nil {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	if article.IsEnhanced && !force {
		writeError(w, http.StatusConflict, "article already enhanced")
		return
	}

	result, err := s.pipeline.Run(r.Context(), *article)
	if err != nil {
		switch {
		case errors.Is(err, enhance.ErrNoBackendConfigured):
			writeError(w, http.StatusBadRequest, "no generation backend configured")
		case errors.Is(err, enhance.ErrNoReferencesFound),
			errors.Is(err, enhance.ErrNoReferenceContent),
			errors.Is(err, enhance.ErrGenerationFailed):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			zap.L().Error("server: enhance article", zap.String("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "enhancement failed")
		}
		return
	}

	updated, err := s.store.UpdateArticle(r.Context(), id, model.EnhancementUpdate(result))
	if err != nil {
		zap.L().Error("server: persist enhancement", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist enhancement")
		return
	}
	writeData(w, http.StatusOK, updated)
}
