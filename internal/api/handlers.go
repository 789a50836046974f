package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if hc, ok := s.limiter.(healthChecker); ok {
		if err := hc.HealthCheck(r.Context()); err != nil {
			slog.Warn("limiter backend not ready", "error", err)
			respondError(w, http.StatusServiceUnavailable, "not_ready", "service not ready")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"shells": s.registry.Len(),
	})
}

// Content handlers

// ProjectView pairs a project card with its screenshot URL
type ProjectView struct {
	models.ProjectEntry
	Image string `json:"image"`
}

// ContentResponse is everything the page renders in one language
type ContentResponse struct {
	Language     models.LanguageCode `json:"language"`
	Toggle       models.LanguageCode `json:"toggle"`
	Content      models.ContentTree  `json:"content"`
	Projects     []ProjectView       `json:"projects"`
	Profile      models.SiteProfile  `json:"profile"`
	Avatar       string              `json:"avatar"`
	AvatarGlitch string              `json:"avatar_glitch"`
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	store := i18n.MustFromContext(r.Context())
	lang := store.ActiveLanguage()
	tree := store.Content()

	profile := s.catalog.Profile
	projects := make([]ProjectView, len(tree.Projects.Items))
	for i, item := range tree.Projects.Items {
		projects[i] = ProjectView{
			ProjectEntry: item,
			Image:        assetURL(profile.ProjectImage(i)),
		}
	}

	respondJSON(w, http.StatusOK, ContentResponse{
		Language:     lang,
		Toggle:       lang.Other(),
		Content:      tree,
		Projects:     projects,
		Profile:      *profile,
		Avatar:       assetURL(profile.Avatar),
		AvatarGlitch: assetURL(profile.AvatarGlitch),
	})
}

func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	store := i18n.MustFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"languages": models.Languages,
		"default":   models.DefaultLanguage,
		"active":    store.ActiveLanguage(),
	})
}

func assetURL(name string) string {
	if name == "" {
		return ""
	}
	return assetsPrefix + name
}
