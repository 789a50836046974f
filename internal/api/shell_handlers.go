package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
	"github.com/akopian/portfolio/internal/shell"
)

// Shell handlers

func (s *Server) handleCreateShell(w http.ResponseWriter, r *http.Request) {
	lang := i18n.MustFromContext(r.Context()).ActiveLanguage()
	sh := s.registry.Create(lang)
	respondJSON(w, http.StatusCreated, sh.State())
}

func (s *Server) handleGetShell(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ShellFromContext(r.Context()).State())
}

func (s *Server) handleDeleteShell(w http.ResponseWriter, r *http.Request) {
	sh := ShellFromContext(r.Context())
	if err := s.registry.Delete(sh.ID); err != nil {
		if errors.Is(err, shell.ErrShellNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "shell not found")
			return
		}
		slog.Error("failed to delete shell", "error", err, "id", sh.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete shell")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "shell deleted",
	})
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req models.SetLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	lang, err := i18n.ParseLanguage(string(req.Language))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unsupported_language", err.Error())
		return
	}

	sh := ShellFromContext(r.Context())
	sh.Store().SetLanguage(lang)
	setLanguageCookie(w, lang)

	respondJSON(w, http.StatusOK, sh.State())
}

// Gate handlers

func (s *Server) handleOpenGate(w http.ResponseWriter, r *http.Request) {
	sh := ShellFromContext(r.Context())
	sh.Gate().Open()
	respondJSON(w, http.StatusOK, sh.State())
}

func (s *Server) handleGateInput(w http.ResponseWriter, r *http.Request) {
	var req models.GateInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sh := ShellFromContext(r.Context())
	sh.Gate().Input(req.Text)
	respondJSON(w, http.StatusOK, sh.State())
}

func (s *Server) handleSubmitGate(w http.ResponseWriter, r *http.Request) {
	var req models.GateInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sh := ShellFromContext(r.Context())
	sh.Gate().Submit(req.Text)
	respondJSON(w, http.StatusOK, sh.State())
}

func (s *Server) handleCloseGate(w http.ResponseWriter, r *http.Request) {
	sh := ShellFromContext(r.Context())
	sh.Gate().Close()
	respondJSON(w, http.StatusOK, sh.State())
}
