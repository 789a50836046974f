package api

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
	"github.com/akopian/portfolio/internal/shell"
)

const (
	// LangParam selects a language for one request and persists it
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference
	LangCookieName = "portfolio_lang"

	assetsPrefix = "/assets/"
)

// LanguageMiddleware resolves the request language and provides a
// request-scoped localization store to downstream handlers
type LanguageMiddleware struct {
	table *i18n.Table
}

// NewLanguageMiddleware creates new language middleware
func NewLanguageMiddleware(table *i18n.Table) *LanguageMiddleware {
	return &LanguageMiddleware{table: table}
}

// Resolve picks the language from, in order: the lang query parameter, the
// language cookie, the Accept-Language header. An explicit lang parameter
// is persisted as a cookie.
func (m *LanguageMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang, persist := resolveLanguage(r)
		if persist {
			setLanguageCookie(w, lang)
		}

		store := m.table.NewStore()
		store.SetLanguage(lang)

		ctx := i18n.WithStore(r.Context(), store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolveLanguage(r *http.Request) (models.LanguageCode, bool) {
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if lang, err := i18n.ParseLanguage(value); err == nil {
			return lang, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if lang, err := i18n.ParseLanguage(cookie.Value); err == nil {
			return lang, false
		}
	}

	return i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language")), false
}

func setLanguageCookie(w http.ResponseWriter, lang models.LanguageCode) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// loadShell looks up the shell named by the {id} URL parameter
func (s *Server) loadShell(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			respondError(w, http.StatusBadRequest, "validation_error", "shell id is required")
			return
		}

		sh, err := s.registry.Get(id)
		if err != nil {
			if errors.Is(err, shell.ErrShellNotFound) {
				respondError(w, http.StatusNotFound, "not_found", "shell not found")
				return
			}
			slog.Error("failed to get shell", "error", err, "id", id)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to get shell")
			return
		}

		sh.Touch()
		ctx := ContextWithShell(r.Context(), sh)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// throttleSubmit limits answer submissions per client address
func (s *Server) throttleSubmit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.allowSubmit(r, clientKey(r)) {
			respondError(w, http.StatusTooManyRequests, "rate_limited", "too many answers, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowSubmit consults the limiter. A limiter failure lets the request
// through: the gate is decoration and must not go down with Redis.
func (s *Server) allowSubmit(r *http.Request, key string) bool {
	ok, err := s.limiter.Allow(r.Context(), key)
	if err != nil {
		slog.Error("submit limiter failed", "error", err, "client", key)
		return true
	}
	if !ok {
		slog.Warn("answer submission throttled", "client", key)
	}
	return ok
}

// clientKey identifies the caller for throttling. RealIP has already
// replaced RemoteAddr with the forwarded address when present.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
