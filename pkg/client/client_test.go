package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akopian/portfolio/internal/api"
	"github.com/akopian/portfolio/internal/config"
	"github.com/akopian/portfolio/internal/content"
	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
	"github.com/akopian/portfolio/internal/shell"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	catalog, err := content.LoadEmbedded()
	require.NoError(t, err)
	table, err := i18n.NewTable(catalog.Trees)
	require.NoError(t, err)

	idx := 0
	for i, r := range catalog.Riddles {
		if r.ID == "class-reference" {
			idx = i
		}
	}
	registry := shell.NewRegistry(table, catalog.Riddles, gate.Options{
		RejectDelay: time.Hour,
		AcceptDelay: time.Hour,
		Pick:        func(int) int { return idx },
	})
	t.Cleanup(registry.Close)

	server := api.NewServer(config.ServerConfig{}, catalog, table, registry, nil, t.TempDir())
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, WithTimeout(5*time.Second))
}

func TestClient_Content(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	ru, err := c.GetContent(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, models.LanguageRU, ru.Language)

	en, err := c.GetContent(ctx, models.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, models.LanguageEN, en.Language)
	assert.Len(t, en.Projects, len(ru.Projects))
}

func TestClient_ShellAndGate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sh, err := c.CreateShell(ctx, models.LanguageEN)
	require.NoError(t, err)

	state, err := c.OpenGate(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GatePending, state.Gate.State)

	state, err = c.Input(ctx, sh.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", state.Gate.Input)

	state, err = c.Submit(ctx, sh.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, models.GateRejected, state.Gate.State)

	state, err = c.SetLanguage(ctx, sh.ID, models.LanguageRU)
	require.NoError(t, err)
	assert.Equal(t, "Не совсем. Попробуй еще раз.", state.Gate.Message)

	state, err = c.Submit(ctx, sh.ID, "5")
	require.NoError(t, err)
	assert.Equal(t, models.GateAccepted, state.Gate.State)

	state, err = c.CloseGate(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GateClosed, state.Gate.State)

	got, err := c.GetShell(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LanguageRU, got.Language)

	require.NoError(t, c.DeleteShell(ctx, sh.ID))

	_, err = c.GetShell(ctx, sh.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestClient_UnsupportedLanguage(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	sh, err := c.CreateShell(ctx, "")
	require.NoError(t, err)

	_, err = c.SetLanguage(ctx, sh.ID, "de")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unsupported_language", apiErr.Code)
}
