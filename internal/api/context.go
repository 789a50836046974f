package api

import (
	"context"

	"github.com/akopian/portfolio/internal/shell"
)

type contextKey string

const shellContextKey contextKey = "shell"

// ShellFromContext extracts the Shell from context
func ShellFromContext(ctx context.Context) *shell.Shell {
	sh, ok := ctx.Value(shellContextKey).(*shell.Shell)
	if !ok {
		return nil
	}
	return sh
}

// ContextWithShell adds the Shell to context
func ContextWithShell(ctx context.Context, sh *shell.Shell) context.Context {
	return context.WithValue(ctx, shellContextKey, sh)
}
