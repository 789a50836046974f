package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand_Output(t *testing.T) {
	// given
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	// when
	err := cmd.Execute()

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "portfolio "+Version) {
		t.Errorf("output = %q, want to contain %q", out, "portfolio "+Version)
	}
	if !strings.Contains(out, "go:") {
		t.Errorf("output = %q, want to contain 'go:'", out)
	}
}

func TestLintCommand_EmbeddedCatalog(t *testing.T) {
	// given
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"lint"})

	// when
	err := cmd.Execute()

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "OK 2 languages, 8 projects, 5 riddles") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLintCommand_BrokenCatalog(t *testing.T) {
	// given
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("language: en\nname: X\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"lint", "--content-dir", dir})

	// when
	err := cmd.Execute()

	// then
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("exit code = %d, want 2", exitErr.Code)
	}
	if !strings.HasPrefix(buf.String(), "FAIL ") {
		t.Errorf("output = %q, want FAIL line", buf.String())
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"serve", "lint", "version"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}
}
