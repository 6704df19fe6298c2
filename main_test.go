package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/takoeight0821/quack/driver"
	"github.com/takoeight0821/quack/lexer"
)

func newTestCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().Int("max-depth", 0, "")
	cmd.Flags().String("format", "", "")
	cmd.Flags().Bool("verbose", false, "")
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	return cmd
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(envMaxDepth, "")

	cfg, err := loadConfig(newTestCommand(t, nil))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.MaxDepth <= 0 || (cfg.Format != formatText && cfg.Format != formatYAML) {
		t.Errorf("loadConfig = %+v", cfg)
	}

	cfg, err = loadConfig(newTestCommand(t, map[string]string{"max-depth": "4", "format": "yaml", "verbose": "true"}))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.MaxDepth != 4 || cfg.Format != formatYAML || !cfg.Verbose {
		t.Errorf("loadConfig = %+v, want the flags' values", cfg)
	}

	if _, err := loadConfig(newTestCommand(t, map[string]string{"format": "json"})); err == nil {
		t.Errorf("loadConfig accepted format json")
	}
	if _, err := loadConfig(newTestCommand(t, map[string]string{"max-depth": "-1"})); err == nil {
		t.Errorf("loadConfig accepted max-depth -1")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv(envMaxDepth, "7")

	cfg, err := loadConfig(newTestCommand(t, nil))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cfg.MaxDepth)
	}

	// flags win over the environment
	cfg, err = loadConfig(newTestCommand(t, map[string]string{"max-depth": "2"}))
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.MaxDepth)
	}

	t.Setenv(envMaxDepth, "deep")
	if _, err := loadConfig(newTestCommand(t, nil)); err == nil {
		t.Errorf("loadConfig accepted %s=deep", envMaxDepth)
	}
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := defaultConfig()
	if err := readConfigFile(filepath.Join(dir, "missing.yaml"), &cfg); err != nil {
		t.Fatalf("missing config file returned error: %v", err)
	}
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("missing config file changed the config (-want +got):\n%s", diff)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("max_depth: 5\npredefined: [println, io]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := readConfigFile(path, &cfg); err != nil {
		t.Fatalf("readConfigFile returned error: %v", err)
	}
	want := Config{MaxDepth: 5, Format: formatText, Predefined: []string{"println", "io"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(path, []byte("max_depth: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := readConfigFile(path, &cfg); err == nil {
		t.Errorf("readConfigFile accepted malformed yaml")
	}
}

func TestWriteTokens(t *testing.T) {
	t.Parallel()

	tokens, err := driver.NewRunner().Tokens(lexer.NewSource("test", `x;`))
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := writeTokens(&text, formatText, tokens); err != nil {
		t.Fatal(err)
	}
	if want := "1:1 IDENT \"x\"\n1:2 SEMICOLON \";\"\n1:3 EOF \"\"\n"; text.String() != want {
		t.Errorf("text output = %q, want %q", text.String(), want)
	}

	var out bytes.Buffer
	if err := writeTokens(&out, formatYAML, tokens); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"kind: IDENT", "lexeme: x", "kind: EOF"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("yaml output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestWriteInlineGoToken(t *testing.T) {
	t.Parallel()

	tokens, err := driver.NewRunner().Tokens(lexer.NewSource("test", "go { x() }"))
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := writeTokens(&text, formatText, tokens); err != nil {
		t.Fatal(err)
	}
	if want := "1:1 INLINEGO \"go { x() }\" \" x() \"\n1:11 EOF \"\"\n"; text.String() != want {
		t.Errorf("text output = %q, want %q", text.String(), want)
	}

	var out bytes.Buffer
	if err := writeTokens(&out, formatYAML, tokens); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "kind: INLINEGO") || !strings.Contains(out.String(), "body:") || !strings.Contains(out.String(), "x()") {
		t.Errorf("unexpected yaml output:\n%s", out.String())
	}
}

func TestWriteNodes(t *testing.T) {
	t.Parallel()

	nodes, err := driver.NewRunner().RunSource(lexer.NewSource("test", `let n = 1 + 2;`))
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := writeNodes(&text, formatText, nodes); err != nil {
		t.Fatal(err)
	}
	if want := "(let n (binary (int 1) + (int 2)))\n"; text.String() != want {
		t.Errorf("text output = %q, want %q", text.String(), want)
	}

	var out bytes.Buffer
	if err := writeNodes(&out, formatYAML, nodes); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "kind: int") || !strings.Contains(out.String(), "node: let") || !strings.Contains(out.String(), "node: binary") {
		t.Errorf("unexpected yaml output:\n%s", out.String())
	}
}
