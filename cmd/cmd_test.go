package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finxan/ai-service/internal/inventory"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	if got := runCommand(t, "version"); !strings.HasPrefix(got, "finxan-ai ") {
		t.Errorf("unexpected version output %q", got)
	}
}

func TestPromptCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.json")
	ctx := `{"hasData": true, "stockStatus": {"inStock": 40, "lowStock": 3, "outOfStock": 1}}`
	if err := os.WriteFile(path, []byte(ctx), 0644); err != nil {
		t.Fatal(err)
	}

	out := runCommand(t, "prompt", "--context", path)
	if !strings.Contains(out, "- Low Stock: 3 products") {
		t.Errorf("expected stock status in prompt:\n%s", out)
	}
}

func TestReadContextFile(t *testing.T) {
	raw, err := readContextFile("")
	if err != nil || raw.Variant != inventory.VariantNone {
		t.Errorf("empty path should mean no context, got %v %v", raw.Variant, err)
	}

	if _, err := readContextFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildRuntimeRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfgFile = filepath.Join(t.TempDir(), "absent.yml")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if _, err := buildRuntime(cfg, newLogger(cfg)); err == nil {
		t.Error("expected missing key to be fatal")
	}
}
