package render

import (
	"strings"
	"testing"
)

func TestMarkdownFormatting(t *testing.T) {
	got, err := Markdown("Total value: **$26,344.50**\n\n- Tools\n- Electronics\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<strong>$26,344.50</strong>", "<li>Tools</li>", "<ul>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownTables(t *testing.T) {
	got, err := Markdown("| Item | Qty |\n|---|---|\n| Cable | 2 |\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<table>") {
		t.Errorf("expected a GFM table:\n%s", got)
	}
}

func TestMarkdownDropsRawHTML(t *testing.T) {
	got, err := Markdown("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html must not pass through:\n%s", got)
	}
}
