package verify

import (
	"testing"
	"time"

	"github.com/redacaolab/redator/internal/types"
)

func TestFixRedirectURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			"https://g1.globo.com/busca/click?q=x&u=https%3A%2F%2Fg1.globo.com%2Fnoticia%2Freal.html",
			"https://g1.globo.com/noticia/real.html",
		},
		{
			"https://g1.globo.com/noticia/direta.html",
			"https://g1.globo.com/noticia/direta.html",
		},
		{
			"https://www.uol.com.br/busca/click?u=ignorado",
			"https://www.uol.com.br/busca/click?u=ignorado",
		},
	}
	for _, c := range cases {
		if got := fixRedirectURL(c.in); got != c.want {
			t.Errorf("fixRedirectURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDedupeByURL(t *testing.T) {
	now := time.Now()
	in := []types.NewsArticle{
		{Title: "a", URL: "https://x/1", PublishedAt: now},
		{Title: "b", URL: "https://x/2", PublishedAt: now},
		{Title: "a duplicada", URL: "https://x/1", PublishedAt: now},
		{Title: "c", URL: "https://x/3", PublishedAt: now},
	}

	out := dedupeByURL(in, 10)
	if len(out) != 3 {
		t.Fatalf("expected 3 unique articles, got %d", len(out))
	}
	if out[0].Title != "a" || out[1].Title != "b" || out[2].Title != "c" {
		t.Errorf("order not preserved: %+v", out)
	}
}

func TestDedupeByURLRespectsLimit(t *testing.T) {
	in := []types.NewsArticle{
		{URL: "https://x/1"}, {URL: "https://x/2"}, {URL: "https://x/3"},
	}
	if out := dedupeByURL(in, 2); len(out) != 2 {
		t.Errorf("limit not applied: got %d", len(out))
	}
}

func TestHostOf(t *testing.T) {
	if got := hostOf("https://g1.globo.com/busca/"); got != "g1.globo.com" {
		t.Errorf("hostOf = %q", got)
	}
}

func TestAbsoluteURL(t *testing.T) {
	if got := absoluteURL("/noticia/x", "g1.globo.com"); got != "https://g1.globo.com/noticia/x" {
		t.Errorf("absoluteURL relative = %q", got)
	}
	if got := absoluteURL("https://outro.com/y", "g1.globo.com"); got != "https://outro.com/y" {
		t.Errorf("absoluteURL absolute = %q", got)
	}
}
