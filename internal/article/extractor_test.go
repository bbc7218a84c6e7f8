package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/redacaolab/redator/internal/apperr"
)

const articleFixture = `<!DOCTYPE html>
<html>
<head><title>Página de Teste</title></head>
<body>
	<nav>Menu Principal Navegação Links</nav>
	<header>Cabeçalho do site com logotipo</header>
	<article>
		<h1>Governo anuncia novo pacote econômico</h1>
		<p>O governo federal anunciou nesta terça-feira um novo pacote de medidas
		econômicas destinadas a estimular o crescimento do país nos próximos anos.</p>
		<p>Entre as medidas estão a redução de impostos para pequenas empresas e
		novos investimentos em infraestrutura de transporte e energia.</p>
	</article>
	<aside class="sidebar">Publicidade e links patrocinados</aside>
	<footer>Rodapé com informações de contato</footer>
</body>
</html>`

func TestExtractArticleContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleFixture))
	}))
	defer srv.Close()

	result, err := NewExtractor().Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Title != "Governo anuncia novo pacote econômico" {
		t.Errorf("Title = %q", result.Title)
	}
	if !strings.Contains(result.Content, "pacote de medidas") {
		t.Errorf("article body missing from content: %q", result.Content)
	}
	if strings.Contains(result.Content, "Menu Principal") ||
		strings.Contains(result.Content, "Publicidade") ||
		strings.Contains(result.Content, "Rodapé") {
		t.Errorf("boilerplate leaked into content: %q", result.Content)
	}
	if result.WordCount == 0 {
		t.Error("WordCount not computed")
	}
}

func TestExtractForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewExtractor().Extract(context.Background(), srv.URL)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("expected Forbidden kind, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("error message should mention 403: %v", err)
	}
}

func TestExtractNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewExtractor().Extract(context.Background(), srv.URL)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected NotFound kind, got %v", err)
	}
}

func TestExtractInsufficientContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>oi</p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewExtractor().Extract(context.Background(), srv.URL)
	if !apperr.Is(err, apperr.KindInsufficientContent) {
		t.Errorf("expected InsufficientContent kind, got %v", err)
	}
}

func TestExtractUnreachableHost(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), "https://host-inexistente-para-teste.invalid/")
	if apperr.KindOf(err) == apperr.KindUnknown {
		t.Errorf("transport error not translated: %v", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"g1.globo.com/noticia", "https://g1.globo.com/noticia"},
		{"https://g1.globo.com", "https://g1.globo.com"},
		{"http://site.com", "http://site.com"},
	}
	for _, c := range cases {
		if got := NormalizeURL(c.in); got != c.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a \n\t b   c  "); got != "a b c" {
		t.Errorf("CollapseWhitespace = %q", got)
	}
}
