package ai

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/redacaolab/redator/internal/types"
)

type stubProvider struct {
	mu        sync.Mutex
	responses map[string]string // substring of prompt -> response
	fallback  string
	models    []string
	prompts   []string
}

func (s *stubProvider) Complete(_ context.Context, prompt, model string) (string, error) {
	s.mu.Lock()
	s.models = append(s.models, model)
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	for needle, resp := range s.responses {
		if strings.Contains(prompt, needle) {
			return resp, nil
		}
	}
	return s.fallback, nil
}

func TestParseGeneratedStructuredOutput(t *testing.T) {
	raw := "### Título da Matéria\nSubtítulo explicativo da matéria\nPrimeiro parágrafo do conteúdo.\n\n**Seção Importante**\nSegundo parágrafo."
	article := parseGenerated(raw)

	if article.Title != "Título da Matéria" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.Subtitle != "Subtítulo explicativo da matéria" {
		t.Errorf("Subtitle = %q", article.Subtitle)
	}
	if !strings.Contains(article.Content, "<h3>Seção Importante</h3>") {
		t.Errorf("bold markers not converted: %q", article.Content)
	}
	if strings.Contains(article.Content, "###") {
		t.Errorf("title leaked into content: %q", article.Content)
	}
}

func TestParseGeneratedUnstructuredOutput(t *testing.T) {
	raw := "Texto livre sem o formato combinado, apenas parágrafos."
	article := parseGenerated(raw)

	if article.Title != "" || article.Subtitle != "" {
		t.Errorf("unexpected title/subtitle: %+v", article)
	}
	if article.Content != raw {
		t.Errorf("whole text should become content: %q", article.Content)
	}
}

func TestModelForRoutesEditingPrompts(t *testing.T) {
	w := NewWriter(&stubProvider{}, "modelo-edicao")

	cases := []struct {
		prompt   string
		override string
		want     string
	}{
		{"PARTE A SER EDITADA: texto aqui", "", "modelo-edicao"},
		{"Você está Editando Matéria existente", "", "modelo-edicao"},
		{"qualquer prompt comum", "editing", "modelo-edicao"},
		{"qualquer prompt comum", "", ""},
		{"qualquer prompt comum", "modelo-x", "modelo-x"},
	}
	for _, c := range cases {
		if got := w.modelFor(c.prompt, c.override); got != c.want {
			t.Errorf("modelFor(%q, %q) = %q, want %q", c.prompt, c.override, got, c.want)
		}
	}
}

func TestNewsContextIncludesExtractedContent(t *testing.T) {
	sources := []types.NewsArticle{
		{Title: "Notícia A", Description: "descrição a"},
		{Title: "Notícia B", Description: "descrição b", Content: "conteúdo completo da notícia b"},
	}
	ctx := newsContext(sources)

	if !strings.Contains(ctx, "- Notícia A: descrição a") {
		t.Errorf("metadata line missing: %q", ctx)
	}
	if !strings.Contains(ctx, "CONTEÚDO EXTRAÍDO:") ||
		!strings.Contains(ctx, "conteúdo completo da notícia b") {
		t.Errorf("extracted content section missing: %q", ctx)
	}
}

func TestGenerateArticleFillsTagsAndKeyword(t *testing.T) {
	provider := &stubProvider{
		responses: map[string]string{
			"Crie uma matéria jornalística": "### Título Gerado\nSubtítulo gerado\nCorpo da matéria gerada.",
			"gere apenas 5-7 tags":          "política, economia, brasil",
			"palavra-chave de cauda longa":  "novo pacote econômico do governo",
		},
	}
	w := NewWriter(provider, "")

	article, err := w.GenerateArticle(context.Background(), "pacote econômico", "", "", []types.NewsArticle{
		{Title: "Fonte", Description: "desc"},
	})
	if err != nil {
		t.Fatalf("GenerateArticle failed: %v", err)
	}
	if article.Title != "Título Gerado" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.Tags != "política, economia, brasil" {
		t.Errorf("Tags = %q", article.Tags)
	}
	if article.LongTailKeyword != "novo pacote econômico do governo" {
		t.Errorf("LongTailKeyword = %q", article.LongTailKeyword)
	}
}

func TestRewriteFromSourceBuildsPrompt(t *testing.T) {
	provider := &stubProvider{fallback: "texto reescrito"}
	w := NewWriter(provider, "")

	got, err := w.RewriteFromSource(context.Background(), "Título Original", strings.Repeat("conteúdo ", 400), "", "focar na economia")
	if err != nil {
		t.Fatalf("RewriteFromSource failed: %v", err)
	}
	if got != "texto reescrito" {
		t.Errorf("got %q", got)
	}
}

func TestRewritePromptStaysValidUTF8(t *testing.T) {
	provider := &stubProvider{fallback: "texto reescrito"}
	w := NewWriter(provider, "")

	// 1001 two-byte runes put the 2000-byte cap in the middle of a rune.
	content := strings.Repeat("ã", 1001)
	if _, err := w.RewriteFromSource(context.Background(), "Título", content, "", ""); err != nil {
		t.Fatalf("RewriteFromSource failed: %v", err)
	}

	if len(provider.prompts) == 0 {
		t.Fatal("no prompt recorded")
	}
	prompt := provider.prompts[0]
	if !utf8.ValidString(prompt) {
		t.Errorf("prompt contains invalid UTF-8")
	}
	if strings.ContainsRune(prompt, utf8.RuneError) {
		t.Errorf("prompt contains replacement character")
	}
}
