package ai

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/redacaolab/redator/internal/textutil"
	"github.com/redacaolab/redator/internal/types"
)

// Word-count targets keyed by the requested article length.
var lengthInstructions = map[string]string{
	"curto": "300-500 palavras",
	"médio": "600-800 palavras",
	"longo": "1000-1500 palavras",
}

var boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)

// GeneratedArticle is a fully assembled piece ready for publication.
type GeneratedArticle struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Content         string `json:"content"`
	Tags            string `json:"tags"`
	LongTailKeyword string `json:"longTailKeyword"`
}

// Writer turns verified news context into original Portuguese articles.
// Editing-style prompts are routed to a separate model tuned for revision.
type Writer struct {
	provider     CompletionProvider
	editingModel string
}

func NewWriter(provider CompletionProvider, editingModel string) *Writer {
	return &Writer{provider: provider, editingModel: editingModel}
}

// modelFor routes revision prompts to the editing model. Everything else
// uses the provider default.
func (w *Writer) modelFor(prompt, override string) string {
	if w.editingModel != "" &&
		(override == "editing" ||
			strings.Contains(prompt, "assistente de edição de texto especializado em matérias jornalísticas") ||
			strings.Contains(prompt, "Editando Matéria") ||
			strings.Contains(prompt, "PARTE A SER EDITADA")) {
		return w.editingModel
	}
	if override != "" && override != "editing" {
		return override
	}
	return ""
}

// Complete sends a raw prompt through the model router.
func (w *Writer) Complete(ctx context.Context, prompt string) (string, error) {
	return w.provider.Complete(ctx, prompt, w.modelFor(prompt, ""))
}

// GenerateArticle creates an original article about keyword grounded on the
// collected sources. Tags and the long-tail keyword are generated in a
// second round from the finished text.
func (w *Writer) GenerateArticle(ctx context.Context, keyword, tone, length string, sources []types.NewsArticle) (*GeneratedArticle, error) {
	extent, ok := lengthInstructions[length]
	if !ok {
		extent = lengthInstructions["médio"]
	}
	if tone == "" {
		tone = "jornalístico"
	}

	prompt := buildArticlePrompt(keyword, tone, extent, newsContext(sources))
	raw, err := w.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	article := parseGenerated(raw)
	w.fillTagsAndKeyword(ctx, article)
	return article, nil
}

// RewriteFromSource rewrites extracted article text in the requested tone.
// The optional observation steers the focus of the rewrite.
func (w *Writer) RewriteFromSource(ctx context.Context, title, content, tone, observation string) (string, error) {
	if tone == "" {
		tone = "profissional"
	}
	content = textutil.Clip(content, 2000)

	var b strings.Builder
	fmt.Fprintf(&b, "Reescreva o seguinte texto de forma original, mantendo as informações principais mas com linguagem e estrutura completamente diferentes. Use um tom %s e formato jornalístico brasileiro:\n\n", tone)
	fmt.Fprintf(&b, "TÍTULO ORIGINAL: %s\n\nCONTEÚDO ORIGINAL:\n%s\n\n", title, content)
	if observation != "" {
		fmt.Fprintf(&b, "OBSERVAÇÃO DO USUÁRIO (foco da reescrita): %s\n\n", observation)
	}
	b.WriteString("INSTRUÇÕES:\n")
	b.WriteString("- Reescreva completamente sem copiar frases\n")
	b.WriteString("- Mantenha os fatos e informações principais\n")
	b.WriteString("- Use linguagem jornalística brasileira\n")
	b.WriteString("- Não use hashtags ou símbolos # para títulos e subtítulos\n")
	if observation != "" {
		b.WriteString("- IMPORTANTE: Dê atenção especial à OBSERVAÇÃO DO USUÁRIO, priorizando esse foco na reescrita\n")
	}
	b.WriteString("- Organize o conteúdo da seguinte forma:\n\n")
	b.WriteString("TÍTULO: Um título atrativo e conciso\n")
	b.WriteString("SUBTÍTULO: Um subtítulo que complementa o título e resume o conteúdo\n")
	b.WriteString("TAGS: 5-7 tags relevantes separadas por vírgula\n")
	b.WriteString("PALAVRA-CHAVE DE CAUDA LONGA: Uma frase de busca específica relacionada ao tema\n")
	b.WriteString("CONTEÚDO: O texto principal bem estruturado em parágrafos\n")

	return w.Complete(ctx, b.String())
}

func newsContext(sources []types.NewsArticle) string {
	if len(sources) == 0 {
		return ""
	}
	var lines []string
	for _, s := range sources {
		lines = append(lines, fmt.Sprintf("- %s: %s", s.Title, s.Description))
	}
	context := strings.Join(lines, "\n")

	var extracted []string
	for _, s := range sources {
		if s.Content == "" {
			continue
		}
		body := textutil.Clip(s.Content, 1000)
		extracted = append(extracted, fmt.Sprintf("\nCONTEÚDO DE %q:\n%s...\n", s.Title, body))
	}
	if len(extracted) > 0 {
		context += "\n\nCONTEÚDO EXTRAÍDO:\n" + strings.Join(extracted, "\n---\n")
	}
	return context
}

func buildArticlePrompt(keyword, tone, extent, context string) string {
	if context == "" {
		context = "Não foi possível encontrar notícias específicas sobre este tema."
	}
	return fmt.Sprintf(`Crie uma matéria jornalística original sobre %q baseada nas seguintes informações e notícias recentes:

INFORMAÇÕES COLETADAS:
%s

INSTRUÇÕES:
- Crie uma matéria completamente original (não copie das fontes)
- Use tom %s
- Extensão: %s
- Formato jornalístico brasileiro
- NÃO use hashtags ou símbolos # para títulos e subtítulos
- IMPORTANTE: Seja factual e preciso com as informações
- IMPORTANTE: NÃO INVENTE FATOS OU EVENTOS QUE NÃO ACONTECERAM
- IMPORTANTE: Se não houver informações suficientes, explique isso na matéria em vez de criar conteúdo fictício
- CRÍTICO: Baseie-se APENAS nas fontes fornecidas e não adicione informações que não estejam nelas
- CRÍTICO: Se as fontes não mencionarem detalhes sobre o evento principal, NÃO os invente
- CRÍTICO: Se as fontes fornecidas não forem sobre o tema específico, mencione isso claramente no início da matéria
- CRÍTICO: Se as fontes não contiverem informações suficientes sobre o tema, crie uma matéria mais genérica ou explicativa sobre o tema

FORMATO DE SAÍDA:
Forneça APENAS o seguinte formato:

### [TÍTULO DA MATÉRIA]

[SUBTÍTULO DA MATÉRIA]

[CONTEÚDO COMPLETO DA MATÉRIA]

Não inclua as palavras "TÍTULO:", "SUBTÍTULO:" ou "CONTEÚDO:" no texto final. Apenas forneça o título formatado com ### no início, seguido pelo subtítulo em uma linha separada, e então o conteúdo completo.

A matéria deve ser informativa e baseada apenas em fatos verificáveis. Se não houver informações suficientes, explique isso claramente e forneça um contexto mais amplo sobre o tema em vez de inventar detalhes específicos.

Se as fontes fornecidas não forem diretamente relacionadas ao tema principal (%s), comece a matéria com um aviso como: "NOTA: As fontes disponíveis não contêm informações específicas sobre [tema principal]. Esta matéria abordará o tema de forma mais ampla com base em informações gerais."`,
		keyword, context, tone, extent, keyword)
}

// parseGenerated splits the model output into title, subtitle and body.
// Output that does not follow the "###" convention becomes body only.
func parseGenerated(raw string) *GeneratedArticle {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	article := &GeneratedArticle{}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "###") {
		article.Title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[0]), "###"))
		if len(lines) > 1 {
			article.Subtitle = strings.TrimSpace(lines[1])
		}
		if len(lines) > 2 {
			body := strings.TrimSpace(strings.Join(lines[2:], "\n"))
			article.Content = boldRe.ReplaceAllString(body, "<h3>$1</h3>")
		}
	} else {
		article.Content = raw
	}
	return article
}

// fillTagsAndKeyword derives tags and a long-tail keyword from the finished
// article. Failures are logged and leave the fields empty.
func (w *Writer) fillTagsAndKeyword(ctx context.Context, article *GeneratedArticle) {
	snippet := textutil.Clip(article.Content, 500)
	tagsPrompt := fmt.Sprintf("Com base no título %q e no conteúdo a seguir, gere apenas 5-7 tags relevantes separadas por vírgula, sem explicações adicionais:\n\n%s\n\n%s",
		article.Title, article.Subtitle, snippet)
	keywordPrompt := fmt.Sprintf("Com base no título %q e no conteúdo a seguir, gere apenas uma frase de busca específica (palavra-chave de cauda longa) relacionada ao tema, sem explicações adicionais:\n\n%s\n\n%s",
		article.Title, article.Subtitle, snippet)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if tags, err := w.Complete(ctx, tagsPrompt); err == nil {
			article.Tags = strings.TrimSpace(tags)
		} else {
			log.Printf("ai: falha ao gerar tags: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if kw, err := w.Complete(ctx, keywordPrompt); err == nil {
			article.LongTailKeyword = strings.TrimSpace(kw)
		} else {
			log.Printf("ai: falha ao gerar palavra-chave: %v", err)
		}
	}()
	wg.Wait()
}
