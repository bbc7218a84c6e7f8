package social

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestIsValidComment(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		author string
		want   bool
	}{
		{"normal comment", "Que foto linda, parabéns!", "maria", true},
		{"too short", "ok", "", false},
		{"length boundary", strings.Repeat("a", 499), "", true},
		{"too long", strings.Repeat("a", 500), "", false},
		{"no letters", "1234 5678", "", false},
		{"ui chrome curtir", "Curtir esta publicação", "", false},
		{"ui chrome responder", "responder ao comentário", "", false},
		{"ui chrome ver mais", "clique em ver mais", "", false},
		{"author name", "maria estava no evento", "maria", false},
		{"accented letters only", "Éssa é ótima", "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsValidComment(c.text, c.author); got != c.want {
				t.Errorf("IsValidComment(%q, %q) = %v, want %v", c.text, c.author, got, c.want)
			}
		})
	}
}

func TestIsValidCommentLengthBounds(t *testing.T) {
	if IsValidComment("abcd", "") != true {
		t.Error("4-char comment with letters should be valid")
	}
	if IsValidComment("abc", "") != false {
		t.Error("3-char comment should be invalid")
	}
	if IsValidComment(strings.Repeat("b", 499), "") != true {
		t.Error("499-char comment should be valid")
	}
}

func TestExtractAuthor(t *testing.T) {
	doc := docFromHTML(t, `
		<article>
			<header><a>joao.silva</a></header>
			<div><span>algum texto</span></div>
		</article>`)
	if got := ExtractAuthor(doc); got != "joao.silva" {
		t.Errorf("ExtractAuthor = %q, want joao.silva", got)
	}
}

func TestExtractAuthorEmpty(t *testing.T) {
	doc := docFromHTML(t, `<div><p>sem cabeçalho aqui</p></div>`)
	if got := ExtractAuthor(doc); got != "" {
		t.Errorf("ExtractAuthor = %q, want empty", got)
	}
}

func TestExtractPostTextPrefersLongestMatch(t *testing.T) {
	doc := docFromHTML(t, `
		<article>
			<div><span dir="auto">curto</span></div>
			<div><span dir="auto">este é o texto completo da postagem com muito mais conteúdo</span></div>
		</article>`)
	got := ExtractPostText(doc)
	if !strings.Contains(got, "texto completo da postagem") {
		t.Errorf("expected longest candidate, got %q", got)
	}
}

func TestExtractPostTextFallsBackToOGDescription(t *testing.T) {
	doc := docFromHTML(t, `
		<head><meta property="og:description" content="descrição da postagem vinda do og tag"></head>
		<body><span dir="auto">curto</span></body>`)
	got := ExtractPostText(doc)
	if got != "descrição da postagem vinda do og tag" {
		t.Errorf("expected og:description fallback, got %q", got)
	}
}

func TestExtractPostTextFallsBackToJSONLD(t *testing.T) {
	doc := docFromHTML(t, `
		<head><script type="application/ld+json">{"description":"descrição estruturada do post"}</script></head>
		<body><p>nada</p></body>`)
	got := ExtractPostText(doc)
	if got != "descrição estruturada do post" {
		t.Errorf("expected JSON-LD fallback, got %q", got)
	}
}

func TestExtractCommentsDedupAndOrder(t *testing.T) {
	doc := docFromHTML(t, `
		<article>
			<div role="button"><span>primeiro comentário válido</span></div>
			<div role="button"><span>primeiro comentário válido</span></div>
			<div role="button"><span>segundo comentário válido</span></div>
		</article>`)
	comments := ExtractComments(doc, "")
	if len(comments) < 2 {
		t.Fatalf("expected at least 2 comments, got %v", comments)
	}
	if comments[0] != "primeiro comentário válido" || comments[1] != "segundo comentário válido" {
		t.Errorf("order or dedup wrong: %v", comments)
	}
	seen := make(map[string]bool)
	for _, c := range comments {
		if seen[strings.ToLower(c)] {
			t.Errorf("duplicate comment survived: %q", c)
		}
		seen[strings.ToLower(c)] = true
	}
}

func TestExtractCommentsCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<article>")
	for i := 0; i < 30; i++ {
		b.WriteString(`<div role="button"><span>comentário único número `)
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString("</span></div>")
	}
	b.WriteString("</article>")

	comments := ExtractComments(docFromHTML(t, b.String()), "")
	if len(comments) > 15 {
		t.Errorf("comment list not capped: got %d", len(comments))
	}
}

func TestDetectVideo(t *testing.T) {
	doc := docFromHTML(t, `<article><video src="x.mp4"></video></article>`)

	signals := DetectVideo(doc, "https://www.instagram.com/p/ABC123/")
	if !signals.HasVideoElement || !signals.IsVideoContent() {
		t.Errorf("video element not detected: %+v", signals)
	}

	noVideo := docFromHTML(t, `<article><img src="x.jpg"></article>`)
	signals = DetectVideo(noVideo, "https://www.instagram.com/reel/XYZ/")
	if !signals.IsReel || !signals.IsVideoContent() {
		t.Errorf("reel URL not detected: %+v", signals)
	}

	signals = DetectVideo(noVideo, "https://www.instagram.com/p/ABC123/")
	if signals.IsVideoContent() {
		t.Errorf("image post misdetected as video: %+v", signals)
	}
}

func TestFallbackPostText(t *testing.T) {
	body := "Instagram\nSeguir\nCurtir esta foto\neste é um texto de postagem longo o bastante\noutra linha"
	got := FallbackPostText(body)
	if got != "este é um texto de postagem longo o bastante" {
		t.Errorf("FallbackPostText = %q", got)
	}

	if got := FallbackPostText("Instagram\ncurto\n"); got != "" {
		t.Errorf("expected empty fallback, got %q", got)
	}
}

func TestIsSocialURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.instagram.com/p/ABC/", true},
		{"https://instagram.com/reel/XYZ/", true},
		{"https://www.instagram.com/tv/QQQ/", true},
		{"https://www.instagram.com/someuser/", false},
		{"https://g1.globo.com/noticia", false},
	}
	for _, c := range cases {
		if got := IsSocialURL(c.url); got != c.want {
			t.Errorf("IsSocialURL(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}
