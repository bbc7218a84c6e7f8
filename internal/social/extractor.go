// Package social drives a headless browser against Instagram's client-rendered
// pages and recovers author, post text and comments from a DOM snapshot.
package social

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/redacaolab/redator/internal/apperr"
	"github.com/redacaolab/redator/internal/media"
	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/textutil"
	"github.com/redacaolab/redator/internal/timeoutx"
	"github.com/redacaolab/redator/internal/types"
)

const (
	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	navigationTimeout = 60 * time.Second
	settleDelay       = 5 * time.Second
	retrySettleDelay  = 3 * time.Second
	videoTimeout      = 15 * time.Minute
)

// MediaProcessor runs the download/probe/transcode/transcribe pipeline for a
// post URL. Failures are contained by the extractor, never propagated.
type MediaProcessor interface {
	Process(ctx context.Context, sourceURL string) (*media.Result, error)
}

// Extractor extracts Instagram posts. The media processor may be nil when
// video processing is disabled.
type Extractor struct {
	media MediaProcessor
	bus   *progress.Broadcaster
}

func NewExtractor(processor MediaProcessor, bus *progress.Broadcaster) *Extractor {
	return &Extractor{media: processor, bus: bus}
}

// IsSocialURL reports whether the router must pick this extractor.
func IsSocialURL(url string) bool {
	return strings.Contains(url, "instagram.com/p/") ||
		strings.Contains(url, "instagram.com/reel/") ||
		strings.Contains(url, "instagram.com/tv/")
}

// Extract navigates to the post, waits for the SPA to settle and runs the
// selector cascades over the rendered snapshot. Fails with
// InsufficientContent only when post text, comments and (when requested)
// video info are all absent.
func (e *Extractor) Extract(ctx context.Context, url string, includeVideo bool) (*types.ExtractionResult, error) {
	e.publish("instagram_detected", "URL do Instagram detectada, processando conteúdo...")

	html, err := e.snapshot(ctx, url, settleDelay)
	if err != nil {
		return nil, apperr.Upstream("falha ao carregar a página do Instagram", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperr.Upstream("falha ao interpretar a página do Instagram", err)
	}

	var signals VideoSignals
	if includeVideo {
		signals = DetectVideo(doc, url)
	}

	author := ExtractAuthor(doc)
	postText := ExtractPostText(doc)
	comments := ExtractComments(doc, author)

	// Second, coarser session when the cascades found nothing.
	if postText == "" && len(comments) == 0 {
		log.Printf("social: extração vazia para %s, tentando estratégia alternativa", url)
		if bodyText, err := e.bodyText(ctx, url, retrySettleDelay); err == nil {
			postText = FallbackPostText(bodyText)
		} else {
			log.Printf("social: estratégia alternativa falhou: %v", err)
		}
	}

	var videoResult *media.Result
	var videoNote string
	if includeVideo && signals.IsVideoContent() {
		e.publish("video_processing_start", "Processando vídeo do Instagram...")
		videoResult, err = timeoutx.Run(ctx, videoTimeout,
			apperr.Timeout("o processamento de vídeo"), nil,
			func(ctx context.Context) (*media.Result, error) {
				return e.media.Process(ctx, url)
			})
		if err != nil {
			// Contained: the extraction still succeeds with an explanatory note.
			if apperr.Is(err, apperr.KindTimeout) {
				videoNote = "🎬 Vídeo detectado, mas o processamento demorou muito (timeout). Isso pode acontecer com vídeos longos ou conexão lenta.\n\n"
				e.publish("video_timeout", "Timeout no processamento de vídeo")
			} else {
				videoNote = fmt.Sprintf("🎬 Vídeo detectado, mas não foi possível processar: %v\n\n", err)
				e.publish("video_error", fmt.Sprintf("Erro no vídeo: %v", err))
			}
			videoResult = nil
		}
	}

	if postText == "" && len(comments) == 0 && videoResult == nil {
		return nil, apperr.InsufficientContent()
	}

	result := &types.ExtractionResult{
		Title:    postTitle(author, signals),
		Platform: "Instagram",
		Author:   author,
		Comments: comments,
		URL:      url,
	}
	if videoResult != nil {
		result.VideoInfo = &videoResult.VideoInfo
		result.AudioInfo = &videoResult.AudioInfo
		if videoResult.AudioInfo.HasAudio {
			result.Transcription = videoResult.Transcription.Text
		}
	}
	result.Content = formatContent(author, postText, comments, signals, includeVideo, videoResult, videoNote)
	result.WordCount = len(strings.Fields(postText + " " + strings.Join(comments, " ")))
	if result.WordCount == 0 {
		result.WordCount = len(strings.Fields(result.Content))
	}

	return result, nil
}

func postTitle(author string, signals VideoSignals) string {
	kind := "Imagem"
	if signals.IsVideoContent() {
		kind = "Vídeo"
	}
	return fmt.Sprintf("Post do Instagram - %s (%s)", author, kind)
}

// snapshot opens a fresh browser context, navigates with a spoofed user agent
// and viewport, waits for the settle delay and captures the rendered DOM.
func (e *Extractor) snapshot(ctx context.Context, url string, settle time.Duration) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.UserAgent(browserUA),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-web-security", true),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, navigationTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "pt-BR,pt;q=0.9"}),
		chromedp.EmulateViewport(1280, 720),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// bodyText captures the page's visible text for the fallback heuristic.
func (e *Extractor) bodyText(ctx context.Context, url string, settle time.Duration) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.UserAgent(browserUA),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 30*time.Second)
	defer cancelTimeout()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.Evaluate(`document.body.innerText`, &text),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (e *Extractor) publish(event, message string) {
	if e.bus != nil {
		e.bus.Publish(event, message)
	}
}

// formatContent renders the user-facing block the same way for every post:
// author, post text, comments, then video details and transcription.
func formatContent(author, postText string, comments []string, signals VideoSignals, includeVideo bool, videoResult *media.Result, videoNote string) string {
	var b strings.Builder

	if author != "" {
		fmt.Fprintf(&b, "👤 Autor: %s\n\n", author)
	}

	if postText != "" {
		fmt.Fprintf(&b, "📝 Postagem:\n%s\n\n", postText)
	} else {
		b.WriteString("📝 Postagem:\n[Texto da postagem não foi possível extrair - pode ser apenas imagem/vídeo]\n\n")
	}

	if len(comments) > 0 {
		fmt.Fprintf(&b, "💬 Comentários (%d):\n", len(comments))
		for i, comment := range comments {
			if len(comment) > 200 {
				comment = textutil.Clip(comment, 200) + "..."
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, comment)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("💬 Comentários: Nenhum comentário foi encontrado. A postagem pode ter comentários desabilitados ou não ter comentários ainda.\n\n")
	}

	switch {
	case videoResult != nil:
		b.WriteString("🎬 Informações do vídeo:\n")
		fmt.Fprintf(&b, "• Duração: %.0f segundos\n", videoResult.VideoInfo.DurationSeconds)
		fmt.Fprintf(&b, "• Resolução: %dx%d\n", videoResult.VideoInfo.Width, videoResult.VideoInfo.Height)
		fmt.Fprintf(&b, "• Tamanho: %.2f MB\n", float64(videoResult.VideoInfo.SizeBytes)/1024/1024)
		if videoResult.AudioInfo.HasAudio {
			fmt.Fprintf(&b, "• Áudio: %s, %d canais, %d Hz\n",
				videoResult.AudioInfo.Codec, videoResult.AudioInfo.Channels, videoResult.AudioInfo.SampleRateHz)
			fmt.Fprintf(&b, "\n🎙️ TRANSCRIÇÃO DO ÁUDIO:\n%q\n", videoResult.Transcription.Text)
		} else {
			b.WriteString("• Áudio: Não detectado ou sem áudio\n")
		}
		b.WriteString("\n")
	case videoNote != "":
		b.WriteString(videoNote)
	case !includeVideo && signals.IsVideoContent():
		b.WriteString("🎬 Vídeo detectado (transcrição desabilitada - apenas texto e comentários extraídos)\n\n")
	}

	b.WriteString("ℹ️ Nota: Extração limitada a conteúdo público.")
	return b.String()
}
