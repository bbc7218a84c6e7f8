// Package media downloads a remote video, extracts its audio track and hands
// it to the transcription service. Every stage is individually time-boxed and
// temporary files never outlive the call that created them.
package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redacaolab/redator/internal/apperr"
	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/timeoutx"
	"github.com/redacaolab/redator/internal/transcription"
	"github.com/redacaolab/redator/internal/types"
)

const (
	toolchainTimeout = 15 * time.Second
	downloadTimeout  = 60 * time.Second
	probeTimeout     = 15 * time.Second
	extractTimeout   = 30 * time.Second

	downloadUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Transcriber produces a transcript outcome for an audio file. It never
// fails; quality tiers are carried in the outcome.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, info types.AudioInfo) transcription.Outcome
}

// TranscriptStore persists successful transcripts outside the scratch dir.
type TranscriptStore interface {
	SaveTranscript(sourceID, text string) (string, error)
}

// Result is the output of one pipeline run. Transcription.Text is empty when
// the video carries no audio track.
type Result struct {
	VideoInfo      types.VideoInfo
	AudioInfo      types.AudioInfo
	Transcription  transcription.Outcome
	TranscriptFile string
}

// Pipeline runs download, probe, transcode and transcription for one source
// URL. Concurrent runs get distinct time-stamped temp names; no lock
// serializes them.
type Pipeline struct {
	tempDir     string
	transcriber Transcriber
	store       TranscriptStore
	bus         *progress.Broadcaster
}

func NewPipeline(tempDir string, transcriber Transcriber, store TranscriptStore, bus *progress.Broadcaster) *Pipeline {
	return &Pipeline{tempDir: tempDir, transcriber: transcriber, store: store, bus: bus}
}

// Process executes the full pipeline. On any stage failure partial outputs
// are removed before the error propagates; on success the downloaded video
// and intermediate audio are deleted after transcription regardless of its
// outcome.
func (p *Pipeline) Process(ctx context.Context, sourceURL string) (*Result, error) {
	if err := p.checkToolchain(ctx); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("video_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	defer p.removeByPrefix(base)

	p.publish("video_download_start", "Baixando vídeo (versão rápida)...")
	videoPath, err := p.download(ctx, sourceURL, base)
	if err != nil {
		return nil, err
	}

	p.publish("video_processing", "Processamento rápido...")
	videoInfo, err := timeoutx.Run(ctx, probeTimeout,
		apperr.Timeout("a análise do vídeo"), nil,
		func(ctx context.Context) (types.VideoInfo, error) {
			return probeVideo(ctx, videoPath)
		})
	if err != nil {
		return nil, wrapStage(apperr.KindProbe, "falha ao analisar o vídeo baixado", err)
	}

	p.publish("audio_extraction_start", "Extração rápida de áudio...")
	audioPath := filepath.Join(p.tempDir, base+".wav")
	if err := p.extractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, err
	}

	p.publish("audio_analysis_start", "Analisando áudio do vídeo...")
	audioInfo, err := timeoutx.Run(ctx, probeTimeout,
		apperr.Timeout("a análise do áudio"), nil,
		func(ctx context.Context) (types.AudioInfo, error) {
			return probeAudio(ctx, audioPath)
		})
	if err != nil {
		return nil, wrapStage(apperr.KindProbe, "falha ao analisar o áudio extraído", err)
	}

	result := &Result{VideoInfo: videoInfo, AudioInfo: audioInfo}

	if audioInfo.HasAudio {
		p.publish("transcription_start", "Iniciando transcrição do áudio...")
		result.Transcription = p.transcriber.Transcribe(ctx, audioPath, audioInfo)
		p.publish("transcription_complete", "Transcrição de áudio concluída!")

		if p.store != nil && result.Transcription.Tier != transcription.TierUnavailable {
			if path, err := p.store.SaveTranscript(sourceID(sourceURL), result.Transcription.Text); err != nil {
				log.Printf("media: falha ao salvar transcrição: %v", err)
			} else {
				result.TranscriptFile = path
			}
		}
	}

	p.publish("video_processing_complete", "Processamento concluído!")
	return result, nil
}

// checkToolchain verifies ffprobe and yt-dlp respond before any download starts.
func (p *Pipeline) checkToolchain(ctx context.Context) error {
	return timeoutx.Do(ctx, toolchainTimeout,
		apperr.Timeout("a verificação das ferramentas de mídia"), nil,
		func(ctx context.Context) error {
			if err := exec.CommandContext(ctx, "ffprobe", "-version").Run(); err != nil {
				return apperr.Wrap(apperr.KindDownload, "ffprobe não está disponível", err)
			}
			if err := exec.CommandContext(ctx, "yt-dlp", "--version").Run(); err != nil {
				return apperr.Wrap(apperr.KindDownload, "yt-dlp não está disponível", err)
			}
			return nil
		})
}

// download fetches the lowest-quality variant, trading fidelity for speed.
func (p *Pipeline) download(ctx context.Context, sourceURL, base string) (string, error) {
	outputTemplate := filepath.Join(p.tempDir, base+".%(ext)s")

	err := timeoutx.Do(ctx, downloadTimeout,
		apperr.Timeout("o download do vídeo"),
		func() { p.removeByPrefix(base) },
		func(ctx context.Context) error {
			cmd := exec.CommandContext(ctx, "yt-dlp",
				"--format", "worst[ext=mp4]/worst",
				"--output", outputTemplate,
				"--no-playlist",
				"--no-check-certificate",
				"--socket-timeout", "30",
				"--retries", "2",
				"--user-agent", downloadUA,
				sourceURL,
			)
			if output, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("%v: %s", err, output)
			}
			return nil
		})
	if err != nil {
		if apperr.Is(err, apperr.KindTimeout) {
			return "", err
		}
		return "", wrapStage(apperr.KindDownload, "falha no download do vídeo", err)
	}

	videoPath, found := p.findDownload(base)
	if !found {
		return "", apperr.Wrap(apperr.KindDownload, "arquivo não encontrado após download", nil)
	}
	return videoPath, nil
}

// findDownload locates the file yt-dlp produced; the extension is only known
// after the fact.
func (p *Pipeline) findDownload(base string) (string, bool) {
	entries, err := os.ReadDir(p.tempDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		switch filepath.Ext(name) {
		case ".mp4", ".webm", ".mkv":
			return filepath.Join(p.tempDir, name), true
		}
	}
	return "", false
}

// extractAudio transcodes to mono 16kHz PCM, discarding video.
func (p *Pipeline) extractAudio(ctx context.Context, videoPath, audioPath string) error {
	err := timeoutx.Do(ctx, extractTimeout,
		apperr.Timeout("a extração de áudio"),
		func() { removeFile(audioPath) },
		func(ctx context.Context) error {
			cmd := exec.CommandContext(ctx, "ffmpeg",
				"-i", videoPath,
				"-vn",
				"-c:a", "pcm_s16le",
				"-ar", "16000",
				"-ac", "1",
				"-y",
				audioPath,
			)
			if output, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("%v: %s", err, output)
			}
			return nil
		})
	if err != nil && !apperr.Is(err, apperr.KindTimeout) {
		return wrapStage(apperr.KindExtractAudio, "falha ao extrair áudio do vídeo", err)
	}
	return err
}

// removeByPrefix deletes every scratch file created for one request.
// Failures are logged, never escalated.
func (p *Pipeline) removeByPrefix(base string) {
	entries, err := os.ReadDir(p.tempDir)
	if err != nil {
		log.Printf("media: falha ao listar diretório temporário: %v", err)
		return
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), base) {
			removeFile(filepath.Join(p.tempDir, entry.Name()))
		}
	}
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("media: falha ao remover %s: %v", path, err)
	}
}

func wrapStage(kind apperr.Kind, message string, err error) error {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Wrap(kind, message, err)
}

// sourceID derives the transcript file identifier from the post URL.
func sourceID(url string) string {
	for _, marker := range []string{"/p/", "/reel/", "/tv/"} {
		if idx := strings.Index(url, marker); idx >= 0 {
			rest := url[idx+len(marker):]
			if slash := strings.IndexByte(rest, '/'); slash >= 0 {
				rest = rest[:slash]
			}
			if rest != "" {
				return rest
			}
		}
	}
	return "unknown"
}

func (p *Pipeline) publish(event, message string) {
	if p.bus != nil {
		p.bus.Publish(event, message)
	}
}

// EnsureTempDir creates the scratch directory if absent.
func EnsureTempDir(tempDir string) error {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return err
	}
	log.Printf("Diretório temporário pronto: %s", tempDir)
	return nil
}
