package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/redacaolab/redator/internal/apperr"
)

const (
	fallbackModel   = "tiny"
	fallbackTimeout = 45 * time.Second
	fallbackMaxSecs = "30"
)

// WhisperFallback is the degraded local path: the audio is re-encoded at
// 8kHz/32kbps mono, truncated to the first 30 seconds and fed to a small
// local Whisper model with a hard timeout.
type WhisperFallback struct {
	tempDir string
}

func NewWhisperFallback(tempDir string) *WhisperFallback {
	return &WhisperFallback{tempDir: tempDir}
}

// Transcribe runs the degraded path. An empty string means the model heard
// no usable speech.
func (w *WhisperFallback) Transcribe(ctx context.Context, audioPath string) (string, error) {
	degradedPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_simple.wav"
	defer removeQuietly(degradedPath)

	encodeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(encodeCtx, "ffmpeg",
		"-i", audioPath,
		"-ar", "8000",
		"-ac", "1",
		"-b:a", "32k",
		"-t", fallbackMaxSecs,
		"-c:a", "pcm_s16le",
		"-y",
		degradedPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", apperr.Wrap(apperr.KindTranscription,
			"falha ao preparar áudio degradado", fmt.Errorf("%v: %s", err, output))
	}

	outputDir := filepath.Join(w.tempDir, "whisper_output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", apperr.Wrap(apperr.KindTranscription, "falha ao criar diretório de saída", err)
	}
	defer os.RemoveAll(outputDir)

	runCtx, cancelRun := context.WithTimeout(ctx, fallbackTimeout)
	defer cancelRun()
	whisperCmd := exec.CommandContext(runCtx, "python", "-m", "whisper",
		degradedPath,
		"--model", fallbackModel,
		"--language", "pt",
		"--output_dir", outputDir,
		"--output_format", "json",
		"--fp16", "False",
	)
	if output, err := whisperCmd.CombinedOutput(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", apperr.Timeout("a transcrição local")
		}
		return "", apperr.Wrap(apperr.KindTranscription,
			"falha na transcrição local", fmt.Errorf("%v: %s", err, output))
	}

	baseName := strings.TrimSuffix(filepath.Base(degradedPath), filepath.Ext(degradedPath))
	jsonData, err := os.ReadFile(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", apperr.Wrap(apperr.KindTranscription, "saída da transcrição local não encontrada", err)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return "", apperr.Wrap(apperr.KindTranscription, "saída da transcrição local inválida", err)
	}

	return Clean(payload.Text), nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("transcription: falha ao remover %s: %v", path, err)
	}
}
