package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redacaolab/redator/internal/textutil"
)

// TranscriptStorage saves transcription text files to the local filesystem.
type TranscriptStorage struct {
	outputDir string
}

func NewTranscriptStorage(outputDir string) *TranscriptStorage {
	return &TranscriptStorage{outputDir: outputDir}
}

// SaveTranscript writes the transcript to transcricao_<sourceId>_<timestamp>.txt
// and returns the file path.
func (ts *TranscriptStorage) SaveTranscript(sourceID, text string) (string, error) {
	if err := os.MkdirAll(ts.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	filename := fmt.Sprintf("transcricao_%s_%d.txt", sanitizeFilename(sourceID), time.Now().UnixMilli())
	path := filepath.Join(ts.outputDir, filename)

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to save transcript: %v", err)
	}
	return path, nil
}

// sanitizeFilename strips path separators and characters SQLite or the
// filesystem would reject.
func sanitizeFilename(name string) string {
	result := filepath.Base(name)
	for _, c := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "} {
		result = strings.ReplaceAll(result, c, "_")
	}
	return textutil.Clip(result, 100)
}
