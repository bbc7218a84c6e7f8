package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redacaolab/redator/internal/apperr"
	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/types"
)

const (
	defaultAssemblyBaseURL = "https://api.assemblyai.com/v2"
	defaultPollInterval    = 10 * time.Second
	maxPollAttempts        = 30 // 5-minute ceiling at the default interval
)

// AssemblyClient wraps the hosted async speech-to-text API:
// upload audio bytes, create a transcript job, poll it by id.
type AssemblyClient struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	httpClient   *http.Client
	bus          *progress.Broadcaster
}

func NewAssemblyClient(apiKey string, bus *progress.Broadcaster) *AssemblyClient {
	return &AssemblyClient{
		apiKey:       apiKey,
		baseURL:      defaultAssemblyBaseURL,
		pollInterval: defaultPollInterval,
		httpClient:   &http.Client{Timeout: 2 * time.Minute},
		bus:          bus,
	}
}

// Transcribe runs the full upload/create/poll cycle and returns the cleaned
// transcript. An empty string (no error) means the job completed without
// detectable speech.
func (c *AssemblyClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if c.apiKey == "" {
		return "", apperr.Wrap(apperr.KindUpload, "chave da API de transcrição não configurada", nil)
	}

	job := types.TranscriptionJob{AudioFile: audioPath, Status: types.StatusPending}

	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "falha ao ler arquivo de áudio", err)
	}

	c.publish("transcription_progress", "Enviando áudio para transcrição...")
	uploadURL, err := c.upload(ctx, audioData)
	if err != nil {
		return "", err
	}

	c.publish("transcription_progress", "Processando transcrição...")
	job.ProviderJobID, err = c.createJob(ctx, uploadURL)
	if err != nil {
		return "", err
	}
	job.Status = types.StatusProcessing

	for attempt := 1; attempt <= maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", apperr.Timeout("a transcrição")
		case <-time.After(c.pollInterval):
		}

		c.publish("transcription_progress", fmt.Sprintf("Aguardando transcrição... (%d/%d)", attempt, maxPollAttempts))

		status, text, jobErr, err := c.pollJob(ctx, job.ProviderJobID)
		if err != nil {
			return "", err
		}
		log.Printf("transcription: status %s (tentativa %d)", status, attempt)

		switch status {
		case "completed":
			job.Status = types.StatusCompleted
			job.ResultText = Clean(text)
			return job.ResultText, nil
		case "error":
			job.Status = types.StatusFailed
			return "", apperr.Wrap(apperr.KindTranscription, "erro na transcrição hospedada", fmt.Errorf("%s", jobErr))
		}
	}

	job.Status = types.StatusTimeout
	return "", apperr.Timeout("a transcrição")
}

func (c *AssemblyClient) upload(ctx context.Context, audioData []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(audioData))
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "falha ao montar upload", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	var payload struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", apperr.Wrap(apperr.KindUpload, "falha no upload do áudio", err)
	}
	if payload.UploadURL == "" {
		return "", apperr.Wrap(apperr.KindUpload, "falha no upload do áudio", nil)
	}
	return payload.UploadURL, nil
}

func (c *AssemblyClient) createJob(ctx context.Context, audioURL string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"audio_url":     audioURL,
		"language_code": "pt",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(apperr.KindTranscription, "falha ao criar transcrição", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	var payload struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", apperr.Wrap(apperr.KindTranscription, "falha ao iniciar transcrição", err)
	}
	if payload.ID == "" {
		return "", apperr.Wrap(apperr.KindTranscription, "falha ao iniciar transcrição", nil)
	}
	return payload.ID, nil
}

func (c *AssemblyClient) pollJob(ctx context.Context, id string) (status, text, jobErr string, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+id, nil)
	if reqErr != nil {
		return "", "", "", apperr.Wrap(apperr.KindTranscription, "falha ao consultar transcrição", reqErr)
	}
	req.Header.Set("authorization", c.apiKey)

	var payload struct {
		Status string `json:"status"`
		Text   string `json:"text"`
		Error  string `json:"error"`
	}
	if doErr := c.do(req, &payload); doErr != nil {
		return "", "", "", apperr.Wrap(apperr.KindTranscription, "falha ao consultar transcrição", doErr)
	}
	return payload.Status, payload.Text, payload.Error, nil
}

func (c *AssemblyClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *AssemblyClient) publish(event, message string) {
	if c.bus != nil {
		c.bus.Publish(event, message)
	}
}
