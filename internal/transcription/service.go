// Package transcription wraps a hosted speech-to-text service with a local
// degraded fallback. The service never fails: when both paths yield nothing
// it returns a bracketed placeholder chosen from the audio duration.
package transcription

import (
	"context"
	"log"

	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/types"
)

// Primary is the hosted transcription path.
type Primary interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Fallback is the degraded local path.
type Fallback interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Service composes the two paths behind one always-succeeding call.
type Service struct {
	primary  Primary
	fallback Fallback
	bus      *progress.Broadcaster
}

func NewService(primary Primary, fallback Fallback, bus *progress.Broadcaster) *Service {
	return &Service{primary: primary, fallback: fallback, bus: bus}
}

// Transcribe tries the hosted service, then the degraded path, then gives up
// with a placeholder. Callers always receive some text.
func (s *Service) Transcribe(ctx context.Context, audioPath string, info types.AudioInfo) Outcome {
	if text, err := s.primary.Transcribe(ctx, audioPath); err == nil && text != "" {
		return Outcome{Tier: TierPrimary, Text: text}
	} else if err != nil {
		log.Printf("transcription: caminho primário falhou: %v", err)
	}

	s.publish("audio_transcription", "Tentando transcrição alternativa...")
	if text, err := s.fallback.Transcribe(ctx, audioPath); err == nil && text != "" {
		return Outcome{Tier: TierDegraded, Text: text}
	} else if err != nil {
		log.Printf("transcription: caminho degradado falhou: %v", err)
	}

	return Outcome{Tier: TierUnavailable, Text: placeholderFor(info.DurationSeconds)}
}

func placeholderFor(durationSeconds float64) string {
	switch {
	case durationSeconds > 0 && durationSeconds < 30:
		return "[Áudio muito curto ou sem fala clara detectada]"
	case durationSeconds > 300:
		return "[Áudio muito longo ou sem fala clara detectada]"
	default:
		return "[Não foi possível detectar fala clara no áudio]"
	}
}

func (s *Service) publish(event, message string) {
	if s.bus != nil {
		s.bus.Publish(event, message)
	}
}
