package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/coverbridge/intake-backend/internal/clients/gcp"
	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/types"
)

var ErrSpeechUnavailable = errors.New("speech transcription unavailable")

// SpeechIngestService turns uploaded audio into company memory
// transcripts that the next prefill can mine.
type SpeechIngestService interface {
	IngestAudio(ctx context.Context, companyID uuid.UUID, audio []byte, mimeType string) (string, error)
}

type speechIngestService struct {
	log    *logger.Logger
	speech gcp.Speech
	memory MemoryService
}

func NewSpeechIngestService(log *logger.Logger, speech gcp.Speech, memory MemoryService) SpeechIngestService {
	return &speechIngestService{
		log:    log.With("service", "SpeechIngestService"),
		speech: speech,
		memory: memory,
	}
}

func (s *speechIngestService) IngestAudio(ctx context.Context, companyID uuid.UUID, audio []byte, mimeType string) (string, error) {
	if s.speech == nil {
		return "", ErrSpeechUnavailable
	}

	transcript, err := s.speech.TranscribeAudioBytes(ctx, audio, mimeType)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(transcript) == "" {
		s.log.Info("Audio produced no transcript", "company_id", companyID.String(), "audio_bytes", len(audio))
		return "", nil
	}

	if err := s.memory.AppendTranscript(ctx, companyID, transcript, types.TranscriptSourceSpeechIngest); err != nil {
		return "", err
	}
	s.log.Info("Ingested audio transcript", "company_id", companyID.String(), "transcript_chars", len(transcript))
	return transcript, nil
}
