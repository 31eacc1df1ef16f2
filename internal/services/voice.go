package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/schema"
)

var (
	ErrVoiceUnavailable  = errors.New("voice command parsing unavailable")
	ErrNotUpdateCommand  = errors.New("utterance is not a field update command")
	ErrUnrecognizedField = errors.New("utterance does not name a known field")
)

// VoiceCommand is the parsed form of one utterance. Value stays a
// string; typing happens downstream in the same gate every other edit
// goes through.
type VoiceCommand struct {
	Intent   string `json:"intent"`
	FieldKey string `json:"field_key"`
	Value    string `json:"value"`
}

type VoiceCommandService interface {
	// HandleUtterance parses one transcribed utterance and, for update
	// commands naming a registered field, applies the edit.
	HandleUtterance(ctx context.Context, submissionID uuid.UUID, utterance string) (*FormState, *VoiceCommand, error)
}

type voiceCommandService struct {
	log   *logger.Logger
	ai    OpenAIClient
	forms FormService
	reg   *schema.Registry
}

func NewVoiceCommandService(log *logger.Logger, ai OpenAIClient, forms FormService, reg *schema.Registry) VoiceCommandService {
	return &voiceCommandService{
		log:   log.With("service", "VoiceCommandService"),
		ai:    ai,
		forms: forms,
		reg:   reg,
	}
}

// Spoken names rarely match schema keys. Alias resolution runs before
// the model result is trusted, so a hallucinated key cannot slip past.
var spokenFieldAliases = map[string]string{
	"federal tax id":            "fein",
	"tax id":                    "fein",
	"ein":                       "fein",
	"company name":              "legal_name",
	"business name":             "legal_name",
	"doing business as":         "dba",
	"revenue":                   "annual_revenue",
	"yearly revenue":            "annual_revenue",
	"employee count":            "num_employees",
	"number of employees":       "num_employees",
	"email":                     "contact_email",
	"phone":                     "contact_phone",
	"phone number":              "contact_phone",
	"address":                   "mailing_address",
	"street address":            "mailing_address",
	"city":                      "mailing_city",
	"state":                     "mailing_state",
	"zip":                       "mailing_zip",
	"zip code":                  "mailing_zip",
	"coverage":                  "coverage_type",
	"policy start date":         "effective_date",
	"policy end date":           "expiration_date",
	"description of operations": "nature_of_business",
}

const voiceSystemPrompt = `You turn one spoken utterance from an insurance intake session into a command.
Classify the intent as "update" when the speaker is setting or changing a form field, otherwise "other".
For updates, identify which field is being set and the value as the speaker stated it.
Report the value verbatim as a string. Do not reformat, abbreviate, or guess missing parts.`

func (s *voiceCommandService) HandleUtterance(ctx context.Context, submissionID uuid.UUID, utterance string) (*FormState, *VoiceCommand, error) {
	if s.ai == nil {
		return nil, nil, ErrVoiceUnavailable
	}
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, nil, ErrNotUpdateCommand
	}

	cmd, err := s.parse(ctx, utterance)
	if err != nil {
		return nil, nil, err
	}
	if !strings.EqualFold(cmd.Intent, "update") {
		return nil, cmd, ErrNotUpdateCommand
	}

	key, ok := s.resolveFieldKey(cmd.FieldKey)
	if !ok {
		s.log.Info("Voice command named an unknown field", "spoken_field", cmd.FieldKey)
		return nil, cmd, ErrUnrecognizedField
	}
	cmd.FieldKey = key

	state, err := s.forms.UpdateField(ctx, submissionID, key, cmd.Value)
	if err != nil {
		return nil, cmd, err
	}
	return state, cmd, nil
}

func (s *voiceCommandService) parse(ctx context.Context, utterance string) (*VoiceCommand, error) {
	raw, err := s.ai.GenerateJSON(ctx, voiceSystemPrompt, utterance, "voice_command", voiceCommandSchema())
	if err != nil {
		return nil, fmt.Errorf("parse utterance: %w", err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var cmd VoiceCommand
	if err := json.Unmarshal(buf, &cmd); err != nil {
		return nil, fmt.Errorf("decode voice command: %w", err)
	}
	return &cmd, nil
}

func voiceCommandSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent": map[string]any{
				"type": "string",
				"enum": []string{"update", "other"},
			},
			"field_key": map[string]any{
				"type":        "string",
				"description": "The field being set, as the speaker named it.",
			},
			"value": map[string]any{
				"type":        "string",
				"description": "The spoken value, verbatim.",
			},
		},
		"required":             []string{"intent", "field_key", "value"},
		"additionalProperties": false,
	}
}

// resolveFieldKey accepts exact schema keys, underscore/space variants,
// and the spoken alias table. Anything else is rejected.
func (s *voiceCommandService) resolveFieldKey(spoken string) (string, bool) {
	spoken = strings.ToLower(strings.TrimSpace(spoken))
	if spoken == "" {
		return "", false
	}
	if _, ok := s.reg.Get(spoken); ok {
		return spoken, true
	}
	underscored := strings.ReplaceAll(spoken, " ", "_")
	if _, ok := s.reg.Get(underscored); ok {
		return underscored, true
	}
	if key, ok := spokenFieldAliases[spoken]; ok {
		if _, registered := s.reg.Get(key); registered {
			return key, true
		}
	}
	return "", false
}
