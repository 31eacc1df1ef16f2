package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/schema"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeAI struct {
	response map[string]any
	err      error
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, jsonSchema map[string]any) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeAI) Model() string { return "test-model" }

type fakeFormService struct {
	FormService
	updatedKey   string
	updatedValue string
	updateErr    error
}

func (f *fakeFormService) UpdateField(ctx context.Context, submissionID uuid.UUID, fieldKey, rawValue string) (*FormState, error) {
	f.updatedKey = fieldKey
	f.updatedValue = rawValue
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &FormState{SubmissionID: submissionID}, nil
}

func TestHandleUtterance_AppliesUpdateThroughAlias(t *testing.T) {
	ai := &fakeAI{response: map[string]any{
		"intent":    "update",
		"field_key": "federal tax id",
		"value":     "12-3456789",
	}}
	forms := &fakeFormService{}
	svc := NewVoiceCommandService(testLogger(), ai, forms, schema.ACORD125)

	state, cmd, err := svc.HandleUtterance(context.Background(), uuid.New(), "set the federal tax id to 12-3456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state == nil {
		t.Fatalf("expected state")
	}
	if cmd.FieldKey != "fein" {
		t.Fatalf("expected alias resolved to fein, got %q", cmd.FieldKey)
	}
	if forms.updatedKey != "fein" || forms.updatedValue != "12-3456789" {
		t.Fatalf("unexpected forwarded edit: %q=%q", forms.updatedKey, forms.updatedValue)
	}
}

func TestHandleUtterance_ResolvesSpokenKeyVariants(t *testing.T) {
	cases := []struct {
		spoken string
		want   string
	}{
		{"annual revenue", "annual_revenue"},
		{"annual_revenue", "annual_revenue"},
		{"zip code", "mailing_zip"},
		{"Company Name", "legal_name"},
	}
	svc := &voiceCommandService{log: testLogger(), reg: schema.ACORD125}
	for _, tc := range cases {
		got, ok := svc.resolveFieldKey(tc.spoken)
		if !ok || got != tc.want {
			t.Fatalf("resolveFieldKey(%q): expected %q, got %q ok=%v", tc.spoken, tc.want, got, ok)
		}
	}
	if _, ok := svc.resolveFieldKey("favorite color"); ok {
		t.Fatalf("expected unknown spoken field rejected")
	}
}

func TestHandleUtterance_RejectsNonUpdateIntent(t *testing.T) {
	ai := &fakeAI{response: map[string]any{
		"intent":    "other",
		"field_key": "",
		"value":     "",
	}}
	forms := &fakeFormService{}
	svc := NewVoiceCommandService(testLogger(), ai, forms, schema.ACORD125)

	_, cmd, err := svc.HandleUtterance(context.Background(), uuid.New(), "what's the weather like")
	if !errors.Is(err, ErrNotUpdateCommand) {
		t.Fatalf("expected ErrNotUpdateCommand, got %v", err)
	}
	if cmd == nil {
		t.Fatalf("expected parsed command returned for diagnostics")
	}
	if forms.updatedKey != "" {
		t.Fatalf("expected no edit forwarded")
	}
}

func TestHandleUtterance_RejectsUnknownField(t *testing.T) {
	ai := &fakeAI{response: map[string]any{
		"intent":    "update",
		"field_key": "favorite color",
		"value":     "blue",
	}}
	forms := &fakeFormService{}
	svc := NewVoiceCommandService(testLogger(), ai, forms, schema.ACORD125)

	_, _, err := svc.HandleUtterance(context.Background(), uuid.New(), "set my favorite color to blue")
	if !errors.Is(err, ErrUnrecognizedField) {
		t.Fatalf("expected ErrUnrecognizedField, got %v", err)
	}
	if forms.updatedKey != "" {
		t.Fatalf("expected no edit forwarded")
	}
}

func TestHandleUtterance_NilClientUnavailable(t *testing.T) {
	svc := NewVoiceCommandService(testLogger(), nil, &fakeFormService{}, schema.ACORD125)

	_, _, err := svc.HandleUtterance(context.Background(), uuid.New(), "set the city to Albany")
	if !errors.Is(err, ErrVoiceUnavailable) {
		t.Fatalf("expected ErrVoiceUnavailable, got %v", err)
	}
}
