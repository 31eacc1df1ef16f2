package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/schema"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type stubGenerator struct {
	response  map[string]any
	err       error
	lastUser  string
	callCount int
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, system, user, schemaName string, jsonSchema map[string]any) (map[string]any, error) {
	s.callCount++
	s.lastUser = user
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func acmeSource() map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"legal_name": "Acme LLC",
			"fein":       "12-3456789",
		},
		"contact": map[string]any{"email": "ops@acme.com"},
	}
}

func TestPipeline_RunEndToEnd(t *testing.T) {
	gen := &stubGenerator{response: map[string]any{
		"annual_revenue": "$2.5M",
		"coverage_type":  "general_liability",
		"mailing_state":  "NY",
		"business_type":  nil,
	}}
	p := NewPipeline(testLogger(), schema.ACORD125, NewLLMExtractor(testLogger(), gen))

	result := p.Run(context.Background(), acmeSource(), []string{"we need coverage starting soon"})

	if gen.callCount != 1 {
		t.Fatalf("expected one model call, got %d", gen.callCount)
	}
	if result.Fields["legal_name"] != "Acme LLC" {
		t.Fatalf("expected rule-extracted name, got %v", result.Fields["legal_name"])
	}
	if result.Fields["annual_revenue"] != float64(2500000) {
		t.Fatalf("expected typed revenue from candidate, got %v", result.Fields["annual_revenue"])
	}
	if result.Fields["coverage_type"] != "general_liability" {
		t.Fatalf("expected coverage candidate accepted, got %v", result.Fields["coverage_type"])
	}
	if result.Report.IsValid {
		t.Fatalf("expected invalid report with unfilled required fields")
	}
	if result.Report.Errors["contact_phone"] != "Contact Phone is required" {
		t.Fatalf("unexpected message: %q", result.Report.Errors["contact_phone"])
	}
	if len(result.Fields) != schema.ACORD125.Len() {
		t.Fatalf("expected finalized map over every schema key")
	}
	if result.Fields["has_subsidiaries"] != false {
		t.Fatalf("expected checkbox defaulted to false")
	}
	if result.LLMSkipped {
		t.Fatalf("expected fallback to run")
	}
	if result.RuleFilled == 0 || result.GapCount == 0 || result.LLMAccepted != 3 {
		t.Fatalf("unexpected stats: %+v", result)
	}
}

func TestPipeline_PromptOnlyAsksForRemainingFields(t *testing.T) {
	gen := &stubGenerator{response: map[string]any{}}
	p := NewPipeline(testLogger(), schema.ACORD125, NewLLMExtractor(testLogger(), gen))

	p.Run(context.Background(), acmeSource(), nil)

	if strings.Contains(gen.lastUser, "- legal_name:") {
		t.Fatalf("expected rule-filled field excluded from prompt")
	}
	if !strings.Contains(gen.lastUser, "- coverage_type:") {
		t.Fatalf("expected open field present in prompt")
	}
}

func TestPipeline_ModelFailureDegradesToRulesOnly(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream 500")}
	p := NewPipeline(testLogger(), schema.ACORD125, NewLLMExtractor(testLogger(), gen))

	result := p.Run(context.Background(), acmeSource(), nil)

	if result.Fields["legal_name"] != "Acme LLC" {
		t.Fatalf("expected rule values to survive model failure")
	}
	if result.Report.IsValid {
		t.Fatalf("expected invalid report")
	}
	if result.LLMAccepted != 0 {
		t.Fatalf("expected no accepted candidates, got %d", result.LLMAccepted)
	}
}

func TestPipeline_NilExtractorSkipsFallback(t *testing.T) {
	p := NewPipeline(testLogger(), schema.ACORD125, nil)

	result := p.Run(context.Background(), acmeSource(), nil)

	if !result.LLMSkipped {
		t.Fatalf("expected fallback skipped")
	}
	if result.Fields["fein"] != "12-3456789" {
		t.Fatalf("expected rule extraction unaffected")
	}
}

func TestPipeline_ExtractorWithoutClientRecordsSkip(t *testing.T) {
	p := NewPipeline(testLogger(), schema.ACORD125, NewLLMExtractor(testLogger(), nil))

	result := p.Run(context.Background(), acmeSource(), nil)

	if !result.LLMSkipped {
		t.Fatalf("expected skip recorded when no client is configured")
	}
	if result.LLMCandidates != 0 || result.LLMAccepted != 0 {
		t.Fatalf("expected no candidate accounting, got %+v", result)
	}
	if result.Fields["legal_name"] != "Acme LLC" {
		t.Fatalf("expected rule extraction unaffected")
	}
}

func TestPipeline_NoGapsMeansNoModelCall(t *testing.T) {
	gen := &stubGenerator{response: map[string]any{}}
	reg := schema.NewRegistry([]schema.FieldDef{
		{Key: "legal_name", Label: "Legal Name", Type: schema.FieldText, Required: true, Validate: schema.NonEmptyString},
	})
	p := NewPipeline(testLogger(), reg, NewLLMExtractor(testLogger(), gen))

	result := p.Run(context.Background(), map[string]any{"legal_name": "Acme LLC"}, nil)

	if gen.callCount != 0 {
		t.Fatalf("expected no model call with zero gaps, got %d", gen.callCount)
	}
	if !result.Report.IsValid {
		t.Fatalf("expected valid report: %v", result.Report.Errors)
	}
}

func TestLLMExtractor_FiltersForeignAndEmptyCandidates(t *testing.T) {
	gen := &stubGenerator{response: map[string]any{
		"fein":       "12-3456789",
		"legal_name": "Intruder Inc",
		"dba":        "   ",
		"sic":        float64(7371),
	}}
	e := NewLLMExtractor(testLogger(), gen)

	remaining := schema.ACORD125.Subset(map[string]bool{"fein": true, "dba": true, "sic": true})
	got := e.ExtractRemaining(context.Background(), nil, nil, remaining)

	if len(got) != 1 || got["fein"] != "12-3456789" {
		t.Fatalf("expected only the clean string candidate, got %v", got)
	}
}
