package extraction

import (
	"context"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/schema"
)

// Pipeline runs one extraction request end to end:
// rules -> gap analysis -> LLM fallback -> merge -> validate.
// It holds no per-request state and is safe for concurrent use; the
// fallback call is the only stage that touches the network, and at most
// one such call happens per run.
type Pipeline struct {
	log *logger.Logger
	reg *schema.Registry
	llm *LLMExtractor
}

// Result is what one run produces, plus enough stage accounting for the
// caller to audit the model usage.
type Result struct {
	Fields FieldMap `json:"fields"`
	Report Report   `json:"report"`

	RuleFilled    int  `json:"rule_filled"`
	GapCount      int  `json:"gap_count"`
	LLMSkipped    bool `json:"llm_skipped"`
	LLMCandidates int  `json:"llm_candidates"`
	LLMAccepted   int  `json:"llm_accepted"`
}

func NewPipeline(log *logger.Logger, reg *schema.Registry, llm *LLMExtractor) *Pipeline {
	return &Pipeline{
		log: log.With("component", "ExtractionPipeline"),
		reg: reg,
		llm: llm,
	}
}

func (p *Pipeline) Registry() *schema.Registry {
	return p.reg
}

// Run executes a single extraction over the given company memory. It
// never returns an error: every stage failure degrades to fewer filled
// fields, and the worst case is an all-null map whose report flags every
// required field.
func (p *Pipeline) Run(ctx context.Context, rawSource map[string]any, transcripts []string) Result {
	ruleMap := ExtractRules(rawSource, transcripts, p.reg)
	p.log.Debug("Rule extraction done", "filled", len(ruleMap), "schema_fields", p.reg.Len())

	remaining := Remaining(p.reg, ruleMap)
	p.log.Debug("Gap analysis done", "remaining", remaining.Len())

	var candidates map[string]string
	llmSkipped := true
	if remaining.Len() > 0 && p.llm.Available() {
		llmSkipped = false
		candidates = p.llm.ExtractRemaining(ctx, rawSource, transcripts, remaining)
		p.log.Debug("Fallback extraction done", "candidates", len(candidates))
	}

	merged, unexpected := Merge(ruleMap, candidates, remaining)
	for _, key := range unexpected {
		p.log.Warn("Dropped candidate outside remaining set", "field_key", key)
	}

	report := Validate(p.reg, merged)
	final := Finalize(p.reg, merged)

	p.log.Info("Extraction run complete",
		"rule_filled", len(ruleMap),
		"gap_count", remaining.Len(),
		"llm_skipped", llmSkipped,
		"llm_accepted", len(merged)-len(ruleMap),
		"is_valid", report.IsValid,
	)

	return Result{
		Fields:        final,
		Report:        report,
		RuleFilled:    len(ruleMap),
		GapCount:      remaining.Len(),
		LLMSkipped:    llmSkipped,
		LLMCandidates: len(candidates),
		LLMAccepted:   len(merged) - len(ruleMap),
	}
}
