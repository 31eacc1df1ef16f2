package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/coverbridge/intake-backend/internal/clients/redis"
	"github.com/coverbridge/intake-backend/internal/extraction"
	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/repos"
	"github.com/coverbridge/intake-backend/internal/schema"
	"github.com/coverbridge/intake-backend/internal/types"
)

var (
	ErrUnknownField   = errors.New("unknown field key")
	ErrNotSubmittable = errors.New("submission has validation errors")
)

// FieldRejectedError reports a single-field edit that failed the
// coercion+validation gate. The same gate guards every value source:
// rules, model candidates, manual edits, and voice commands.
type FieldRejectedError struct {
	Key    string
	Reason string
}

func (e *FieldRejectedError) Error() string {
	return fmt.Sprintf("field %s rejected: %s", e.Key, e.Reason)
}

// FormState is what editing clients see: the schema-complete field map
// plus the current validation report.
type FormState struct {
	SubmissionID uuid.UUID           `json:"submission_id"`
	CompanyID    uuid.UUID           `json:"company_id"`
	Status       string              `json:"status"`
	Fields       extraction.FieldMap `json:"fields"`
	Report       extraction.Report   `json:"report"`
	PDFURL       string              `json:"pdf_url,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type FormService interface {
	// Prefill runs the extraction pipeline over company memory and
	// persists a fresh draft submission.
	Prefill(ctx context.Context, companyID uuid.UUID) (*FormState, error)
	Get(ctx context.Context, submissionID uuid.UUID) (*FormState, error)
	// UpdateField applies one edit through the coercion+validation
	// gate and autosaves the result. An empty raw value clears the
	// field.
	UpdateField(ctx context.Context, submissionID uuid.UUID, fieldKey string, rawValue string) (*FormState, error)
	// SaveDraft flushes the cached draft to Postgres.
	SaveDraft(ctx context.Context, submissionID uuid.UUID) (*FormState, error)
	Submit(ctx context.Context, submissionID uuid.UUID) (*FormState, error)
}

type formService struct {
	db  *gorm.DB
	log *logger.Logger

	pipeline       *extraction.Pipeline
	memory         MemoryService
	submissionRepo repos.FormSubmissionRepo
	aiCallLogRepo  repos.AICallLogRepo
	drafts         redisclient.DraftCache
	modelName      string
}

func NewFormService(
	db *gorm.DB,
	log *logger.Logger,
	pipeline *extraction.Pipeline,
	memory MemoryService,
	submissionRepo repos.FormSubmissionRepo,
	aiCallLogRepo repos.AICallLogRepo,
	drafts redisclient.DraftCache,
	modelName string,
) FormService {
	return &formService{
		db:             db,
		log:            log.With("service", "FormService"),
		pipeline:       pipeline,
		memory:         memory,
		submissionRepo: submissionRepo,
		aiCallLogRepo:  aiCallLogRepo,
		drafts:         drafts,
		modelName:      modelName,
	}
}

type draftPayload struct {
	Fields    extraction.FieldMap `json:"fields"`
	Report    extraction.Report   `json:"report"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (s *formService) Prefill(ctx context.Context, companyID uuid.UUID) (*FormState, error) {
	rawSource, transcripts, err := s.memory.GetCompanyContext(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company memory: %w", err)
	}

	result := s.pipeline.Run(ctx, rawSource, transcripts)

	fieldsJSON, err := json.Marshal(result.Fields)
	if err != nil {
		return nil, err
	}
	reportJSON, err := json.Marshal(result.Report)
	if err != nil {
		return nil, err
	}

	submission := &types.FormSubmission{
		CompanyID: companyID,
		Status:    types.SubmissionStatusDraft,
		Fields:    datatypes.JSON(fieldsJSON),
		Report:    datatypes.JSON(reportJSON),
		IsValid:   result.Report.IsValid,
	}
	if _, err := s.submissionRepo.Create(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	s.auditExtraction(ctx, companyID, result)

	return s.stateFromSubmission(submission, result.Fields, result.Report), nil
}

// auditExtraction records the model usage row. Audit failure is an
// operability problem, not a pipeline failure.
func (s *formService) auditExtraction(ctx context.Context, companyID uuid.UUID, result extraction.Result) {
	stats, err := json.Marshal(map[string]any{
		"rule_filled":    result.RuleFilled,
		"gap_count":      result.GapCount,
		"llm_candidates": result.LLMCandidates,
		"llm_accepted":   result.LLMAccepted,
	})
	if err != nil {
		return
	}
	_, err = s.aiCallLogRepo.Create(ctx, nil, []*types.AICallLog{{
		CompanyID: &companyID,
		CallType:  "intake_prefill",
		Model:     s.modelName,
		Skipped:   result.LLMSkipped,
		Stats:     datatypes.JSON(stats),
	}})
	if err != nil {
		s.log.Warn("Failed to write AI call log", "company_id", companyID.String(), "error", err)
	}
}

func (s *formService) Get(ctx context.Context, submissionID uuid.UUID) (*FormState, error) {
	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	fields, report, err := s.currentDraft(ctx, submission)
	if err != nil {
		return nil, err
	}
	return s.stateFromSubmission(submission, fields, report), nil
}

func (s *formService) UpdateField(ctx context.Context, submissionID uuid.UUID, fieldKey string, rawValue string) (*FormState, error) {
	reg := s.pipeline.Registry()
	def, ok := reg.Get(fieldKey)
	if !ok {
		return nil, ErrUnknownField
	}

	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	fields, _, err := s.currentDraft(ctx, submission)
	if err != nil {
		return nil, err
	}

	next := fields.Clone()
	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		if def.Type == schema.FieldCheckbox {
			next[fieldKey] = false
		} else {
			next[fieldKey] = nil
		}
	} else {
		coerced, ok := schema.Coerce(def, rawValue)
		if !ok {
			return nil, &FieldRejectedError{Key: fieldKey, Reason: fmt.Sprintf("cannot be read as %s", def.Type)}
		}
		if !def.Validate(coerced) {
			return nil, &FieldRejectedError{Key: fieldKey, Reason: fmt.Sprintf("%s is invalid", def.Label)}
		}
		next[fieldKey] = coerced
	}

	report := extraction.Validate(reg, next)
	next = extraction.Finalize(reg, next)

	if err := s.autosave(ctx, submission, next, report); err != nil {
		return nil, err
	}
	return s.stateFromSubmission(submission, next, report), nil
}

// autosave writes the draft through the cache; when the cache is absent
// or failing it falls back to a direct Postgres write so an edit is
// never dropped on the floor. Only drafts go through the cache: reads
// ignore the cache for submitted and rendered submissions, so an edit
// to one of those must land in Postgres to be visible at all.
func (s *formService) autosave(ctx context.Context, submission *types.FormSubmission, fields extraction.FieldMap, report extraction.Report) error {
	if s.drafts != nil && submission.Status == types.SubmissionStatusDraft {
		payload := draftPayload{Fields: fields, Report: report, UpdatedAt: time.Now().UTC()}
		if err := s.drafts.Put(ctx, submission.ID.String(), payload); err == nil {
			return nil
		} else {
			s.log.Warn("Draft cache write failed; persisting to Postgres", "submission_id", submission.ID.String(), "error", err)
		}
	}
	return s.persist(ctx, submission, fields, report)
}

func (s *formService) SaveDraft(ctx context.Context, submissionID uuid.UUID) (*FormState, error) {
	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	fields, report, err := s.currentDraft(ctx, submission)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, submission, fields, report); err != nil {
		return nil, err
	}
	return s.stateFromSubmission(submission, fields, report), nil
}

func (s *formService) Submit(ctx context.Context, submissionID uuid.UUID) (*FormState, error) {
	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	fields, report, err := s.currentDraft(ctx, submission)
	if err != nil {
		return nil, err
	}

	// Re-validate at the submit boundary; the cached report could be
	// stale relative to the schema in a rolling deploy.
	report = extraction.Validate(s.pipeline.Registry(), fields)
	if !report.IsValid {
		if err := s.persist(ctx, submission, fields, report); err != nil {
			return nil, err
		}
		return s.stateFromSubmission(submission, fields, report), ErrNotSubmittable
	}

	submission.Status = types.SubmissionStatusSubmitted
	if err := s.persist(ctx, submission, fields, report); err != nil {
		return nil, err
	}
	if s.drafts != nil {
		_ = s.drafts.Delete(ctx, submission.ID.String())
	}
	return s.stateFromSubmission(submission, fields, report), nil
}

// currentDraft prefers the cached draft over the persisted row.
func (s *formService) currentDraft(ctx context.Context, submission *types.FormSubmission) (extraction.FieldMap, extraction.Report, error) {
	if s.drafts != nil && submission.Status == types.SubmissionStatusDraft {
		var payload draftPayload
		found, err := s.drafts.Get(ctx, submission.ID.String(), &payload)
		if err != nil {
			s.log.Warn("Draft cache read failed; using persisted state", "submission_id", submission.ID.String(), "error", err)
		} else if found {
			return payload.Fields, payload.Report, nil
		}
	}

	var fields extraction.FieldMap
	if len(submission.Fields) > 0 {
		if err := json.Unmarshal(submission.Fields, &fields); err != nil {
			return nil, extraction.Report{}, fmt.Errorf("decode submission fields: %w", err)
		}
	}
	var report extraction.Report
	if len(submission.Report) > 0 {
		if err := json.Unmarshal(submission.Report, &report); err != nil {
			return nil, extraction.Report{}, fmt.Errorf("decode submission report: %w", err)
		}
	}
	if fields == nil {
		fields = extraction.FieldMap{}
	}
	if report.Errors == nil {
		report.Errors = map[string]string{}
	}
	return fields, report, nil
}

func (s *formService) persist(ctx context.Context, submission *types.FormSubmission, fields extraction.FieldMap, report extraction.Report) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}
	submission.Fields = datatypes.JSON(fieldsJSON)
	submission.Report = datatypes.JSON(reportJSON)
	submission.IsValid = report.IsValid
	_, err = s.submissionRepo.Update(ctx, nil, submission)
	return err
}

func (s *formService) stateFromSubmission(submission *types.FormSubmission, fields extraction.FieldMap, report extraction.Report) *FormState {
	return &FormState{
		SubmissionID: submission.ID,
		CompanyID:    submission.CompanyID,
		Status:       submission.Status,
		Fields:       fields,
		Report:       report,
		PDFURL:       submission.PDFURL,
		UpdatedAt:    submission.UpdatedAt,
	}
}
