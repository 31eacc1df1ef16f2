package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coverbridge/intake-backend/internal/extraction"
	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/services"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeFormService struct {
	services.FormService
	state     *services.FormState
	updateErr error
	submitErr error
}

func (f *fakeFormService) Get(ctx context.Context, submissionID uuid.UUID) (*services.FormState, error) {
	return f.state, nil
}

func (f *fakeFormService) UpdateField(ctx context.Context, submissionID uuid.UUID, fieldKey, rawValue string) (*services.FormState, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.state, nil
}

func (f *fakeFormService) Submit(ctx context.Context, submissionID uuid.UUID) (*services.FormState, error) {
	if f.submitErr != nil {
		return f.state, f.submitErr
	}
	return f.state, nil
}

func formRouter(svc services.FormService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFormHandler(testLogger(), svc)
	r := gin.New()
	r.GET("/api/forms/:submissionID", h.Get)
	r.PUT("/api/forms/:submissionID/fields/:fieldKey", h.UpdateField)
	r.POST("/api/forms/:submissionID/submit", h.Submit)
	return r
}

func sampleState() *services.FormState {
	return &services.FormState{
		SubmissionID: uuid.New(),
		CompanyID:    uuid.New(),
		Status:       "draft",
		Fields:       extraction.FieldMap{"legal_name": "Acme LLC"},
		Report:       extraction.Report{Errors: map[string]string{"fein": "FEIN is required"}},
	}
}

func TestFormHandler_GetReturnsState(t *testing.T) {
	r := formRouter(&fakeFormService{state: sampleState()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/forms/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got services.FormState
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Fields["legal_name"] != "Acme LLC" {
		t.Fatalf("unexpected fields: %v", got.Fields)
	}
	if got.Report.Errors["fein"] != "FEIN is required" {
		t.Fatalf("unexpected report: %v", got.Report.Errors)
	}
}

func TestFormHandler_GetRejectsBadID(t *testing.T) {
	r := formRouter(&fakeFormService{state: sampleState()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/forms/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestFormHandler_UpdateFieldMapsRejectionTo422(t *testing.T) {
	r := formRouter(&fakeFormService{
		updateErr: &services.FieldRejectedError{Key: "annual_revenue", Reason: "cannot be read as number"},
	})

	body := bytes.NewBufferString(`{"value":"abc"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/forms/"+uuid.NewString()+"/fields/annual_revenue", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != "field_rejected" {
		t.Fatalf("unexpected code: %q", envelope.Error.Code)
	}
}

func TestFormHandler_UpdateFieldMapsUnknownFieldTo404(t *testing.T) {
	r := formRouter(&fakeFormService{updateErr: services.ErrUnknownField})

	body := bytes.NewBufferString(`{"value":"x"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/forms/"+uuid.NewString()+"/fields/bogus", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFormHandler_SubmitReturnsReportWhenBlocked(t *testing.T) {
	r := formRouter(&fakeFormService{state: sampleState(), submitErr: services.ErrNotSubmittable})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/forms/"+uuid.NewString()+"/submit", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var payload struct {
		Error APIError            `json:"error"`
		State *services.FormState `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Error.Code != "not_submittable" {
		t.Fatalf("unexpected code: %q", payload.Error.Code)
	}
	if payload.State == nil || payload.State.Report.Errors["fein"] == "" {
		t.Fatalf("expected report in refusal payload")
	}
}
