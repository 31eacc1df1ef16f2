package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coverbridge/intake-backend/internal/extraction"
	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/repos"
	"github.com/coverbridge/intake-backend/internal/types"
	"github.com/coverbridge/intake-backend/internal/utils"
)

var (
	ErrRenderUnavailable = errors.New("pdf rendering unavailable")
	ErrNotRenderable     = errors.New("submission must pass validation before rendering")
)

// PDFFillClient fills the carrier form template at the vendor and
// returns a URL for the rendered document.
type PDFFillClient interface {
	FillTemplate(ctx context.Context, fields extraction.FieldMap) (string, error)
}

type pdfFillClient struct {
	log        *logger.Logger
	httpClient *http.Client
	apiKey     string
	baseURL    string
	templateID string
	maxRetries int
}

func NewPDFFillClient(log *logger.Logger) (PDFFillClient, error) {
	slog := log.With("service", "PDFFillClient")

	apiKey := utils.GetEnv("PDF_FILL_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("PDF_FILL_API_KEY is not set")
	}
	baseURL := utils.GetEnv("PDF_FILL_BASE_URL", "https://api.pdffiller.example.com", log)
	templateID := utils.GetEnv("PDF_FILL_TEMPLATE_ID", "acord-125", log)
	timeout := utils.GetEnvAsInt("PDF_FILL_TIMEOUT_SECONDS", 60, log)
	retries := utils.GetEnvAsInt("PDF_FILL_MAX_RETRIES", 3, log)

	return &pdfFillClient{
		log:        slog,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		templateID: templateID,
		maxRetries: retries,
	}, nil
}

type pdfFillHTTPError struct {
	StatusCode int
	Body       string
}

func (e *pdfFillHTTPError) Error() string {
	return "pdf fill http " + strconv.Itoa(e.StatusCode) + ": " + e.Body
}

type pdfFillResponse struct {
	URL string `json:"url"`
}

func (c *pdfFillClient) FillTemplate(ctx context.Context, fields extraction.FieldMap) (string, error) {
	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return "", err
	}

	path := c.baseURL + "/v1/templates/" + c.templateID + "/fill"
	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !isRetryableErr(err) || attempt == c.maxRetries {
				return "", err
			}
			time.Sleep(jitterSleep(backoff))
			backoff *= 2
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return "", readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var out pdfFillResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return "", fmt.Errorf("decode pdf fill response: %w", err)
			}
			if out.URL == "" {
				return "", fmt.Errorf("pdf fill response missing url")
			}
			return out.URL, nil
		}

		lastErr = &pdfFillHTTPError{StatusCode: resp.StatusCode, Body: string(body)}
		if !isRetryableHTTP(resp.StatusCode) || attempt == c.maxRetries {
			return "", lastErr
		}
		c.log.Warn("Retryable pdf fill error", "status", resp.StatusCode, "attempt", attempt)
		time.Sleep(jitterSleep(backoff))
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return "", lastErr
}

// RenderService produces the final document. Rendering is refused for
// drafts and for field maps that fail validation.
type RenderService interface {
	Render(ctx context.Context, submissionID uuid.UUID) (*FormState, error)
}

type renderService struct {
	db             *gorm.DB
	log            *logger.Logger
	forms          FormService
	pdf            PDFFillClient
	submissionRepo repos.FormSubmissionRepo
}

func NewRenderService(db *gorm.DB, log *logger.Logger, forms FormService, pdf PDFFillClient, submissionRepo repos.FormSubmissionRepo) RenderService {
	return &renderService{
		db:             db,
		log:            log.With("service", "RenderService"),
		forms:          forms,
		pdf:            pdf,
		submissionRepo: submissionRepo,
	}
}

func (s *renderService) Render(ctx context.Context, submissionID uuid.UUID) (*FormState, error) {
	if s.pdf == nil {
		return nil, ErrRenderUnavailable
	}

	state, err := s.forms.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !state.Report.IsValid || state.Status == types.SubmissionStatusDraft {
		return state, ErrNotRenderable
	}

	url, err := s.pdf.FillTemplate(ctx, state.Fields)
	if err != nil {
		return nil, fmt.Errorf("fill template: %w", err)
	}

	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	submission.Status = types.SubmissionStatusRendered
	submission.PDFURL = url
	if _, err := s.submissionRepo.Update(ctx, nil, submission); err != nil {
		return nil, err
	}

	state.Status = submission.Status
	state.PDFURL = url
	s.log.Info("Rendered submission", "submission_id", submissionID.String())
	return state, nil
}
