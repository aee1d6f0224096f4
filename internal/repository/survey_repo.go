package repository

import (
	"bytes"
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jaam8/survey_client/internal/models"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const requestIDHeader = "X-Request-ID"

// SurveyRepository talks to the survey backend over HTTP.
type SurveyRepository struct {
	base   string
	client *http.Client
	l      *zap.Logger
}

func New(base string, client *http.Client, l *zap.Logger) *SurveyRepository {
	return &SurveyRepository{
		base:   base,
		client: client,
		l:      l,
	}
}

type result struct {
	status int
	body   []byte
}

func (r result) ok() bool {
	return r.status >= 200 && r.status < 300
}

// gatewayDown reports statuses that mean the backend itself did not answer.
func (r result) gatewayDown() bool {
	switch r.status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (r result) unexpected() error {
	return fmt.Errorf("repository: %w: %d %s", models.ErrUnexpectedStatus, r.status, bytes.TrimSpace(r.body))
}

func (r *SurveyRepository) do(ctx context.Context, method, path string, query url.Values, in, out any) (result, error) {
	endpoint := r.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return result{}, fmt.Errorf("repository: json marshal error: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return result{}, fmt.Errorf("repository: failed to build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r.l.Debug("backend request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path))
	resp, err := r.client.Do(req)
	if err != nil {
		r.l.Debug("backend request failed", zap.String("request_id", requestID), zap.Error(err))
		return result{}, fmt.Errorf("repository: %w: %w", models.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	res := result{status: resp.StatusCode}
	res.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("repository: %w: failed to read response: %w", models.ErrBackendUnreachable, err)
	}
	r.l.Debug("backend response",
		zap.String("request_id", requestID),
		zap.Int("status_code", res.status),
		zap.Int("bytes", len(res.body)))

	if res.gatewayDown() {
		return res, fmt.Errorf("repository: %w: status %d", models.ErrBackendUnreachable, res.status)
	}
	if res.ok() && out != nil && len(bytes.TrimSpace(res.body)) > 0 {
		if err = json.Unmarshal(res.body, out); err != nil {
			r.l.Debug("failed to unmarshal response", zap.String("request_id", requestID), zap.Error(err))
			return res, fmt.Errorf("repository: failed to unmarshal %s response: %w", path, err)
		}
	}
	return res, nil
}

func userQuery(userID int64) url.Values {
	return url.Values{"userId": []string{strconv.FormatInt(userID, 10)}}
}

func (r *SurveyRepository) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	user := &models.User{}
	res, err := r.do(ctx, http.MethodPost, "/auth/login", nil, creds, user)
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		r.l.Debug("login rejected", zap.String("username", creds.Username), zap.Int("status_code", res.status))
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

func (r *SurveyRepository) Register(ctx context.Context, reg models.Registration) error {
	return r.register(ctx, "/auth/register", reg)
}

func (r *SurveyRepository) CreateAdmin(ctx context.Context, reg models.Registration) error {
	return r.register(ctx, "/auth/create-admin", reg)
}

func (r *SurveyRepository) register(ctx context.Context, path string, reg models.Registration) error {
	res, err := r.do(ctx, http.MethodPost, path, nil, reg, nil)
	if err != nil {
		return err
	}
	if !res.ok() {
		if msg := bytes.TrimSpace(res.body); len(msg) > 0 {
			return fmt.Errorf("%w: %s", models.ErrRegistration, msg)
		}
		return models.ErrRegistration
	}
	return nil
}

func (r *SurveyRepository) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	var surveys []models.Survey
	res, err := r.do(ctx, http.MethodGet, "/surveys", nil, nil, &surveys)
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, fmt.Errorf("repository: %w: failed to fetch surveys, status %d", models.ErrBackendUnreachable, res.status)
	}
	if surveys == nil {
		surveys = []models.Survey{}
	}
	return surveys, nil
}

func (r *SurveyRepository) CreateSurvey(ctx context.Context, userID int64, survey models.NewSurvey) (*models.Survey, error) {
	created := &models.Survey{}
	res, err := r.do(ctx, http.MethodPost, "/surveys", userQuery(userID), survey, created)
	if err != nil {
		return nil, err
	}
	switch {
	case res.ok():
		return created, nil
	case res.status == http.StatusUnauthorized || res.status == http.StatusForbidden:
		return nil, models.ErrNotAdmin
	default:
		return nil, res.unexpected()
	}
}

func (r *SurveyRepository) SubmitResponse(ctx context.Context, surveyID, userID int64, payload models.ResponsePayload) error {
	path := "/surveys/" + strconv.FormatInt(surveyID, 10) + "/responses"
	res, err := r.do(ctx, http.MethodPost, path, userQuery(userID), payload, nil)
	if err != nil {
		return err
	}
	if !res.ok() {
		return fmt.Errorf("repository: %w: status %d", models.ErrSubmitRejected, res.status)
	}
	return nil
}

func (r *SurveyRepository) GetReport(ctx context.Context, surveyID, userID int64) (*models.ReportPayload, error) {
	report := &models.ReportPayload{}
	path := "/surveys/" + strconv.FormatInt(surveyID, 10) + "/report"
	res, err := r.do(ctx, http.MethodGet, path, userQuery(userID), nil, report)
	if err != nil {
		return nil, err
	}
	switch {
	case res.ok():
		return report, nil
	case res.status == http.StatusUnauthorized || res.status == http.StatusForbidden:
		return nil, models.ErrNotAdmin
	default:
		return nil, res.unexpected()
	}
}
