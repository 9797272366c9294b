package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zukunftsstadt/contest-api/internal/dto"
	"github.com/zukunftsstadt/contest-api/internal/handler"
	"github.com/zukunftsstadt/contest-api/internal/service"
	"github.com/zukunftsstadt/contest-api/pkg/ai"
)

type mockContestService struct {
	lastSessionID string
	lastRequest   dto.GenerateRequest

	openResponse     dto.SessionResponse
	generateResponse dto.SessionResponse
	generateErr      error
	submitResponse   dto.SubmitResponse
	submitErr        error
	resetResponse    dto.SessionResponse
	resetErr         error
}

func (m *mockContestService) Open(_ context.Context, sessionID string) (dto.SessionResponse, error) {
	m.lastSessionID = sessionID
	return m.openResponse, nil
}

func (m *mockContestService) Generate(_ context.Context, sessionID string, req dto.GenerateRequest) (dto.SessionResponse, error) {
	m.lastSessionID = sessionID
	m.lastRequest = req
	if m.generateErr != nil {
		return dto.SessionResponse{}, m.generateErr
	}
	return m.generateResponse, nil
}

func (m *mockContestService) Submit(_ context.Context, sessionID string) (dto.SubmitResponse, error) {
	m.lastSessionID = sessionID
	if m.submitErr != nil {
		return dto.SubmitResponse{}, m.submitErr
	}
	return m.submitResponse, nil
}

func (m *mockContestService) Reset(_ context.Context, sessionID string) (dto.SessionResponse, error) {
	m.lastSessionID = sessionID
	if m.resetErr != nil {
		return dto.SessionResponse{}, m.resetErr
	}
	return m.resetResponse, nil
}

func newContestApp(svc service.ContestService) *fiber.App {
	app := fiber.New()
	handler.NewContestHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/contest"))
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestContestHandler_SessionIssuesID(t *testing.T) {
	svc := &mockContestService{openResponse: dto.SessionResponse{SessionID: "abc", State: "idle", Prompt: service.DefaultPrompt}}
	app := newContestApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contest/session", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "abc", resp.Header.Get("X-Session-ID"))

	var body struct {
		Success bool                `json:"success"`
		Data    dto.SessionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, service.DefaultPrompt, body.Data.Prompt)
}

func TestContestHandler_GenerateForwardsFormFields(t *testing.T) {
	svc := &mockContestService{generateResponse: dto.SessionResponse{SessionID: "abc", State: "image_ready"}}
	app := newContestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/contest/generate", dto.GenerateRequest{Name: "Alex", Prompt: "Eine Stadt"})
	req.Header.Set("X-Session-ID", "abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "abc", svc.lastSessionID)
	require.Equal(t, "Alex", svc.lastRequest.Name)
	require.Equal(t, "Eine Stadt", svc.lastRequest.Prompt)
}

func TestContestHandler_GenerateValidationFailure(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validationErr := validate.Struct(dto.GenerateRequest{})
	require.Error(t, validationErr)

	svc := &mockContestService{generateErr: validationErr, openResponse: dto.SessionResponse{SessionID: "abc"}}
	app := newContestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/contest/generate", dto.GenerateRequest{Prompt: "Eine Stadt"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "name is required", body.Message)
}

func TestContestHandler_GenerateRemoteFailure(t *testing.T) {
	svc := &mockContestService{generateErr: &ai.GenerationError{Err: errors.New("quota exceeded")}}
	app := newContestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/contest/generate", dto.GenerateRequest{Name: "Alex"})
	req.Header.Set("X-Session-ID", "abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.Contains(t, body.Message, "quota exceeded")
}

func TestContestHandler_SubmitSuccess(t *testing.T) {
	svc := &mockContestService{submitResponse: dto.SubmitResponse{
		SessionID: "abc",
		Name:      "Alex",
		Evaluation: dto.EvaluationResponse{
			Creativity:     8,
			ThemeRelevance: 9,
			VisionQuality:  7,
			TotalScore:     24,
			Feedback:       "Sehr schön!",
		},
	}}
	app := newContestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contest/submit", nil)
	req.Header.Set("X-Session-ID", "abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool               `json:"success"`
		Data    dto.SubmitResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, 24, body.Data.Evaluation.TotalScore)
}

func TestContestHandler_SubmitWithoutImage(t *testing.T) {
	svc := &mockContestService{submitErr: service.ErrNoImagePending}
	app := newContestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contest/submit", nil)
	req.Header.Set("X-Session-ID", "abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestContestHandler_SubmitUnknownSession(t *testing.T) {
	svc := &mockContestService{submitErr: service.ErrSessionNotFound}
	app := newContestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contest/submit", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestContestHandler_Reset(t *testing.T) {
	svc := &mockContestService{resetResponse: dto.SessionResponse{SessionID: "abc", State: "idle", Prompt: service.DefaultPrompt}}
	app := newContestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contest/reset", nil)
	req.Header.Set("X-Session-ID", "abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.SessionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "idle", body.Data.State)
	require.Equal(t, service.DefaultPrompt, body.Data.Prompt)
}
