package handler_test

import (
	"context"
	"errors"
	"intake/internal/api/handler"
	"intake/internal/intake"
	mockintake "intake/internal/intake/mock"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"intake/pkg/serrors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	if err := logger.Setup(logger.DevelopmentEnvironment, "error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newHandler(t *testing.T) *handler.Handler {
	t.Helper()
	p, err := intake.New(intake.Options{})
	require.NoError(t, err)

	return handler.New(handler.Deps{Processor: p})
}

func post(h http.HandlerFunc, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h(rec, req)

	return rec
}

func TestProcessForm_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "valid registration",
			contentType: "application/json",
			body:        `{"name":"Ana","email":"a@x.com"}`,
			wantStatus:  http.StatusOK,
			wantBody: `{"message":"Data received and processed successfully by Flask!",` +
				`"processed_data":"Welcome, Ana! Your registration for a@x.com has been processed."}`,
		},
		{
			name:        "charset parameter is accepted",
			contentType: "application/json; charset=utf-8",
			body:        `{"name":"Ana","email":"a@x.com"}`,
			wantStatus:  http.StatusOK,
			wantBody: `{"message":"Data received and processed successfully by Flask!",` +
				`"processed_data":"Welcome, Ana! Your registration for a@x.com has been processed."}`,
		},
		{
			name:        "empty name",
			contentType: "application/json",
			body:        `{"name":"","email":"a@x.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Both name and email are required fields"}`,
		},
		{
			name:        "missing email",
			contentType: "application/json",
			body:        `{"name":"Ana"}`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Both name and email are required fields"}`,
		},
		{
			name:        "null email",
			contentType: "application/json",
			body:        `{"name":"Ana","email":null}`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Both name and email are required fields"}`,
		},
		{
			name:        "not json with wrong content type",
			contentType: "text/plain",
			body:        `not json`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Request must be JSON"}`,
		},
		{
			name:       "valid json without content type",
			body:       `{"name":"Ana","email":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Request must be JSON"}`,
		},
		{
			name:        "malformed json with json content type",
			contentType: "application/json",
			body:        `{"name":"Ana",`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Request must be JSON"}`,
		},
		{
			name:        "json array",
			contentType: "application/json",
			body:        `[{"name":"Ana","email":"a@x.com"}]`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Request must be JSON"}`,
		},
		{
			name:        "vendor json media type",
			contentType: "application/vnd.api+json",
			body:        `{"name":"Ana","email":"a@x.com"}`,
			wantStatus:  http.StatusOK,
			wantBody: `{"message":"Data received and processed successfully by Flask!",` +
				`"processed_data":"Welcome, Ana! Your registration for a@x.com has been processed."}`,
		},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.ProcessForm, tt.contentType, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			require.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestProcessForm_BodyTooLarge(t *testing.T) {
	p, err := intake.New(intake.Options{})
	require.NoError(t, err)
	h := handler.New(handler.Deps{Processor: p, MaxBodyBytes: 16})

	rec := post(h.ProcessForm, "application/json", `{"name":"Ana","email":"a@x.com"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.JSONEq(t, `{"error":"Request body too large"}`, rec.Body.String())
}

func TestProcessForm_DelegatesToProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockintake.NewMockProcessor(ctrl)
	h := handler.New(handler.Deps{Processor: m})

	m.EXPECT().
		Process(gomock.Any(), domain.RegistrationRequest{Name: "Ana", Email: "a@x.com"}).
		Return(&domain.RegistrationResponse{Message: "m", ProcessedData: "p"}, nil)

	rec := post(h.ProcessForm, "application/json", `{"email":"a@x.com","name":"Ana","extra":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"m","processed_data":"p"}`, rec.Body.String())
}

func TestProcessForm_MalformedBodyNeverReachesProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockintake.NewMockProcessor(ctrl)
	h := handler.New(handler.Deps{Processor: m})

	m.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)

	rec := post(h.ProcessForm, "application/json", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessForm_ProcessorFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockintake.NewMockProcessor(ctrl)
	h := handler.New(handler.Deps{Processor: m})

	m.EXPECT().Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.RegistrationRequest) (*domain.RegistrationResponse, error) {
			return nil, errors.New("metrics exporter exploded")
		})

	rec := post(h.ProcessForm, "application/json", `{"name":"Ana","email":"a@x.com"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestProcessForm_ProcessorKindIsMapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mockintake.NewMockProcessor(ctrl)
	h := handler.New(handler.Deps{Processor: m})

	m.EXPECT().Process(gomock.Any(), gomock.Any()).
		Return(nil, serrors.With(serrors.ErrMissingField, intake.MissingFieldMessage))

	rec := post(h.ProcessForm, "application/json", `{"name":"Ana","email":"a@x.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"Both name and email are required fields"}`, rec.Body.String())
}

func TestHealthCheck_AlwaysHealthy(t *testing.T) {
	h := newHandler(t)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	}
}

func TestIsJSONContentType(t *testing.T) {
	for ct, want := range map[string]bool{
		"application/json":                  true,
		"Application/JSON":                  true,
		"application/json; charset=utf-8":   true,
		"application/problem+json":          true,
		"text/json":                         false,
		"text/plain":                        false,
		"application/x-www-form-urlencoded": false,
		"":                                  false,
		";;;":                               false,
	} {
		require.Equal(t, want, handler.IsJSONContentType(ct), ct)
	}
}
