package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightclaim/internal/auth"
	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/service/wizard"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWizardUseCase is a mock implementation of wizard.WizardUseCase
type MockWizardUseCase struct {
	mock.Mock
}

func (m *MockWizardUseCase) Start(ctx context.Context) (*wizard.Draft, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Draft), args.Error(1)
}

func (m *MockWizardUseCase) Get(ctx context.Context, id string) (*wizard.View, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.View), args.Error(1)
}

func (m *MockWizardUseCase) Advance(ctx context.Context, id string, in wizard.Input) (*wizard.Draft, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Draft), args.Error(1)
}

func (m *MockWizardUseCase) Back(ctx context.Context, id string) (*wizard.Draft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.Draft), args.Error(1)
}

func (m *MockWizardUseCase) Review(ctx context.Context, id string) (*wizard.ReviewView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.ReviewView), args.Error(1)
}

func (m *MockWizardUseCase) Submit(ctx context.Context, id, userID string) (*wizard.SubmitOutcome, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wizard.SubmitOutcome), args.Error(1)
}

func newTestContext(method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWizardHandler_start(t *testing.T) {
	mockService := &MockWizardUseCase{}
	handler := NewWizardHandler(mockService)
	c, w := newTestContext(http.MethodPost, "/api/v1/wizard", nil)

	draft := wizard.NewDraft("d-1", time.Now())
	mockService.On("Start", mock.Anything).Return(draft, nil).Once()

	handler.start(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "d-1", body["id"])
	assert.Equal(t, "select_type", body["step"])
	assert.Equal(t, false, body["can_go_back"])
	mockService.AssertExpectations(t)
}

func TestWizardHandler_get_NotFound(t *testing.T) {
	mockService := &MockWizardUseCase{}
	handler := NewWizardHandler(mockService)
	c, w := newTestContext(http.MethodGet, "/api/v1/wizard/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	mockService.On("Get", mock.Anything, "missing").Return(nil, wizard.ErrDraftNotFound).Once()

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
}

func TestWizardHandler_selectType(t *testing.T) {
	mockService := &MockWizardUseCase{}
	handler := NewWizardHandler(mockService)
	c, w := newTestContext(http.MethodPut, "/api/v1/wizard/d-1/type", map[string]string{"claim_type": "delay"})
	c.Params = gin.Params{{Key: "id", Value: "d-1"}}

	draft := wizard.NewDraft("d-1", time.Now())
	require.NoError(t, draft.Advance(wizard.SelectTypeInput{ClaimType: domain.ClaimTypeDelay}, time.Now()))
	mockService.On("Advance", mock.Anything, "d-1", wizard.SelectTypeInput{ClaimType: domain.ClaimTypeDelay}).Return(draft, nil).Once()

	handler.selectType(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "flight_details", body["step"])
	assert.Equal(t, "delay", body["claim_type"])
	mockService.AssertExpectations(t)
}

func TestWizardHandler_flight_ValidationError(t *testing.T) {
	mockService := &MockWizardUseCase{}
	handler := NewWizardHandler(mockService)
	c, w := newTestContext(http.MethodPut, "/api/v1/wizard/d-1/flight", map[string]interface{}{"flight_number": "BA123"})
	c.Params = gin.Params{{Key: "id", Value: "d-1"}}

	validationErr := &wizard.ValidationError{Fields: []wizard.FieldError{{Field: "departure_date", Rule: "required"}}}
	mockService.On("Advance", mock.Anything, "d-1", mock.AnythingOfType("wizard.FlightInput")).Return(nil, validationErr).Once()

	handler.flight(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	fields := body["fields"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "departure_date", fields[0].(map[string]interface{})["field"])
}

func TestWizardHandler_personal_MalformedBody(t *testing.T) {
	mockService := &MockWizardUseCase{}
	handler := NewWizardHandler(mockService)
	c, w := newTestContext(http.MethodPut, "/api/v1/wizard/d-1/personal", "{not json")
	c.Params = gin.Params{{Key: "id", Value: "d-1"}}

	handler.personal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything, mock.Anything)
}

func TestWizardHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "wrong step", err: wizard.ErrInvalidTransition, status: http.StatusBadRequest},
		{name: "terminal", err: wizard.ErrTerminal, status: http.StatusConflict},
		{name: "store failure", err: errors.New("redis down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockWizardUseCase{}
			handler := NewWizardHandler(mockService)
			c, w := newTestContext(http.MethodPost, "/api/v1/wizard/d-1/back", nil)
			c.Params = gin.Params{{Key: "id", Value: "d-1"}}

			mockService.On("Back", mock.Anything, "d-1").Return(nil, tt.err).Once()

			handler.back(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestWizardHandler_review(t *testing.T) {
	mockService := &MockWizardUseCase{}
	handler := NewWizardHandler(mockService)
	c, w := newTestContext(http.MethodGet, "/api/v1/wizard/d-1/review", nil)
	c.Params = gin.Params{{Key: "id", Value: "d-1"}}

	mockService.On("Review", mock.Anything, "d-1").Return(&wizard.ReviewView{FlightNumber: "BA123", Route: "London → Paris"}, nil).Once()

	handler.review(c)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "BA123", body["flight_number"])
}

func TestWizardHandler_submit(t *testing.T) {
	completed := wizard.NewDraft("d-1", time.Now())
	completed.Step = wizard.StepSuccess
	completed.ClaimID = "AH123456"

	tests := []struct {
		name    string
		userID  string
		outcome *wizard.SubmitOutcome
		status  int
	}{
		{
			name:   "success",
			userID: "user-1",
			outcome: &wizard.SubmitOutcome{
				Result: domain.SubmitResult{Success: true, ClaimID: "c1", ClaimReference: "CR1A2B3C4D", Compensation: 500},
				Draft:  completed,
			},
			status: http.StatusOK,
		},
		{
			name:    "stage failure",
			userID:  "user-1",
			outcome: &wizard.SubmitOutcome{Result: domain.SubmitResult{Error: "boom", Stage: domain.StagePaymentDetails, ClaimID: "c1"}},
			status:  http.StatusBadGateway,
		},
		{
			name:    "anonymous",
			userID:  "",
			outcome: &wizard.SubmitOutcome{Result: domain.SubmitResult{Error: "authentication required", Stage: domain.StageAuth}},
			status:  http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockWizardUseCase{}
			handler := NewWizardHandler(mockService)
			c, w := newTestContext(http.MethodPost, "/api/v1/wizard/d-1/submit", nil)
			c.Params = gin.Params{{Key: "id", Value: "d-1"}}
			if tt.userID != "" {
				auth.SetUserID(c, tt.userID)
			}

			mockService.On("Submit", mock.Anything, "d-1", tt.userID).Return(tt.outcome, nil).Once()

			handler.submit(c)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.outcome.Result.Success, body["success"])
			if tt.outcome.Result.Success {
				assert.Equal(t, "CR1A2B3C4D", body["claim_reference"])
				assert.Equal(t, "success", body["draft"].(map[string]interface{})["step"])
			} else {
				assert.Equal(t, string(tt.outcome.Result.Stage), body["failed_stage"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestWizardHandler_Register(t *testing.T) {
	mockService := &MockWizardUseCase{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewWizardHandler(mockService).Register(r.Group("/api/v1/wizard"))

	mockService.On("Get", mock.Anything, "d-9").Return(&wizard.View{ID: "d-9", Step: wizard.StepReview}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wizard/d-9", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"review"`)
}
