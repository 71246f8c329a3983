package check

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// MockService реализует интерфейс check.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CheckExists(ctx context.Context, phoneNumber string) (bool, error) {
	args := m.Called(ctx, phoneNumber)
	return args.Bool(0), args.Error(1)
}

func TestCheckHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "запись существует",
			requestBody: models.CheckRequest{PhoneNumber: "+79991112233"},
			setupMock: func(m *MockService) {
				m.On("CheckExists", mock.Anything, "+79991112233").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"exists":true`,
		},
		{
			name:        "записи нет",
			requestBody: models.CheckRequest{PhoneNumber: "+79990000000"},
			setupMock: func(m *MockService) {
				m.On("CheckExists", mock.Anything, "+79990000000").Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"exists":false`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "пустой номер телефона",
			requestBody:    models.CheckRequest{PhoneNumber: ""},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field PhoneNumber is a required field`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: models.CheckRequest{PhoneNumber: "+79991112233"},
			setupMock: func(m *MockService) {
				m.On("CheckExists", mock.Anything, "+79991112233").Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not check user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/users/check", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
