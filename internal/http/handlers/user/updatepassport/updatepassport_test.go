package updatepassport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	passportlib "github.com/magabrotheeeer/gym-membership/internal/lib/passport"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	userservice "github.com/magabrotheeeer/gym-membership/internal/services/user"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// MockService реализует интерфейс updatepassport.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdatePassport(ctx context.Context, form models.UpdatePassportForm, photo *userservice.Photo) (*models.User, error) {
	args := m.Called(ctx, form, photo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func buildForm(t *testing.T, fields map[string]string, photoName string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photoName != "" {
		fw, err := mw.CreateFormFile("passportPhoto", photoName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, "jpeg-bytes")
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUpdatePassportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validFields := map[string]string{
		"phoneNumber": "+79991112233",
		"series":      "1234",
		"number":      "567890",
		"issueDate":   "15.03.2020",
		"deptCode":    "123-456",
	}

	tests := []struct {
		name           string
		fields         map[string]string
		photoName      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное обновление без фото",
			fields: validFields,
			setupMock: func(m *MockService) {
				m.On("UpdatePassport", mock.Anything,
					mock.MatchedBy(func(f models.UpdatePassportForm) bool {
						return f.PhoneNumber == "+79991112233" && f.Series == "1234" && f.Number == "567890"
					}),
					(*userservice.Photo)(nil)).
					Return(&models.User{UID: "uid-1", PhoneNumber: "+79991112233"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"uid":"uid-1"`,
		},
		{
			name:      "успешное обновление с фото",
			fields:    validFields,
			photoName: "passport.jpg",
			setupMock: func(m *MockService) {
				m.On("UpdatePassport", mock.Anything, mock.AnythingOfType("models.UpdatePassportForm"),
					mock.MatchedBy(func(p *userservice.Photo) bool {
						return p != nil && p.OriginalName == "passport.jpg"
					})).
					Return(&models.User{UID: "uid-1", PhoneNumber: "+79991112233"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"uid":"uid-1"`,
		},
		{
			name: "короткая серия",
			fields: map[string]string{
				"phoneNumber": "+79991112233",
				"series":      "12",
				"number":      "567890",
				"issueDate":   "15.03.2020",
				"deptCode":    "123-456",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Series must have length 4`,
		},
		{
			name: "отсутствует номер телефона",
			fields: map[string]string{
				"series":    "1234",
				"number":    "567890",
				"issueDate": "15.03.2020",
				"deptCode":  "123-456",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field PhoneNumber is a required field`,
		},
		{
			name:   "несуществующая дата выдачи",
			fields: validFields,
			setupMock: func(m *MockService) {
				m.On("UpdatePassport", mock.Anything, mock.AnythingOfType("models.UpdatePassportForm"),
					(*userservice.Photo)(nil)).
					Return(nil, passportlib.ErrInvalidIssueDate)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `issue date`,
		},
		{
			name:   "запись не найдена",
			fields: validFields,
			setupMock: func(m *MockService) {
				m.On("UpdatePassport", mock.Anything, mock.AnythingOfType("models.UpdatePassportForm"),
					(*userservice.Photo)(nil)).
					Return(nil, repository.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:   "ошибка сервиса",
			fields: validFields,
			setupMock: func(m *MockService) {
				m.On("UpdatePassport", mock.Anything, mock.AnythingOfType("models.UpdatePassportForm"),
					(*userservice.Photo)(nil)).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not update passport"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body, contentType := buildForm(t, tt.fields, tt.photoName)
			req := httptest.NewRequest(http.MethodPost, "/users/update-passport", body)
			req.Header.Set("Content-Type", contentType)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
