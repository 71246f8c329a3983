package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-membership/internal/lib/passport"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ExistsByPhone(ctx context.Context, phoneNumber string) (bool, error) {
	args := m.Called(ctx, phoneNumber)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UpdateName(ctx context.Context, phoneNumber, surname, name, patronymic string, birthDate time.Time) (*models.User, error) {
	args := m.Called(ctx, phoneNumber, surname, name, patronymic, birthDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdatePassport(ctx context.Context, phoneNumber string, p models.Passport, photoURL *string) (*models.User, error) {
	args := m.Called(ctx, phoneNumber, p, photoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PhotoStoreMock struct{ mock.Mock }

func (m *PhotoStoreMock) SavePassportPhoto(phoneNumber, originalName string, src io.Reader) (string, error) {
	args := m.Called(phoneNumber, originalName, src)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *RepoMock, c *CacheMock, photos *PhotoStoreMock) *UserService {
	return NewUserService(repo, c, photos, newNoopLogger())
}

func TestUserService_Register_SplitFieldsWin(t *testing.T) {
	repo := &RepoMock{}
	c := &CacheMock{}
	svc := newService(repo, c, &PhotoStoreMock{})

	created := &models.User{UID: "uid-1", PhoneNumber: "+79991112233", Surname: "Petrov", Name: "Petr"}
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Surname == "Petrov" && u.Name == "Petr" && u.Patronymic == ""
	})).Return(created, nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Register(context.Background(), models.RegisterRequest{
		PhoneNumber: "+79991112233",
		FullName:    "Ivanov Ivan Ivanovich", // раздельные поля важнее
		Surname:     "Petrov",
		Name:        "Petr",
	})

	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	repo.AssertExpectations(t)
}

func TestUserService_Register_FullNameNormalized(t *testing.T) {
	repo := &RepoMock{}
	c := &CacheMock{}
	svc := newService(repo, c, &PhotoStoreMock{})

	created := &models.User{UID: "uid-1", PhoneNumber: "+79991112233"}
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Surname == "Ivanov" && u.Name == "Ivan" && u.Patronymic == "Ivanovich"
	})).Return(created, nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		PhoneNumber: "+79991112233",
		FullName:    "Ivanov Ivan Ivanovich",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserService_Register_Conflict(t *testing.T) {
	repo := &RepoMock{}
	svc := newService(repo, &CacheMock{}, &PhotoStoreMock{})

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, repository.ErrUserExists)

	_, err := svc.Register(context.Background(), models.RegisterRequest{PhoneNumber: "+79991112233"})

	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestUserService_Register_InvalidBirthDate(t *testing.T) {
	repo := &RepoMock{}
	svc := newService(repo, &CacheMock{}, &PhotoStoreMock{})

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		PhoneNumber: "+79991112233",
		BirthDate:   "31.12.1990",
	})

	assert.ErrorIs(t, err, ErrInvalidBirthDate)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserService_GetByPhone_CacheHit(t *testing.T) {
	repo := &RepoMock{}
	c := &CacheMock{}
	svc := newService(repo, c, &PhotoStoreMock{})

	cached := &models.User{UID: "uid-1", PhoneNumber: "+79991112233"}
	c.On("Get", "user:phone:+79991112233", mock.Anything).
		Run(func(args mock.Arguments) {
			ptr := args.Get(1).(**models.User)
			*ptr = cached
		}).
		Return(true, nil)

	got, err := svc.GetByPhone(context.Background(), "+79991112233")

	require.NoError(t, err)
	assert.Equal(t, cached.UID, got.UID)
	repo.AssertNotCalled(t, "GetUserByPhone", mock.Anything, mock.Anything)
}

func TestUserService_GetByPhone_CacheMiss(t *testing.T) {
	repo := &RepoMock{}
	c := &CacheMock{}
	svc := newService(repo, c, &PhotoStoreMock{})

	u := &models.User{UID: "uid-1", PhoneNumber: "+79991112233"}
	c.On("Get", "user:phone:+79991112233", mock.Anything).Return(false, nil)
	repo.On("GetUserByPhone", mock.Anything, "+79991112233").Return(u, nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.GetByPhone(context.Background(), "+79991112233")

	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)
	repo.AssertExpectations(t)
}

func TestUserService_UpdateName(t *testing.T) {
	repo := &RepoMock{}
	c := &CacheMock{}
	svc := newService(repo, c, &PhotoStoreMock{})

	birthDate := time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC)
	updated := &models.User{UID: "uid-1", PhoneNumber: "+79991112233", Surname: "Ivanov", Name: "Ivan"}
	repo.On("UpdateName", mock.Anything, "+79991112233", "Ivanov", "Ivan", "", birthDate).Return(updated, nil)
	c.On("Invalidate", mock.Anything).Return(nil)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.UpdateName(context.Background(), models.UpdateNameRequest{
		PhoneNumber: "+79991112233",
		Surname:     "Ivanov",
		Name:        "Ivan",
		BirthDate:   "1990-12-31",
	})

	require.NoError(t, err)
	assert.Equal(t, "uid-1", got.UID)
	repo.AssertExpectations(t)
}

func TestUserService_UpdateName_InvalidBirthDate(t *testing.T) {
	repo := &RepoMock{}
	svc := newService(repo, &CacheMock{}, &PhotoStoreMock{})

	_, err := svc.UpdateName(context.Background(), models.UpdateNameRequest{
		PhoneNumber: "+79991112233",
		Surname:     "Ivanov",
		Name:        "Ivan",
		BirthDate:   "not-a-date",
	})

	assert.ErrorIs(t, err, ErrInvalidBirthDate)
	repo.AssertNotCalled(t, "UpdateName",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdatePassport(t *testing.T) {
	tests := []struct {
		name       string
		form       models.UpdatePassportForm
		photo      *Photo
		setupMocks func(r *RepoMock, p *PhotoStoreMock)
		wantErr    error
	}{
		{
			name: "успешное обновление без фото",
			form: models.UpdatePassportForm{
				PhoneNumber: "+79991112233",
				Series:      "1234",
				Number:      "567890",
				IssueDate:   "15.03.2020",
				DeptCode:    "123-456",
			},
			setupMocks: func(r *RepoMock, _ *PhotoStoreMock) {
				r.On("UpdatePassport", mock.Anything, "+79991112233",
					mock.MatchedBy(func(p models.Passport) bool {
						return p.Number == "1234567890" && p.IssuedBy == "123-456"
					}),
					(*string)(nil)).
					Return(&models.User{UID: "uid-1", PhoneNumber: "+79991112233"}, nil)
			},
		},
		{
			name: "успешное обновление с фото",
			form: models.UpdatePassportForm{
				PhoneNumber: "+79991112233",
				Series:      "1234",
				Number:      "567890",
				IssueDate:   "15.03.2020",
				DeptCode:    "123-456",
			},
			photo: &Photo{OriginalName: "passport.jpg", Data: strings.NewReader("jpeg")},
			setupMocks: func(r *RepoMock, p *PhotoStoreMock) {
				p.On("SavePassportPhoto", "+79991112233", "passport.jpg", mock.Anything).
					Return("/uploads/passports/+79991112233_1700000000000.jpg", nil)
				r.On("UpdatePassport", mock.Anything, "+79991112233", mock.Anything,
					mock.MatchedBy(func(url *string) bool { return url != nil && *url != "" })).
					Return(&models.User{UID: "uid-1", PhoneNumber: "+79991112233"}, nil)
			},
		},
		{
			name: "некорректная серия",
			form: models.UpdatePassportForm{
				PhoneNumber: "+79991112233",
				Series:      "12",
				Number:      "567890",
				IssueDate:   "15.03.2020",
				DeptCode:    "123-456",
			},
			setupMocks: func(_ *RepoMock, _ *PhotoStoreMock) {},
			wantErr:    passport.ErrInvalidSeries,
		},
		{
			name: "несуществующая дата выдачи",
			form: models.UpdatePassportForm{
				PhoneNumber: "+79991112233",
				Series:      "1234",
				Number:      "567890",
				IssueDate:   "31.02.2024",
				DeptCode:    "123-456",
			},
			setupMocks: func(_ *RepoMock, _ *PhotoStoreMock) {},
			wantErr:    passport.ErrInvalidIssueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			c := &CacheMock{}
			photos := &PhotoStoreMock{}
			tt.setupMocks(repo, photos)
			c.On("Invalidate", mock.Anything).Return(nil)
			c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			svc := newService(repo, c, photos)
			_, err := svc.UpdatePassport(context.Background(), tt.form, tt.photo)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// запись не должна меняться при ошибке валидации
				repo.AssertNotCalled(t, "UpdatePassport",
					mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
			photos.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdatePassport_NotFound(t *testing.T) {
	repo := &RepoMock{}
	c := &CacheMock{}
	svc := newService(repo, c, &PhotoStoreMock{})

	repo.On("UpdatePassport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound)

	_, err := svc.UpdatePassport(context.Background(), models.UpdatePassportForm{
		PhoneNumber: "+79990000000",
		Series:      "1234",
		Number:      "567890",
		IssueDate:   "15.03.2020",
		DeptCode:    "123-456",
	}, nil)

	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserService_CheckExists(t *testing.T) {
	repo := &RepoMock{}
	svc := newService(repo, &CacheMock{}, &PhotoStoreMock{})

	repo.On("ExistsByPhone", mock.Anything, "+79991112233").Return(true, nil)
	repo.On("ExistsByPhone", mock.Anything, "+79990000000").Return(false, nil)

	exists, err := svc.CheckExists(context.Background(), "+79991112233")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckExists(context.Background(), "+79990000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserService_Register_RepoError(t *testing.T) {
	repo := &RepoMock{}
	svc := newService(repo, &CacheMock{}, &PhotoStoreMock{})

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Register(context.Background(), models.RegisterRequest{PhoneNumber: "+79991112233"})

	assert.Error(t, err)
}
