// Package user содержит бизнес-логику работы с учётными записями клиентов:
// регистрацию, обновление анкетных и паспортных данных и чтение с кешированием.
package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/passport"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// ErrInvalidBirthDate — дата рождения не разбирается в календарную дату.
var ErrInvalidBirthDate = errors.New("birth date must be a valid date in format 2006-01-02")

// birthDateLayout — формат даты рождения, в котором её присылает клиент.
const birthDateLayout = "2006-01-02"

// cacheTTL — время жизни учётной записи в кеше.
const cacheTTL = time.Hour

// UserRepository определяет методы хранилища учётных записей.
type UserRepository interface {
	// CreateUser сохраняет новую запись и возвращает её в полном виде.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// ExistsByPhone проверяет наличие записи по номеру телефона.
	ExistsByPhone(ctx context.Context, phoneNumber string) (bool, error)
	// GetUserByPhone возвращает запись по номеру телефона.
	GetUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	// GetUserByUID возвращает запись по идентификатору.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	// ListUsers возвращает все записи.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// UpdateName заменяет ФИО и дату рождения.
	UpdateName(ctx context.Context, phoneNumber, surname, name, patronymic string, birthDate time.Time) (*models.User, error)
	// UpdatePassport заменяет паспортные данные целиком.
	UpdatePassport(ctx context.Context, phoneNumber string, p models.Passport, photoURL *string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// PhotoStore описывает хранилище фотографий паспортов.
type PhotoStore interface {
	// SavePassportPhoto сохраняет файл и возвращает публичный путь к нему.
	SavePassportPhoto(phoneNumber, originalName string, src io.Reader) (string, error)
}

// Photo — загружаемая фотография паспорта.
type Photo struct {
	OriginalName string
	Data         io.Reader
}

// UserService реализует бизнес-логику работы с учётными записями.
type UserService struct {
	repo   UserRepository
	cache  Cache
	photos PhotoStore
	log    *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, cache Cache, photos PhotoStore, log *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  cache,
		photos: photos,
		log:    log,
	}
}

// CheckExists сообщает, есть ли учётная запись с таким номером телефона.
// Побочных эффектов нет, кеш не используется.
func (s *UserService) CheckExists(ctx context.Context, phoneNumber string) (bool, error) {
	return s.repo.ExistsByPhone(ctx, phoneNumber)
}

// Register создаёт учётную запись. ФИО нормализуется к раздельным полям:
// раздельные поля имеют приоритет, устаревшее fullName разбивается один раз
// на границе. Паспорт и дата рождения необязательны.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	surname, name, patronymic := req.Surname, req.Name, req.Patronymic
	if surname == "" && name == "" && patronymic == "" && req.FullName != "" {
		surname, name, patronymic = models.SplitFullName(req.FullName)
	}

	now := time.Now()
	u := models.User{
		PhoneNumber: req.PhoneNumber,
		Surname:     surname,
		Name:        name,
		Patronymic:  patronymic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.BirthDate != "" {
		birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidBirthDate, req.BirthDate)
		}
		u.BirthDate = &birthDate
	}

	if req.Passport != nil {
		issueDate, err := passport.ParseIssueDate(req.Passport.IssueDate, now)
		if err != nil {
			return nil, err
		}
		if err = passport.ValidateDeptCode(req.Passport.IssuedBy); err != nil {
			return nil, err
		}
		u.Passport = &models.Passport{
			Number:    req.Passport.Number,
			IssuedBy:  req.Passport.IssuedBy,
			IssueDate: issueDate,
		}
	}

	created, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("registered new user", slog.String("uid", created.UID))

	s.cacheUser(created)
	return created, nil
}

// GetByPhone возвращает учётную запись по номеру телефона, используя кеш.
func (s *UserService) GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	var cached *models.User
	cacheKey := phoneKey(phoneNumber)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	u, err := s.repo.GetUserByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	s.cacheUser(u)
	return u, nil
}

// GetByUID возвращает учётную запись по идентификатору, используя кеш.
func (s *UserService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	var cached *models.User
	cacheKey := uidKey(uid)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	u, err := s.repo.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	s.cacheUser(u)
	return u, nil
}

// List возвращает все учётные записи.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateName заменяет ФИО и дату рождения. Это замена, а не слияние:
// отсутствующее отчество записывается пустой строкой.
func (s *UserService) UpdateName(ctx context.Context, req models.UpdateNameRequest) (*models.User, error) {
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBirthDate, req.BirthDate)
	}

	u, err := s.repo.UpdateName(ctx, req.PhoneNumber, req.Surname, req.Name, req.Patronymic, birthDate)
	if err != nil {
		return nil, err
	}

	s.invalidateUser(u)
	s.cacheUser(u)
	return u, nil
}

// UpdatePassport проверяет паспортные данные, при наличии фото сохраняет его
// в хранилище файлов и заменяет паспорт в учётной записи целиком.
// При ошибке валидации запись не меняется.
func (s *UserService) UpdatePassport(ctx context.Context, form models.UpdatePassportForm, photo *Photo) (*models.User, error) {
	number, err := passport.FullNumber(form.Series, form.Number)
	if err != nil {
		return nil, err
	}
	if err = passport.ValidateDeptCode(form.DeptCode); err != nil {
		return nil, err
	}
	issueDate, err := passport.ParseIssueDate(form.IssueDate, time.Now())
	if err != nil {
		return nil, err
	}

	var photoURL *string
	if photo != nil {
		url, err := s.photos.SavePassportPhoto(form.PhoneNumber, photo.OriginalName, photo.Data)
		if err != nil {
			return nil, err
		}
		photoURL = &url
		s.log.Info("saved passport photo", slog.String("url", url))
	}

	p := models.Passport{
		Number:    number,
		IssuedBy:  form.DeptCode,
		IssueDate: issueDate,
	}
	u, err := s.repo.UpdatePassport(ctx, form.PhoneNumber, p, photoURL)
	if err != nil {
		return nil, err
	}

	s.invalidateUser(u)
	s.cacheUser(u)
	return u, nil
}

func (s *UserService) cacheUser(u *models.User) {
	for _, key := range []string{phoneKey(u.PhoneNumber), uidKey(u.UID)} {
		if err := s.cache.Set(key, u, cacheTTL); err != nil {
			s.log.Warn("failed to cache user", slog.String("key", key), slog.Any("err", err))
		}
	}
}

func (s *UserService) invalidateUser(u *models.User) {
	for _, key := range []string{phoneKey(u.PhoneNumber), uidKey(u.UID)} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}

func phoneKey(phoneNumber string) string {
	return fmt.Sprintf("user:phone:%s", phoneNumber)
}

func uidKey(uid string) string {
	return fmt.Sprintf("user:uid:%s", uid)
}
