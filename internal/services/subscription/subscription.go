// Package subscription содержит бизнес-логику назначения и продления
// абонементов и вычисления их статуса.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-membership/internal/lib/month"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// ErrEmptyKey — не задан ни идентификатор записи, ни номер телефона.
var ErrEmptyKey = errors.New("either uid or phone number is required")

// SubscriptionRepository определяет методы хранилища для работы с абонементами.
type SubscriptionRepository interface {
	// UpdateSubscriptionByUID заменяет абонемент по идентификатору записи.
	UpdateSubscriptionByUID(ctx context.Context, uid string, sub models.Subscription) (*models.User, error)
	// UpdateSubscriptionByPhone заменяет абонемент по номеру телефона.
	UpdateSubscriptionByPhone(ctx context.Context, phoneNumber string, sub models.Subscription) (*models.User, error)
	// GetUserByUID возвращает запись по идентификатору.
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// Cache описывает методы для инвалидации кеша учётных записей.
type Cache interface {
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Key — ключ выбора учётной записи. Исторически существуют два маршрута
// обновления абонемента: по идентификатору и по номеру телефона,
// оба обслуживаются одним методом сервиса.
type Key struct {
	UID         string
	PhoneNumber string
}

// Status — вычисленный статус абонемента. Признак активности нигде
// не хранится и определяется в момент запроса.
type Status struct {
	Active       bool
	Subscription *models.Subscription
}

// SubscriptionService реализует бизнес-логику работы с абонементами.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Subscribe назначает или продлевает абонемент. Дата начала — момент вызова,
// дата окончания — начало плюс заданное число календарных месяцев.
// Прежний абонемент заменяется целиком, неиспользованное время сгорает:
// ни переносов, ни льготных периодов нет.
func (s *SubscriptionService) Subscribe(ctx context.Context, key Key, plan string, durationInMonths int) (*models.User, error) {
	startDate := time.Now()
	sub := models.Subscription{
		Plan:      plan,
		Duration:  fmt.Sprintf("%d мес.", durationInMonths),
		StartDate: startDate,
		EndDate:   month.AddMonths(startDate, durationInMonths),
	}

	var u *models.User
	var err error
	switch {
	case key.UID != "":
		u, err = s.repo.UpdateSubscriptionByUID(ctx, key.UID, sub)
	case key.PhoneNumber != "":
		u, err = s.repo.UpdateSubscriptionByPhone(ctx, key.PhoneNumber, sub)
	default:
		return nil, ErrEmptyKey
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription updated",
		slog.String("uid", u.UID),
		slog.String("plan", sub.Plan),
		slog.Time("end_date", sub.EndDate))

	for _, cacheKey := range []string{
		fmt.Sprintf("user:phone:%s", u.PhoneNumber),
		fmt.Sprintf("user:uid:%s", u.UID),
	} {
		if err := s.cache.Invalidate(cacheKey); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return u, nil
}

// GetStatus вычисляет статус абонемента: активен, пока дата окончания
// строго в будущем. Для неизвестной записи и записи без абонемента
// возвращается неактивный статус без ошибки.
func (s *SubscriptionService) GetStatus(ctx context.Context, uid string) (*Status, error) {
	u, err := s.repo.GetUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return &Status{Active: false}, nil
		}
		return nil, err
	}
	if u.Subscription == nil {
		return &Status{Active: false}, nil
	}
	return &Status{
		Active:       month.IsActive(u.Subscription.EndDate, time.Now()),
		Subscription: u.Subscription,
	}, nil
}
