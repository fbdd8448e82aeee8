// Package account содержит бизнес-логику административного изменения
// тарифа пользователя.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
	"github.com/reiseplaner/reiseplaner-sub001/internal/subscription"
)

// ErrUserNotFound возвращается, когда email не принадлежит ни одному пользователю.
var ErrUserNotFound = errors.New("user not found")

// ErrUnknownStatus возвращается на неизвестное значение тарифа.
var ErrUnknownStatus = errors.New("unknown subscription status")

// UserRepository описывает часть хранилища, нужную сервису.
type UserRepository interface {
	// UpdateSubscriptionStatus меняет тариф по email, возвращает число записей.
	UpdateSubscriptionStatus(ctx context.Context, email, status string) (int, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Cache описывает методы инвалидации кеша.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// Service реализует смену тарифа пользователя.
type Service struct {
	users UserRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		users: users,
		cache: cache,
		log:   log,
	}
}

// UpdateSubscriptionStatus меняет тариф пользователя и возвращает
// обновлённый профиль.
func (s *Service) UpdateSubscriptionStatus(ctx context.Context, email, status string) (*models.User, error) {
	const op = "account.UpdateSubscriptionStatus"

	if !subscription.IsValid(status) {
		return nil, ErrUnknownStatus
	}

	count, err := s.users.UpdateSubscriptionStatus(ctx, email, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription status updated",
		slog.String("email", email), slog.String("status", status))

	// Счётчик поездок гейтится по тарифу: сбрасываем кеш пользователя.
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("tripcount:%s", user.UID)); err != nil {
		s.log.Warn("failed to invalidate trip count cache", sl.Err(err))
	}
	return user, nil
}
