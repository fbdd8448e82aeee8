// Package trip содержит бизнес-логику поездок: создание с проверкой
// лимита тарифа, выборку и экспорт. Счётчик поездок кешируется,
// чтобы не пересчитывать его на каждом создании.
package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
	"github.com/reiseplaner/reiseplaner-sub001/internal/subscription"
)

// ErrTripLimitReached возвращается, когда тариф не разрешает новую поездку.
var ErrTripLimitReached = errors.New("trip limit reached for current plan")

// ErrExportNotAllowed возвращается, когда тариф не включает экспорт.
var ErrExportNotAllowed = errors.New("export is not available on current plan")

// Repository определяет методы для работы с поездками в хранилище.
type Repository interface {
	// CreateTrip добавляет новую поездку и возвращает её ID.
	CreateTrip(ctx context.Context, trip models.Trip) (int, error)
	// CountTrips возвращает число поездок пользователя.
	CountTrips(ctx context.Context, userUID string) (int, error)
	// ListTrips возвращает поездки пользователя с пагинацией.
	ListTrips(ctx context.Context, userUID string, limit, offset int) ([]*models.Trip, error)
	// ListTripsForExport возвращает все поездки пользователя.
	ListTripsForExport(ctx context.Context, userUID string) ([]*models.Trip, error)
}

// UserProvider возвращает пользователя по UID, для чтения тарифа.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// ExportDocument — результат экспорта поездок пользователя.
type ExportDocument struct {
	Email       string         `json:"email"`
	GeneratedAt time.Time      `json:"generated_at"`
	TripsCount  int            `json:"trips_count"`
	Trips       []*models.Trip `json:"trips"`
}

// Service реализует бизнес-логику поездок.
type Service struct {
	repo  Repository
	users UserProvider
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, users UserProvider, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

func tripCountKey(userUID string) string {
	return fmt.Sprintf("tripcount:%s", userUID)
}

// Create создаёт поездку, если тариф пользователя разрешает ещё одну.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyTrip) (int, error) {
	startDate, err := time.Parse("02-01-2006", req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse("02-01-2006", req.EndDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}
	if endDate.Before(startDate) {
		return 0, fmt.Errorf("trip end date must not be earlier than start date")
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	plan, ok := subscription.GetPlan(subscription.Status(user.SubscriptionStatus))
	if !ok {
		// Неизвестный статус трактуем как бесплатный тариф.
		plan, _ = subscription.GetPlan(subscription.StatusFree)
	}

	count, err := s.tripCount(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if !plan.AllowsMoreTrips(count) {
		return 0, ErrTripLimitReached
	}

	trip := models.Trip{
		UserUID:     userUID,
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Notes:       req.Notes,
	}
	id, err := s.repo.CreateTrip(ctx, trip)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new trip", slog.Int("id", id))

	if err := s.cache.Invalidate(ctx, tripCountKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate trip count cache", sl.Err(err))
	}
	return id, nil
}

func (s *Service) tripCount(ctx context.Context, userUID string) (int, error) {
	var count int
	key := tripCountKey(userUID)
	found, err := s.cache.Get(ctx, key, &count)
	if err != nil {
		s.log.Warn("failed to read trip count cache", sl.Err(err))
	}
	if found {
		return count, nil
	}

	count, err = s.repo.CountTrips(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, key, count, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache trip count", slog.String("key", key), sl.Err(err))
	}
	return count, nil
}

// List возвращает поездки пользователя с пагинацией.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Trip, error) {
	return s.repo.ListTrips(ctx, userUID, limit, offset)
}

// Export собирает документ со всеми поездками пользователя,
// если тариф включает экспорт.
func (s *Service) Export(ctx context.Context, userUID string) (*ExportDocument, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	plan, ok := subscription.GetPlan(subscription.Status(user.SubscriptionStatus))
	if !ok || !plan.CanExport {
		return nil, ErrExportNotAllowed
	}

	trips, err := s.repo.ListTripsForExport(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return &ExportDocument{
		Email:       user.Email,
		GeneratedAt: time.Now().UTC(),
		TripsCount:  len(trips),
		Trips:       trips,
	}, nil
}
