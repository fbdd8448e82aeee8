package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

// CreateTrip добавляет новую поездку и возвращает её ID.
func (s *Storage) CreateTrip(ctx context.Context, trip models.Trip) (int, error) {
	const op = "storage.CreateTrip"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO trips (user_uid, title, destination, start_date, end_date, notes)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		trip.UserUID, trip.Title, trip.Destination, trip.StartDate, trip.EndDate,
		trip.Notes).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CountTrips возвращает число поездок пользователя.
func (s *Storage) CountTrips(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountTrips"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM trips WHERE user_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListTrips возвращает поездки пользователя с пагинацией,
// свежие созданные первыми.
func (s *Storage) ListTrips(ctx context.Context, userUID string, limit, offset int) ([]*models.Trip, error) {
	const op = "storage.ListTrips"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, destination, start_date, end_date, notes, created_at
			  FROM trips
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return scanTrips(rows, op)
}

// ListTripsForExport возвращает все поездки пользователя без пагинации,
// в порядке дат начала.
func (s *Storage) ListTripsForExport(ctx context.Context, userUID string) ([]*models.Trip, error) {
	const op = "storage.ListTripsForExport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, destination, start_date, end_date, notes, created_at
			  FROM trips
			  WHERE user_uid = $1
			  ORDER BY start_date ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	return scanTrips(rows, op)
}

func scanTrips(rows *sql.Rows, op string) ([]*models.Trip, error) {
	var result []*models.Trip
	for rows.Next() {
		var t models.Trip
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.UserUID, &t.Title, &t.Destination,
			&t.StartDate, &t.EndDate, &notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.Notes = notes.String
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
