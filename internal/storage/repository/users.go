package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в базе.
var ErrUserNotFound = errors.New("user not found")

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, first_name, last_name, profile_image_url,
			      password_hash, role, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.FirstName, user.LastName, user.ProfileImageURL,
		user.PasswordHash, user.Role, user.SubscriptionStatus).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, first_name, last_name, profile_image_url,
			      password_hash, role, subscription_status, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, first_name, last_name, profile_image_url,
			      password_hash, role, subscription_status, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var username, firstName, lastName, profileImageURL sql.NullString

	err := row.Scan(&u.UID, &u.Email, &username, &firstName, &lastName, &profileImageURL,
		&u.PasswordHash, &u.Role, &u.SubscriptionStatus, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.ProfileImageURL = profileImageURL.String
	return u, nil
}

// UpdateSubscriptionStatus меняет тариф пользователя по email
// и возвращает количество обновлённых записей.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, email, status string) (int, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET subscription_status = $1 WHERE email = $2`
	result, err := s.DB.ExecContext(ctx, query, status, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	counter, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(counter), nil
}
