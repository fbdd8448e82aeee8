package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) UpdateSubscriptionStatus(ctx context.Context, email, status string) (int, error) {
	args := m.Called(ctx, email, status)
	return args.Int(0), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUpdateSubscriptionStatus_Success(t *testing.T) {
	repo := new(UserRepositoryMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	repo.On("UpdateSubscriptionStatus", mock.Anything, "alice@example.com", "pro").
		Return(1, nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{UID: "uid-1", Email: "alice@example.com", SubscriptionStatus: "pro"}, nil).Once()
	cache.On("Invalidate", mock.Anything, "tripcount:uid-1").Return(nil).Once()

	user, err := svc.UpdateSubscriptionStatus(context.Background(), "alice@example.com", "pro")
	require.NoError(t, err)
	assert.Equal(t, "pro", user.SubscriptionStatus)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateSubscriptionStatus_UserNotFound(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := New(repo, new(CacheMock), newNoopLogger())

	repo.On("UpdateSubscriptionStatus", mock.Anything, "nobody@example.com", "veteran").
		Return(0, nil).Once()

	_, err := svc.UpdateSubscriptionStatus(context.Background(), "nobody@example.com", "veteran")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateSubscriptionStatus_UnknownStatus(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := New(repo, new(CacheMock), newNoopLogger())

	_, err := svc.UpdateSubscriptionStatus(context.Background(), "alice@example.com", "platinum")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	repo.AssertNotCalled(t, "UpdateSubscriptionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSubscriptionStatus_RepoError(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := New(repo, new(CacheMock), newNoopLogger())

	repo.On("UpdateSubscriptionStatus", mock.Anything, "alice@example.com", "pro").
		Return(0, errors.New("connection reset")).Once()

	_, err := svc.UpdateSubscriptionStatus(context.Background(), "alice@example.com", "pro")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
