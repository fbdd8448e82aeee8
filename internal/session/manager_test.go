package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reiseplaner/reiseplaner-sub001/internal/kvstore"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSignInWithEmail_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/local/signin", r.URL.Path)

		var req credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice@example.com", req.Email)
		require.Equal(t, "password123", req.Password)

		_ = json.NewEncoder(w).Encode(authResponse{
			Success:     true,
			User:        &models.User{UID: "uid-1", Email: req.Email},
			AccessToken: "tok-abc",
		})
	}))
	defer srv.Close()

	store := kvstore.NewMemStore()
	m := NewManager(store, srv.URL, newNoopLogger())

	user, token, err := m.SignInWithEmail(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "tok-abc", token)

	// Токен записан до возврата: Token() видит ровно его.
	assert.Equal(t, "tok-abc", m.Token())
}

func TestSignInWithEmail_ServerMessagePreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	m := NewManager(kvstore.NewMemStore(), srv.URL, newNoopLogger())

	user, token, err := m.SignInWithEmail(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Message)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Empty(t, m.Token())
}

func TestSignUpWithEmail_DefaultMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewManager(kvstore.NewMemStore(), srv.URL, newNoopLogger())

	_, _, err := m.SignUpWithEmail(context.Background(), "bob@example.com", "password123")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "registration failed", authErr.Message)
}

func TestSignInWithDemo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/local/demo", r.URL.Path)
		_ = json.NewEncoder(w).Encode(authResponse{
			Success:     true,
			User:        &models.User{UID: "demo-1", Email: "demo@reiseplaner.app"},
			AccessToken: "demo-token",
		})
	}))
	defer srv.Close()

	m := NewManager(kvstore.NewMemStore(), srv.URL, newNoopLogger())

	user, token, err := m.SignInWithDemo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo-1", user.UID)
	assert.Equal(t, "demo-token", token)
	assert.Equal(t, "demo-token", m.Token())
}

func TestCurrentUser_NoToken_NoRemoteCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	m := NewManager(kvstore.NewMemStore(), srv.URL, newNoopLogger())

	user, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCurrentUser_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(models.User{UID: "uid-1", Email: "alice@example.com"})
	}))
	defer srv.Close()

	store := kvstore.NewMemStore()
	require.NoError(t, store.Set(TokenKey, "tok-abc"))
	m := NewManager(store, srv.URL, newNoopLogger())

	user, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "tok-abc", m.Token())
}

func TestCurrentUser_RejectedTokenIsPurged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := kvstore.NewMemStore()
	require.NoError(t, store.Set(TokenKey, "expired-token"))
	m := NewManager(store, srv.URL, newNoopLogger())

	user, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, m.Token())
}

func TestCurrentUser_NetworkFailureClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // сервер недоступен

	store := kvstore.NewMemStore()
	require.NoError(t, store.Set(TokenKey, "tok-abc"))
	m := NewManager(store, srv.URL, newNoopLogger())

	user, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, m.Token())
}

func TestSignOut(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	store := kvstore.NewMemStore()
	require.NoError(t, store.Set(TokenKey, "tok-abc"))
	m := NewManager(store, srv.URL, newNoopLogger())
	require.NoError(t, m.SetUsernameSetupSkipped())

	require.NoError(t, m.SignOut())

	assert.Empty(t, m.Token())
	assert.False(t, m.UsernameSetupSkipped())

	// После выхода CurrentUser не ходит в сеть.
	user, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, int32(0), calls.Load())
}
