// Package session реализует менеджер пользовательской сессии: вход,
// регистрацию и демо-доступ через удалённый auth API, а также хранение
// bearer-токена в долговременном локальном хранилище. Токен непрозрачен:
// менеджер его не разбирает, а лишь передаёт как credential.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reiseplaner/reiseplaner-sub001/internal/kvstore"
	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

const (
	// TokenKey — ключ хранилища с bearer-токеном.
	TokenKey = "auth_token"
	// UsernameSetupSkippedKey — флаг "пропустить настройку имени",
	// очищается при выходе.
	UsernameSetupSkippedKey = "username-setup-skipped"
)

const (
	signinPath = "/api/auth/local/signin"
	signupPath = "/api/auth/local/signup"
	demoPath   = "/api/auth/local/demo"
	mePath     = "/api/auth/user"
)

// AuthError — отказ сервера при входе или регистрации. Message
// предназначен для показа пользователю.
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success     bool         `json:"success"`
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Manager владеет сессией пользователя и зеркалирует токен в хранилище.
type Manager struct {
	store      kvstore.Store
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewManager создаёт менеджер сессии поверх заданного хранилища.
// baseURL — адрес auth API без завершающего слэша.
func NewManager(store kvstore.Store, baseURL string, log *slog.Logger) *Manager {
	return &Manager{
		store:      store,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// SignInWithEmail выполняет вход по email и паролю. Токен записывается
// в хранилище до возврата, поэтому последующий Token() видит его.
func (m *Manager) SignInWithEmail(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.authenticate(ctx, signinPath,
		credentialsRequest{Email: email, Password: password}, "sign in failed")
}

// SignUpWithEmail регистрирует пользователя; контракт тот же, что у входа.
func (m *Manager) SignUpWithEmail(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.authenticate(ctx, signupPath,
		credentialsRequest{Email: email, Password: password}, "registration failed")
}

// SignInWithDemo выполняет демо-вход без учётных данных.
func (m *Manager) SignInWithDemo(ctx context.Context) (*models.User, string, error) {
	return m.authenticate(ctx, demoPath, nil, "demo sign in failed")
}

func (m *Manager) authenticate(ctx context.Context, path string, body any, defaultMsg string) (*models.User, string, error) {
	const op = "session.authenticate"

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, &buf)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := defaultMsg
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			msg = errResp.Message
		}
		return nil, "", &AuthError{Message: msg, StatusCode: resp.StatusCode}
	}

	var authResp authResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if authResp.AccessToken == "" {
		return nil, "", &AuthError{Message: defaultMsg, StatusCode: resp.StatusCode}
	}

	if err := m.store.Set(TokenKey, authResp.AccessToken); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return authResp.User, authResp.AccessToken, nil
}

// CurrentUser возвращает профиль по сохранённому токену. Отсутствие
// токена — не ошибка: возвращается (nil, nil) без сетевого вызова.
// Отклонённый сервером или недоставленный запрос трактуется как
// недействительная сессия: токен удаляется, возвращается (nil, nil).
func (m *Manager) CurrentUser(ctx context.Context) (*models.User, error) {
	const op = "session.CurrentUser"

	token := m.Token()
	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.Debug("who-am-i request failed, clearing session", sl.Err(err))
		m.clearToken()
		return nil, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.log.Debug("token rejected, clearing session", slog.Int("status", resp.StatusCode))
		m.clearToken()
		return nil, nil
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// SignOut удаляет токен и связанные локальные флаги. Чисто локальная
// операция, сетевых вызовов нет.
func (m *Manager) SignOut() error {
	const op = "session.SignOut"
	if err := m.store.Delete(TokenKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.store.Delete(UsernameSetupSkippedKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Token синхронно читает сохранённый токен; пустая строка — токена нет.
func (m *Manager) Token() string {
	token, found, err := m.store.Get(TokenKey)
	if err != nil || !found {
		return ""
	}
	return token
}

// SetUsernameSetupSkipped выставляет флаг "пропустить настройку имени".
func (m *Manager) SetUsernameSetupSkipped() error {
	return m.store.Set(UsernameSetupSkippedKey, "true")
}

// UsernameSetupSkipped сообщает, выставлен ли флаг.
func (m *Manager) UsernameSetupSkipped() bool {
	_, found, err := m.store.Get(UsernameSetupSkippedKey)
	return err == nil && found
}

func (m *Manager) clearToken() {
	if err := m.store.Delete(TokenKey); err != nil {
		m.log.Warn("failed to clear stored token", sl.Err(err))
	}
}
