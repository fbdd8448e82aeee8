// Package consent реализует менеджер согласия на cookie: текущие
// преференции пользователя, признак сделанного выбора и видимость баннера.
// Источник истины — долговременное хранилище; состояние в памяти лишь
// отражает его. Побочные эффекты (включение и выключение аналитики)
// оформлены списком post-commit хуков: они вызываются только после
// успешной записи в хранилище, их сбои логируются и не портят согласие.
package consent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reiseplaner/reiseplaner-sub001/internal/kvstore"
	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

const (
	// PreferencesKey — ключ хранилища с JSON преференций.
	PreferencesKey = "cookie-preferences"
	// TimestampKey — ключ хранилища с моментом последнего выбора (RFC 3339).
	TimestampKey = "cookie-consent-timestamp"
)

// Hook — post-commit обработчик изменения преференций. Получает
// итоговые преференции после успешной записи в хранилище.
type Hook func(prefs models.ConsentPreferences) error

// Update — частичное обновление преференций. Nil-поле означает
// "оставить как есть". Necessary принимается, но игнорируется:
// обязательные cookie отключить нельзя.
type Update struct {
	Necessary *bool `json:"necessary,omitempty"`
	Analytics *bool `json:"analytics,omitempty"`
	Marketing *bool `json:"marketing,omitempty"`
}

// Manager владеет состоянием согласия и зеркалирует его в хранилище.
type Manager struct {
	mu    sync.Mutex
	store kvstore.Store
	log   *slog.Logger
	hooks []Hook

	prefs         models.ConsentPreferences
	consentedAt   time.Time
	hasConsented  bool
	bannerVisible bool
}

// NewManager создаёт менеджер и восстанавливает состояние из хранилища.
// Отсутствующая запись даёт дефолтные преференции и показанный баннер.
// Нечитаемая запись трактуется так же: падать при инициализации нельзя.
func NewManager(store kvstore.Store, log *slog.Logger, hooks ...Hook) *Manager {
	m := &Manager{
		store:         store,
		log:           log,
		hooks:         hooks,
		prefs:         models.DefaultConsentPreferences(),
		bannerVisible: true,
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	const op = "consent.restore"

	raw, found, err := m.store.Get(PreferencesKey)
	if err != nil {
		m.log.Error("failed to read consent record", slog.String("op", op), sl.Err(err))
		return
	}
	if !found {
		return
	}

	var prefs models.ConsentPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		m.log.Warn("malformed consent record, falling back to defaults",
			slog.String("op", op), sl.Err(err))
		return
	}
	prefs.Necessary = true

	m.prefs = prefs
	m.hasConsented = true
	m.bannerVisible = false

	if ts, found, err := m.store.Get(TimestampKey); err == nil && found {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			m.consentedAt = parsed
		}
	}

	if prefs.Analytics {
		m.runHooks(prefs)
	}
}

// UpdatePreferences накладывает частичное обновление на текущие
// преференции, принудительно сохраняя Necessary=true, записывает полную
// запись со свежим таймстемпом в хранилище и вызывает post-commit хуки.
func (m *Manager) UpdatePreferences(partial Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(partial)
}

func (m *Manager) update(partial Update) error {
	const op = "consent.UpdatePreferences"

	next := m.prefs
	if partial.Analytics != nil {
		next.Analytics = *partial.Analytics
	}
	if partial.Marketing != nil {
		next.Marketing = *partial.Marketing
	}
	// Обязательные cookie нельзя отключить: попытка молча перекрывается.
	next.Necessary = true

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now().UTC()
	if err := m.store.Set(PreferencesKey, string(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.store.Set(TimestampKey, now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.prefs = next
	m.consentedAt = now
	m.hasConsented = true

	m.runHooks(next)
	return nil
}

func (m *Manager) runHooks(prefs models.ConsentPreferences) {
	for _, hook := range m.hooks {
		if err := hook(prefs); err != nil {
			m.log.Warn("consent hook failed", sl.Err(err))
		}
	}
}

// AcceptAll включает все категории cookie и скрывает баннер.
func (m *Manager) AcceptAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	yes := true
	if err := m.update(Update{Analytics: &yes, Marketing: &yes}); err != nil {
		return err
	}
	m.bannerVisible = false
	return nil
}

// RejectAll отключает все необязательные категории и скрывает баннер.
func (m *Manager) RejectAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	no := false
	if err := m.update(Update{Analytics: &no, Marketing: &no}); err != nil {
		return err
	}
	m.bannerVisible = false
	return nil
}

// ShowSettings заново открывает баннер для редактирования преференций,
// независимо от того, было ли согласие уже дано.
func (m *Manager) ShowSettings() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bannerVisible = true
}

// HideBanner скрывает баннер без изменения преференций.
func (m *Manager) HideBanner() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bannerVisible = false
}

// Preferences возвращает текущие преференции.
func (m *Manager) Preferences() models.ConsentPreferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

// HasConsented сообщает, делал ли пользователь выбор.
func (m *Manager) HasConsented() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasConsented
}

// BannerVisible сообщает, показан ли баннер.
func (m *Manager) BannerVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bannerVisible
}

// Record возвращает сохранённую запись о согласии.
func (m *Manager) Record() models.ConsentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.ConsentRecord{
		Preferences: m.prefs,
		ConsentedAt: m.consentedAt,
	}
}
