package consent

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reiseplaner/reiseplaner-sub001/internal/kvstore"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestNewManager_NoStoredConsent(t *testing.T) {
	m := NewManager(kvstore.NewMemStore(), newNoopLogger())

	assert.False(t, m.HasConsented())
	assert.True(t, m.BannerVisible())
	assert.Equal(t, models.ConsentPreferences{Necessary: true}, m.Preferences())
}

func TestUpdatePreferences_NecessaryCannotBeDisabled(t *testing.T) {
	m := NewManager(kvstore.NewMemStore(), newNoopLogger())

	no := false
	yes := true
	tests := []struct {
		name    string
		partial Update
		want    models.ConsentPreferences
	}{
		{
			name:    "attempt to disable necessary is silently overridden",
			partial: Update{Necessary: &no},
			want:    models.ConsentPreferences{Necessary: true},
		},
		{
			name:    "partial update keeps other fields",
			partial: Update{Analytics: &yes},
			want:    models.ConsentPreferences{Necessary: true, Analytics: true},
		},
		{
			name:    "necessary stays true alongside other changes",
			partial: Update{Necessary: &no, Marketing: &yes},
			want:    models.ConsentPreferences{Necessary: true, Analytics: true, Marketing: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, m.UpdatePreferences(tt.partial))
			assert.Equal(t, tt.want, m.Preferences())
			assert.True(t, m.HasConsented())
		})
	}
}

func TestAcceptAll_SurvivesReinitialization(t *testing.T) {
	store := kvstore.NewMemStore()

	m := NewManager(store, newNoopLogger())
	require.NoError(t, m.AcceptAll())
	assert.False(t, m.BannerVisible())

	// Симуляция перезапуска: новый менеджер поверх того же хранилища.
	reloaded := NewManager(store, newNoopLogger())
	assert.True(t, reloaded.HasConsented())
	assert.False(t, reloaded.BannerVisible())
	assert.Equal(t, models.ConsentPreferences{
		Necessary: true,
		Analytics: true,
		Marketing: true,
	}, reloaded.Preferences())
	assert.WithinDuration(t, time.Now().UTC(), reloaded.Record().ConsentedAt, time.Minute)
}

func TestRejectAll_SurvivesReinitialization(t *testing.T) {
	store := kvstore.NewMemStore()

	m := NewManager(store, newNoopLogger())
	require.NoError(t, m.RejectAll())

	reloaded := NewManager(store, newNoopLogger())
	assert.True(t, reloaded.HasConsented())
	assert.False(t, reloaded.BannerVisible())
	assert.Equal(t, models.ConsentPreferences{
		Necessary: true,
		Analytics: false,
		Marketing: false,
	}, reloaded.Preferences())
}

func TestNewManager_MalformedRecordFallsBackToDefaults(t *testing.T) {
	store := kvstore.NewMemStore()
	require.NoError(t, store.Set(PreferencesKey, "{not valid json"))

	m := NewManager(store, newNoopLogger())

	assert.False(t, m.HasConsented())
	assert.True(t, m.BannerVisible())
	assert.Equal(t, models.ConsentPreferences{Necessary: true}, m.Preferences())

	// Следующий выбор перезаписывает битую запись.
	require.NoError(t, m.AcceptAll())
	reloaded := NewManager(store, newNoopLogger())
	assert.True(t, reloaded.HasConsented())
}

func TestHooks_RunAfterCommit(t *testing.T) {
	store := kvstore.NewMemStore()

	var got []models.ConsentPreferences
	hook := func(prefs models.ConsentPreferences) error {
		got = append(got, prefs)
		return nil
	}

	m := NewManager(store, newNoopLogger(), hook)
	require.NoError(t, m.AcceptAll())
	require.NoError(t, m.RejectAll())

	require.Len(t, got, 2)
	assert.True(t, got[0].Analytics)
	assert.False(t, got[1].Analytics)
}

func TestHooks_AnalyticsEnabledOnRestore(t *testing.T) {
	store := kvstore.NewMemStore()
	first := NewManager(store, newNoopLogger())
	require.NoError(t, first.AcceptAll())

	calls := 0
	hook := func(prefs models.ConsentPreferences) error {
		calls++
		assert.True(t, prefs.Analytics)
		return nil
	}
	NewManager(store, newNoopLogger(), hook)
	assert.Equal(t, 1, calls)

	// После отказа от аналитики хук на старте не вызывается.
	require.NoError(t, first.RejectAll())
	calls = 0
	NewManager(store, newNoopLogger(), hook)
	assert.Equal(t, 0, calls)
}

func TestHooks_FailureDoesNotCorruptState(t *testing.T) {
	store := kvstore.NewMemStore()
	hook := func(models.ConsentPreferences) error {
		return errors.New("analytics backend down")
	}

	m := NewManager(store, newNoopLogger(), hook)
	require.NoError(t, m.AcceptAll())

	assert.True(t, m.HasConsented())
	reloaded := NewManager(store, newNoopLogger())
	assert.True(t, reloaded.Preferences().Analytics)
}

func TestShowSettingsAndHideBanner(t *testing.T) {
	store := kvstore.NewMemStore()
	m := NewManager(store, newNoopLogger())
	require.NoError(t, m.AcceptAll())
	require.False(t, m.BannerVisible())

	m.ShowSettings()
	assert.True(t, m.BannerVisible())
	// Повторное открытие баннера не трогает преференции.
	assert.True(t, m.Preferences().Analytics)

	m.HideBanner()
	assert.False(t, m.BannerVisible())
	assert.True(t, m.HasConsented())
}
