package models

import "time"

// ConsentPreferences описывает выбор пользователя по категориям cookie.
// Поле Necessary всегда true и не может быть отключено.
type ConsentPreferences struct {
	Necessary bool `json:"necessary"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// ConsentRecord — сохранённый выбор пользователя вместе с моментом согласия.
type ConsentRecord struct {
	Preferences ConsentPreferences `json:"preferences"`
	ConsentedAt time.Time          `json:"consentedAt"`
}

// DefaultConsentPreferences возвращает настройки до первого выбора:
// только обязательные cookie.
func DefaultConsentPreferences() ConsentPreferences {
	return ConsentPreferences{Necessary: true}
}
