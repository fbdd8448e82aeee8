// Package models содержит доменные модели сервиса планирования путешествий:
// пользователей, поездки и запись о согласии на cookie.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string    `json:"id"`                          // Уникальный идентификатор пользователя
	Email              string    `json:"email"`                       // Электронная почта
	Username           string    `json:"username,omitempty"`          // Имя пользователя
	FirstName          string    `json:"firstName,omitempty"`         // Имя
	LastName           string    `json:"lastName,omitempty"`          // Фамилия
	ProfileImageURL    string    `json:"profileImageUrl,omitempty"`   // Ссылка на аватар
	PasswordHash       string    `json:"-"`                           // Хэш пароля пользователя
	Role               string    `json:"-"`                           // Роль пользователя, admin или user
	SubscriptionStatus string    `json:"subscriptionStatus,omitempty"` // Тариф: free, pro или veteran
	CreatedAt          time.Time `json:"-"`
}
