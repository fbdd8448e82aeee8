// Package demo реализует HTTP-обработчик для входа в демо-режиме.
//
// Обработчик не принимает тела запроса: сервис аутентификации создает одноразового
// пользователя и возвращает его профиль вместе с access-токеном.
package demo

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/response"
	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

// Handler обрабатывает HTTP-запросы на демо-вход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики демо-входа.
type Service interface {
	Demo(ctx context.Context) (*models.User, string, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Демо-вход
// @Description Создает одноразового демо-пользователя и возвращает профиль и access-токен.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.AuthResponse "Успешный демо-вход"
// @Failure 500 {object} response.Message "Внутренняя ошибка сервера"
// @Router /api/auth/local/demo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.demo"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, token, err := h.service.Demo(r.Context())
	if err != nil {
		log.Error("demo sign in failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Msg("internal server error"))
		return
	}

	log.Info("demo sign in success", slog.String("email", user.Email))
	render.JSON(w, r, response.AuthSuccess(user, token))
}
