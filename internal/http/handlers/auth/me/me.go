// Package me реализует HTTP-обработчик для получения профиля текущего пользователя.
//
// Обработчик ожидает, что JWTMiddleware уже поместил идентификатор пользователя
// в контекст запроса, и возвращает профиль в JSON-формате.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/middlewarectx"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/response"
	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения пользователя по идентификатору.
type Service interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает профиль пользователя, указанного в JWT.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.User "Профиль пользователя"
// @Failure 401 {object} response.Message "Пользователь не авторизован"
// @Failure 500 {object} response.Message "Внутренняя ошибка сервера"
// @Router /api/auth/user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Msg("unauthorized"))
		return
	}

	user, err := h.service.GetUser(r.Context(), uid)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Msg("internal server error"))
		return
	}

	render.JSON(w, r, user)
}
