// Package updatesubscription реализует административный HTTP-обработчик
// для изменения тарифного плана пользователя по email.
//
// Handler принимает JSON-запрос с email и новым статусом подписки, проверяет
// обязательность полей, вызывает бизнес-логику обновления и возвращает
// подтверждение с новым статусом пользователя.
package updatesubscription

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/response"
	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/models"
	"github.com/reiseplaner/reiseplaner-sub001/internal/services/account"
)

// Request — структура входных данных для обновления подписки.
type Request struct {
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

// UpdatedUser — краткая форма пользователя в ответе: email и новый статус.
type UpdatedUser struct {
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

// Response — структура успешного ответа обновления подписки.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    UpdatedUser `json:"user"`
}

// Handler обрабатывает административные запросы на обновление подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления подписки.
type Service interface {
	UpdateSubscriptionStatus(ctx context.Context, email, status string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить подписку пользователя
// @Description Устанавливает пользователю указанный статус подписки (free, pro, veteran).
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Email пользователя и новый статус подписки"
// @Success 200 {object} Response "Подписка обновлена"
// @Failure 400 {object} response.Message "Отсутствуют обязательные поля или неизвестный статус"
// @Failure 404 {object} response.Message "Пользователь не найден"
// @Failure 500 {object} response.Message "Внутренняя ошибка сервера"
// @Router /update-subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updatesubscription"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Msg("email and subscriptionStatus are required"))
		return
	}

	if req.Email == "" || req.SubscriptionStatus == "" {
		log.Error("missing required fields")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Msg("email and subscriptionStatus are required"))
		return
	}

	user, err := h.service.UpdateSubscriptionStatus(r.Context(), req.Email, req.SubscriptionStatus)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUnknownStatus):
			log.Error("unknown subscription status", slog.String("status", req.SubscriptionStatus))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Msg("unknown subscription status"))
		case errors.Is(err, account.ErrUserNotFound):
			log.Error("user not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Msg("user not found"))
		default:
			log.Error("failed to update subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Msg("internal server error"))
		}
		return
	}

	log.Info("subscription updated",
		slog.String("email", user.Email),
		slog.String("status", user.SubscriptionStatus))
	render.JSON(w, r, Response{
		Success: true,
		Message: "subscription updated",
		User: UpdatedUser{
			Email:              user.Email,
			SubscriptionStatus: user.SubscriptionStatus,
		},
	})
}
