package export

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/middlewarectx"
	"github.com/reiseplaner/reiseplaner-sub001/internal/http/response"
	"github.com/reiseplaner/reiseplaner-sub001/internal/lib/sl"
	"github.com/reiseplaner/reiseplaner-sub001/internal/services/trip"
)

// Handler обрабатывает HTTP-запросы на экспорт поездок пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики экспорта поездок.
type Service interface {
	Export(ctx context.Context, userUID string) (*trip.ExportDocument, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Экспорт поездок
// @Description Возвращает все поездки пользователя одним документом. Доступен только на тарифах с экспортом.
// @Tags Trips
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} trip.ExportDocument "Документ экспорта"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Тариф не включает экспорт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/trips/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trip.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	doc, err := h.service.Export(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, trip.ErrExportNotAllowed) {
			log.Error("export not allowed", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("export is not available on current plan"))
			return
		}
		log.Error("failed to export trips", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export trips"))
		return
	}

	log.Info("export trips", "count", doc.TripsCount)
	render.JSON(w, r, response.OKWithData(doc))
}
