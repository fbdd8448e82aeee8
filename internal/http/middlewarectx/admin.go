package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/reiseplaner/reiseplaner-sub001/internal/http/response"
)

// RequireAdmin возвращает middleware, допускающий только пользователей с ролью admin.
//
// Роль берётся из контекста запроса, установленного JWTMiddleware.
// При отсутствии роли или роли, отличной от admin, возвращает HTTP 403 Forbidden.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"

			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Error("admin access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Msg("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
