// Package status реализует HTTP-обработчик получения статуса абонемента.
//
// Статус вычисляется в момент запроса: абонемент активен, пока дата его
// окончания строго в будущем. Для записи без абонемента возвращается
// {"active": false} без полей абонемента.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	subservice "github.com/magabrotheeeer/gym-membership/internal/services/subscription"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
)

// Handler обрабатывает запросы статуса абонемента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики вычисления статуса.
type Service interface {
	GetStatus(ctx context.Context, uid string) (*subservice.Status, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// statusResponse — тело ответа: признак активности и поля абонемента,
// когда он есть.
type statusResponse struct {
	Active bool `json:"active"`
	*models.Subscription
}

// ServeHTTP godoc
// @Summary Получить статус абонемента
// @Description Возвращает признак активности и поля абонемента. Признак вычисляется в момент запроса и нигде не хранится.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор записи"
// @Success 200 {object} map[string]any "Статус абонемента"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{id}/subscription-status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")

	st, err := h.service.GetStatus(r.Context(), uid)
	if err != nil {
		log.Error("failed to get subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get subscription status"))
		return
	}

	log.Info("subscription status computed", slog.String("uid", uid), slog.Bool("active", st.Active))
	render.JSON(w, r, statusResponse{
		Active:       st.Active,
		Subscription: st.Subscription,
	})
}
