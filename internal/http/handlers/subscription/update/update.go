// Package update реализует HTTP-обработчик назначения и продления абонемента
// по идентификатору учётной записи.
//
// Абонемент заменяется целиком: дата начала — момент запроса, дата окончания
// считается в календарных месяцах, неиспользованное время прежнего
// абонемента сгорает.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	subservice "github.com/magabrotheeeer/gym-membership/internal/services/subscription"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Handler обрабатывает запросы обновления абонемента по идентификатору.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики абонементов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления абонемента.
type Service interface {
	Subscribe(ctx context.Context, key subservice.Key, plan string, durationInMonths int) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Назначить или продлить абонемент
// @Description Заменяет абонемент записи, найденной по идентификатору. Дата окончания — дата начала плюс заданное число календарных месяцев.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор записи"
// @Param request body models.SubscribeRequest true "Тариф и длительность"
// @Success 200 {object} response.Response "Обновлённая запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/update-subscription/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	u, err := h.service.Subscribe(r.Context(), subservice.Key{UID: uid}, req.Plan, req.DurationInMonths)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Info("user not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to update subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update subscription"))
		return
	}

	log.Info("subscription updated", slog.String("uid", u.UID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": u,
	}))
}
