// Package subscribe реализует телефонный вариант обновления абонемента —
// исторический маршрут, которым пользуются ранние версии мобильного
// приложения. Семантика совпадает с id-вариантом: оба маршрута обслуживает
// один метод сервиса.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	subservice "github.com/magabrotheeeer/gym-membership/internal/services/subscription"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Handler обрабатывает запросы обновления абонемента по номеру телефона.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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

// ServeHTTP обрабатывает HTTP-запрос обновления абонемента по номеру телефона.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
	if req.PhoneNumber == "" {
		log.Error("missing phone number")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("phone number is required"))
		return
	}

	u, err := h.service.Subscribe(r.Context(), subservice.Key{PhoneNumber: req.PhoneNumber}, req.Plan, req.DurationInMonths)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Info("user not found", slog.String("phone_number", req.PhoneNumber))
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
