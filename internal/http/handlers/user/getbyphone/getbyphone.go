// Package getbyphone реализует HTTP-обработчик получения учётной записи
// по номеру телефона — естественному ключу, которым пользуется клиент.
package getbyphone

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Handler обрабатывает запросы получения записи по номеру телефона.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения записи.
type Service interface {
	GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос получения записи по номеру телефона.
// Для неизвестного номера возвращается 404, а не пустой успешный ответ.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.getbyphone"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	phoneNumber := chi.URLParam(r, "phone")
	if phoneNumber == "" {
		log.Error("empty phone number in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("phone number is required"))
		return
	}

	u, err := h.service.GetByPhone(r.Context(), phoneNumber)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Info("user not found", slog.String("phone_number", phoneNumber))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to read user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	log.Info("user read", slog.String("uid", u.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": u,
	}))
}
