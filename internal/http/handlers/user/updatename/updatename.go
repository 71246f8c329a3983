// Package updatename реализует HTTP-обработчик обновления ФИО и даты рождения.
//
// Обновление — это замена, а не слияние: отсутствующее отчество записывается
// пустой строкой. Запись ищется по номеру телефона.
package updatename

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
	userservice "github.com/magabrotheeeer/gym-membership/internal/services/user"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// Handler обрабатывает запросы обновления ФИО и даты рождения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления анкетных данных.
type Service interface {
	UpdateName(ctx context.Context, req models.UpdateNameRequest) (*models.User, error)
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
// @Summary Обновить ФИО и дату рождения
// @Description Заменяет фамилию, имя, отчество и дату рождения записи, найденной по номеру телефона.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.UpdateNameRequest true "Новые анкетные данные"
// @Success 200 {object} response.Response "Обновлённая запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/update-name [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updatename"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.UpdateNameRequest
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

	u, err := h.service.UpdateName(r.Context(), req)
	switch {
	case errors.Is(err, userservice.ErrInvalidBirthDate):
		log.Error("invalid birth date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrUserNotFound):
		log.Info("user not found", slog.String("phone_number", req.PhoneNumber))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to update name", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update name"))
		return
	}

	log.Info("name updated", slog.String("uid", u.UID), slog.String("full_name", u.FullName))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": u,
	}))
}
