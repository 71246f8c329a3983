// Package check реализует HTTP-обработчик проверки существования учётной
// записи по номеру телефона.
//
// Handler принимает JSON-запрос с номером телефона и возвращает флаг
// существования записи. Запрос не имеет побочных эффектов: мобильное
// приложение по ответу выбирает между сценарием регистрации и входом
// в существующую запись.
package check

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Handler обрабатывает запросы проверки существования учётной записи.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики учётных записей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики проверки существования.
type Service interface {
	CheckExists(ctx context.Context, phoneNumber string) (bool, error)
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
// @Summary Проверить существование учётной записи
// @Description Проверяет по номеру телефона, зарегистрирован ли клиент.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.CheckRequest true "Номер телефона"
// @Success 200 {object} map[string]any "Флаг существования записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/check [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckRequest
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

	exists, err := h.service.CheckExists(r.Context(), req.PhoneNumber)
	if err != nil {
		log.Error("failed to check user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check user"))
		return
	}

	log.Info("user existence checked", slog.Bool("exists", exists))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"exists": exists,
	}))
}
