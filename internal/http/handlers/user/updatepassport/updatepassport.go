// Package updatepassport реализует HTTP-обработчик обновления паспортных данных.
//
// Запрос приходит multipart-формой: текстовые поля с серией, номером, датой
// выдачи и кодом подразделения, плюс необязательный файл с фотографией
// паспорта. Паспорт заменяется целиком; при ошибке валидации запись
// не меняется. Паспортные данные в лог не пишутся.
package updatepassport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	passportlib "github.com/magabrotheeeer/gym-membership/internal/lib/passport"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
	userservice "github.com/magabrotheeeer/gym-membership/internal/services/user"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// maxFormMemory — лимит памяти при разборе multipart-формы.
const maxFormMemory = 10 << 20

// photoField — имя файлового поля с фотографией паспорта.
const photoField = "passportPhoto"

// Handler обрабатывает запросы обновления паспортных данных.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления паспорта.
type Service interface {
	UpdatePassport(ctx context.Context, form models.UpdatePassportForm, photo *userservice.Photo) (*models.User, error)
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
// @Summary Обновить паспортные данные
// @Description Заменяет паспортные данные записи, найденной по номеру телефона. Принимает multipart-форму с необязательным файлом passportPhoto.
// @Tags Users
// @Accept  mpfd
// @Produce  json
// @Success 200 {object} response.Response "Обновлённая запись"
// @Failure 400 {object} response.ErrorResponse "Некорректные паспортные данные"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/update-passport [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updatepassport"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	form := models.UpdatePassportForm{
		PhoneNumber: r.FormValue("phoneNumber"),
		Series:      r.FormValue("series"),
		Number:      r.FormValue("number"),
		IssueDate:   r.FormValue("issueDate"),
		DeptCode:    r.FormValue("deptCode"),
		Address:     r.FormValue("address"),
	}

	if err := h.validate.Struct(form); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	var photo *userservice.Photo
	file, header, err := r.FormFile(photoField)
	if err == nil {
		defer func() {
			_ = file.Close()
		}()
		photo = &userservice.Photo{
			OriginalName: header.Filename,
			Data:         file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		log.Error("failed to read photo from form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid passport photo"))
		return
	}

	u, err := h.service.UpdatePassport(r.Context(), form, photo)
	switch {
	case errors.Is(err, passportlib.ErrInvalidSeries),
		errors.Is(err, passportlib.ErrInvalidNumber),
		errors.Is(err, passportlib.ErrInvalidDeptCode),
		errors.Is(err, passportlib.ErrInvalidIssueDate):
		log.Error("invalid passport data", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrUserNotFound):
		log.Info("user not found", slog.String("phone_number", form.PhoneNumber))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to update passport", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update passport"))
		return
	}

	log.Info("passport updated", slog.String("uid", u.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": u,
	}))
}
