package models

// CheckRequest — запрос проверки существования учётной записи по номеру.
type CheckRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// RegisterRequest — запрос регистрации. Принимает либо слитное fullName,
// либо раздельные поля ФИО; раздельные поля имеют приоритет.
type RegisterRequest struct {
	PhoneNumber string           `json:"phoneNumber" validate:"required"`
	FullName    string           `json:"fullName,omitempty"`
	Surname     string           `json:"surname,omitempty"`
	Name        string           `json:"name,omitempty"`
	Patronymic  string           `json:"patronymic,omitempty"`
	BirthDate   string           `json:"birthDate,omitempty"` // формат 2006-01-02
	Passport    *PassportRequest `json:"passport,omitempty"`
}

// PassportRequest — паспорт в составе запроса регистрации.
// Number уже склеен из серии и номера (десять цифр).
type PassportRequest struct {
	Number    string `json:"number" validate:"required,numeric,len=10"`
	IssuedBy  string `json:"issuedBy" validate:"required"`
	IssueDate string `json:"issueDate" validate:"required"` // формат 31.12.2006
}

// UpdateNameRequest — запрос обновления ФИО и даты рождения.
// Это замена, а не слияние: пустое отчество записывается пустой строкой.
type UpdateNameRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Surname     string `json:"surname" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Patronymic  string `json:"patronymic"`
	BirthDate   string `json:"birthDate" validate:"required"` // формат 2006-01-02
}

// UpdatePassportForm — поля multipart-формы обновления паспорта.
// Фото приходит отдельным файлом и в структуру не входит. Адрес клиент
// присылает для подсказок, сервер его не хранит.
type UpdatePassportForm struct {
	PhoneNumber string `validate:"required"`
	Series      string `validate:"required,numeric,len=4"`
	Number      string `validate:"required,numeric,len=6"`
	IssueDate   string `validate:"required"`
	DeptCode    string `validate:"required"`
	Address     string
}

// SubscribeRequest — запрос назначения или продления абонемента.
// Используется обоими маршрутами: id-вариантом и телефонным.
type SubscribeRequest struct {
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Plan             string `json:"plan" validate:"required,oneof=Lite Medium Pro"`
	DurationInMonths int    `json:"durationInMonths" validate:"required,gt=0"`
}
