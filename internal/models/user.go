// Package models содержит доменные структуры учётной записи клиента зала:
// анкетные данные, паспорт и абонемент, а также вспомогательные типы
// для приёма данных из внешних запросов (JSON и multipart-формы).
package models

import (
	"strings"
	"time"
)

// Тарифы абонемента. Базовые цены тарифов живут в мобильном приложении,
// сервер хранит только название.
const (
	PlanLite   = "Lite"
	PlanMedium = "Medium"
	PlanPro    = "Pro"
)

// User представляет учётную запись клиента — единственную персистентную
// сущность сервиса. Запись создаётся при первом обращении с неизвестным
// номером телефона и никогда не удаляется.
//
// ФИО хранится раздельными полями, полное имя — производное (FullName).
// UID и номер телефона после регистрации не меняются.
type User struct {
	UID             string        `json:"uid"`
	PhoneNumber     string        `json:"phoneNumber"`
	Surname         string        `json:"surname,omitempty"`
	Name            string        `json:"name,omitempty"`
	Patronymic      string        `json:"patronymic,omitempty"`
	FullName        string        `json:"fullName,omitempty"`
	BirthDate       *time.Time    `json:"birthDate,omitempty"`
	Passport        *Passport     `json:"passport,omitempty"`
	PassportPhotoURL string       `json:"passportPhotoUrl,omitempty"`
	Subscription    *Subscription `json:"subscription,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Passport — паспортные данные клиента. Number всегда состоит из десяти
// цифр: четырёхзначная серия и шестизначный номер без разделителя.
type Passport struct {
	Number    string    `json:"number"`
	IssuedBy  string    `json:"issuedBy"`
	IssueDate time.Time `json:"issueDate"`
}

// Subscription — действующий абонемент клиента. Duration — человекочитаемая
// метка вида "3 мес.". Абонемент активен, пока EndDate строго в будущем;
// признак активности нигде не хранится и вычисляется в момент запроса.
type Subscription struct {
	Plan      string    `json:"plan"`
	Duration  string    `json:"duration"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// DisplayName собирает полное имя из непустых частей ФИО, разделяя их
// одиночными пробелами: {"Ivanov", "Ivan", ""} -> "Ivanov Ivan".
func (u *User) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.Surname, u.Name, u.Patronymic} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SplitFullName разбивает слитное ФИО на части в порядке
// "Фамилия Имя Отчество". Всё после второго слова считается отчеством.
// Используется для нормализации устаревшего поля fullName на входе.
func SplitFullName(fullName string) (surname, name, patronymic string) {
	words := strings.Fields(fullName)
	switch {
	case len(words) >= 3:
		return words[0], words[1], strings.Join(words[2:], " ")
	case len(words) == 2:
		return words[0], words[1], ""
	case len(words) == 1:
		return words[0], "", ""
	default:
		return "", "", ""
	}
}
