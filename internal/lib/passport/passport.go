// Package passport проверяет паспортные данные перед сохранением:
// серию и номер, код подразделения и дату выдачи. Исторически эти проверки
// выполняло мобильное приложение, сервер только приводил типы; теперь
// сервер проверяет всё сам и не полагается на клиента.
package passport

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Ошибки валидации паспортных данных.
var (
	ErrInvalidSeries    = errors.New("passport series must be exactly 4 digits")
	ErrInvalidNumber    = errors.New("passport number must be exactly 6 digits")
	ErrInvalidDeptCode  = errors.New("department code must match format 123-456")
	ErrInvalidIssueDate = errors.New("issue date must be a real calendar date in format 31.12.2006")
)

var (
	seriesRe   = regexp.MustCompile(`^\d{4}$`)
	numberRe   = regexp.MustCompile(`^\d{6}$`)
	deptCodeRe = regexp.MustCompile(`^\d{3}-\d{3}$`)
	dateRe     = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

// minIssueYear — нижняя граница года выдачи паспорта.
const minIssueYear = 1950

// FullNumber склеивает серию и номер в десятизначный номер паспорта,
// в таком виде он хранится в учётной записи.
func FullNumber(series, number string) (string, error) {
	if !seriesRe.MatchString(series) {
		return "", ErrInvalidSeries
	}
	if !numberRe.MatchString(number) {
		return "", ErrInvalidNumber
	}
	return series + number, nil
}

// ValidateDeptCode проверяет код подразделения по маске "###-###".
func ValidateDeptCode(code string) error {
	if !deptCodeRe.MatchString(code) {
		return ErrInvalidDeptCode
	}
	return nil
}

// ParseIssueDate разбирает дату выдачи в формате "дд.мм.гггг" и проверяет,
// что она существует в реальном календаре: 31.02.2024 или 00.01.2020
// отклоняются. Год ограничен разумными пределами — не раньше minIssueYear
// и не позже текущего года.
func ParseIssueDate(value string, now time.Time) (time.Time, error) {
	m := dateRe.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, ErrInvalidIssueDate
	}

	t, err := time.Parse("02.01.2006", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidIssueDate, value)
	}
	// контрольная сверка со строкой на случай нормализации при разборе
	if t.Format("02.01.2006") != value {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidIssueDate, value)
	}

	if t.Year() < minIssueYear || t.Year() > now.Year() {
		return time.Time{}, fmt.Errorf("%w: year %d is out of range", ErrInvalidIssueDate, t.Year())
	}
	return t, nil
}
